package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/sparkred/internal/catalog"
)

// maxDetailFetches bounds concurrent detail lookups when listing favorites.
const maxDetailFetches = 4

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage favorite movies",
	RunE:    runFavoritesList,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites with their details",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <id|title>...",
	Short: "Add a movie to favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:     "remove <id|title>...",
	Aliases: []string{"rm"},
	Short:   "Remove a movie from favorites",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runFavoritesRemove,
}

var favoritesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every favorite",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesClear,
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.AddCommand(favoritesListCmd, favoritesAddCmd, favoritesRemoveCmd, favoritesClearCmd)
}

// favoriteEntry is one listed favorite. Movie is nil when its details could
// not be fetched.
type favoriteEntry struct {
	ID    int64          `json:"id"`
	Movie *catalog.Movie `json:"movie"`
	Error string         `json:"error,omitempty"`
}

func runFavoritesList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	entries := a.fetchFavorites(ctx)

	if jsonOutput {
		return a.printJSON(entries)
	}
	if len(entries) == 0 {
		a.printf("No favorites yet. Add one with: sparkred favorites add <id|title>\n")
		return nil
	}

	a.printf("%d favorites:\n\n", len(entries))
	for i, e := range entries {
		if e.Movie == nil {
			a.printf(" %2d. #%d (details unavailable: %s)\n", i+1, e.ID, e.Error)
			continue
		}
		a.printf(" %2d. %s (%s)  %.1f  #%d\n", i+1, e.Movie.Title, e.Movie.Year, e.Movie.Rating, e.ID)
	}
	return nil
}

// fetchFavorites looks up every favorite's details, preserving list order.
// A failed lookup is reported on its entry rather than failing the listing.
func (a *app) fetchFavorites(ctx context.Context) []favoriteEntry {
	ids := a.favorites.List()
	entries := make([]favoriteEntry, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxDetailFetches)
	for i, id := range ids {
		entries[i].ID = id
		g.Go(func() error {
			movie, err := a.api.Movie(ctx, id)
			if err != nil {
				a.log.Debug("favorite lookup failed", "tmdb_id", id, "error", err)
				entries[i].Error = err.Error()
				return nil
			}
			entries[i].Movie = movie
			return nil
		})
	}
	_ = g.Wait()
	return entries
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	return updateFavorites(cmd, args, true)
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	return updateFavorites(cmd, args, false)
}

func updateFavorites(cmd *cobra.Command, args []string, add bool) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	id, err := a.resolveID(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	if add {
		err = a.favorites.Add(ctx, id)
	} else {
		err = a.favorites.Remove(ctx, id)
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		return a.printJSON(map[string]any{"id": id, "favorite": add})
	}
	if add {
		a.printf("Added #%d to favorites\n", id)
	} else {
		a.printf("Removed #%d from favorites\n", id)
	}
	return nil
}

func runFavoritesClear(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	n := a.favorites.Len()
	if err := a.favorites.Clear(ctx); err != nil {
		return err
	}
	if jsonOutput {
		return a.printJSON(map[string]int{"removed": n})
	}
	a.printf("Removed %d favorites\n", n)
	return nil
}

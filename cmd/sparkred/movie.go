package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/sparkred/internal/catalog"
)

var movieCmd = &cobra.Command{
	Use:   "movie <id|title>...",
	Short: "Show movie details",
	Long: `Show the full record of a movie.

The argument is a TMDB movie id or a title, which is resolved to the
closest search result.

Examples:
  sparkred movie 550
  sparkred movie "fight club"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMovieCmd,
}

func init() {
	rootCmd.AddCommand(movieCmd)
}

func runMovieCmd(cmd *cobra.Command, args []string) error {
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
	movie, err := a.api.Movie(ctx, id)
	if err != nil {
		return explain(err)
	}

	if jsonOutput {
		return a.printJSON(struct {
			*catalog.Movie
			Favorite bool `json:"favorite"`
		}{movie, a.favorites.Contains(movie.ID)})
	}
	a.printMovie(movie)
	return nil
}

func (a *app) printMovie(m *catalog.Movie) {
	star := ""
	if a.favorites.Contains(m.ID) {
		star = "  ★ favorite"
	}
	a.printf("%s (%s)%s\n", m.Title, m.Year, star)
	a.printf("%s\n\n", strings.Repeat("─", len([]rune(m.Title))+len(m.Year)+3))

	a.printf("  Rating:   %.1f/10\n", m.Rating)
	if m.Runtime != nil {
		a.printf("  Runtime:  %s\n", formatRuntime(*m.Runtime))
	}
	if len(m.Genres) > 0 {
		a.printf("  Genres:   %s\n", strings.Join(m.Genres, ", "))
	}
	if len(m.Cast) > 0 {
		a.printf("  Cast:     %s\n", strings.Join(m.Cast, ", "))
	}
	a.printf("  Poster:   %s\n", m.Img)
	if m.Backdrop != nil {
		a.printf("  Backdrop: %s\n", *m.Backdrop)
	}
	a.printf("  ID:       %d\n", m.ID)
	if m.Desc != "" {
		a.printf("\n%s\n", m.Desc)
	}
}

func formatRuntime(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

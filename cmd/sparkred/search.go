package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/sparkred/internal/catalog"
)

var searchCmd = &cobra.Command{
	Use:   "search [flags] <query>...",
	Short: "Search movies",
	Long: `Search movies by title.

Without a query the default "Action" search runs.

Examples:
  sparkred search "The Matrix"
  sparkred search batman --sort rating`,
	RunE: runSearchCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().String("sort", "relevance", "Order: relevance, rating or year")
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		query = catalog.DefaultQuery
	}
	sortFlag, _ := cmd.Flags().GetString("sort")
	key, err := catalog.ParseSortKey(sortFlag)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	session := a.newSession()
	session.SetSort(key)
	st := session.Submit(ctx, query)
	if st.Err != nil {
		return explain(st.Err)
	}

	if jsonOutput {
		return a.printJSON(st.Results)
	}
	if len(st.Results) == 0 {
		a.printf("No movies found for %q\n", query)
		return nil
	}
	a.printf("Found %d movies for %q:\n\n", len(st.Results), query)
	a.printMovieTable(st.Results)
	return nil
}

func (a *app) printMovieTable(movies []catalog.Summary) {
	a.printf("  # │ %-40s │ %4s │ %6s │ %8s\n", "TITLE", "YEAR", "RATING", "ID")
	a.printf("────┼──────────────────────────────────────────┼──────┼────────┼──────────\n")

	for i, m := range movies {
		title := m.Title
		if len([]rune(title)) > 38 {
			title = string([]rune(title)[:35]) + "..."
		}
		mark := " "
		if a.favorites.Contains(m.ID) {
			mark = "★"
		}
		a.printf(" %2d │ %s %-38s │ %4s │ %6.1f │ %8d\n", i+1, mark, title, m.Year, m.Rating, m.ID)
	}
}

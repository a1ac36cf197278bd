package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/vmunix/sparkred/internal/browse"
	"github.com/vmunix/sparkred/internal/catalog"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Search interactively",
	Long: `Search interactively, one line at a time.

Typed lines are searched once typing pauses. Commands:
  :sort <relevance|rating|year>   reorder the results
  :retry                          repeat a failed search
  :clear                          clear the query
  :fav <n>                        toggle favorite for result n
  :q                              quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	var mu sync.Mutex
	render := func(st browse.State) {
		mu.Lock()
		defer mu.Unlock()
		a.renderState(st)
	}

	session := a.newSession(browse.WithOnChange(render))
	defer session.Close()

	a.printf("Type a title to search, :q to quit.\n")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, ":") {
			session.Type(ctx, line)
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case ":q", ":quit":
			return nil
		case ":sort":
			if len(fields) < 2 {
				a.printf("usage: :sort <relevance|rating|year>\n")
				continue
			}
			key, err := catalog.ParseSortKey(fields[1])
			if err != nil {
				a.printf("%v\n", err)
				continue
			}
			session.SetSort(key)
		case ":retry":
			session.Retry(ctx)
		case ":clear":
			session.ClearQuery()
		case ":fav":
			if len(fields) < 2 {
				a.printf("usage: :fav <n>\n")
				continue
			}
			mu.Lock()
			a.toggleFavorite(cmd, session.State(), fields[1])
			mu.Unlock()
		default:
			a.printf("unknown command %s\n", fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	// Input ended while a search was still pending.
	if st := session.State(); st.Query != "" && st.Query != st.Searched {
		session.Submit(ctx, st.Query)
	}
	return nil
}

func (a *app) renderState(st browse.State) {
	switch {
	case st.Loading:
		a.printf("Searching %q...\n", st.Query)
	case st.Err != nil:
		a.printf("Error: %v\n", explain(st.Err))
		if st.Kind == browse.ErrorUnavailable {
			a.printf("Type :retry to try again.\n")
		}
	case st.Searched == "":
		return
	case len(st.Results) == 0:
		a.printf("No movies found for %q\n", st.Searched)
	default:
		a.printf("%d movies for %q (sorted by %s):\n", len(st.Results), st.Searched, st.Sort)
		a.printMovieTable(st.Results)
	}
}

func (a *app) toggleFavorite(cmd *cobra.Command, st browse.State, arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(st.Results) {
		a.printf("no result %s\n", arg)
		return
	}
	m := st.Results[n-1]

	ctx := cmd.Context()
	if a.favorites.Contains(m.ID) {
		err = a.favorites.Remove(ctx, m.ID)
	} else {
		err = a.favorites.Add(ctx, m.ID)
	}
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	if a.favorites.Contains(m.ID) {
		a.printf("★ %s added to favorites\n", m.Title)
	} else {
		a.printf("%s removed from favorites\n", m.Title)
	}
}

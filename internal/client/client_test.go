package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/sparkred/internal/catalog"
)

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/movies", r.URL.Path)
		assert.Equal(t, "Batman", r.URL.Query().Get("query"))
		assert.Equal(t, "rating", r.URL.Query().Get("sort"))
		_, _ = w.Write([]byte(`[{"id":268,"title":"Batman","desc":"Gotham","img":"/file.svg","rating":7.2,"year":"1989"}]`))
	}))
	defer server.Close()

	c := New(server.URL)
	movies, err := c.Search(context.Background(), "Batman", catalog.SortRating)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, catalog.Summary{ID: 268, Title: "Batman", Desc: "Gotham", Img: "/file.svg", Rating: 7.2, Year: "1989"}, movies[0])
}

func TestClient_Search_EmptyIsNotNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("sort"), "relevance is the server default")
		_, _ = w.Write([]byte(`null`))
	}))
	defer server.Close()

	movies, err := New(server.URL).Search(context.Background(), "zzzz", catalog.SortRelevance)
	require.NoError(t, err)
	assert.NotNil(t, movies)
	assert.Empty(t, movies)
}

func TestClient_Movie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/movies/550", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":550,"title":"Fight Club","desc":"","img":"/file.svg","rating":8.4,"year":"1999","backdrop":null,"runtime":139,"genres":["Drama"],"cast":["Edward Norton"]}`))
	}))
	defer server.Close()

	movie, err := New(server.URL).Movie(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", movie.Title)
	assert.Nil(t, movie.Backdrop)
	require.NotNil(t, movie.Runtime)
	assert.Equal(t, 139, *movie.Runtime)
	assert.Equal(t, []string{"Edward Norton"}, movie.Cast)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		want      error
		retryable bool
	}{
		{"not found", http.StatusNotFound, `{"error":"movie not found","code":"NOT_FOUND"}`, ErrNotFound, false},
		{"config", http.StatusInternalServerError, `{"error":"TMDB API key not set","code":"CONFIG_ERROR"}`, ErrConfig, false},
		{"upstream", http.StatusBadGateway, `{"error":"upstream failed","code":"UPSTREAM_ERROR"}`, ErrUnavailable, true},
		{"invalid id", http.StatusBadRequest, `{"error":"invalid id","code":"INVALID_ID"}`, ErrInvalidRequest, false},
		{"unauthorized", http.StatusUnauthorized, `{"error":"sign in required","code":"UNAUTHORIZED"}`, ErrUnauthorized, false},
		{"html gateway page", http.StatusServiceUnavailable, `<html>down</html>`, ErrUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := New(server.URL).Movie(context.Background(), 1)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.retryable, Retryable(err))

			var srvErr *Error
			require.ErrorAs(t, err, &srvErr)
			assert.Equal(t, tt.status, srvErr.Status)
		})
	}
}

func TestClient_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(url).Search(context.Background(), "Batman", catalog.SortRelevance)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_SendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"status":"ok","version":"dev","tmdb":true,"auth":true}`))
	}))
	defer server.Close()

	c := New(server.URL, WithTokenSource(func(context.Context) (string, error) { return "at-1", nil }))
	status, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
	assert.True(t, status.TMDB)
}

func TestClient_TokenSourceError(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	signIn := errors.New("sign in required")
	c := New(server.URL, WithTokenSource(func(context.Context) (string, error) { return "", signIn }))

	_, err := c.Search(context.Background(), "Batman", catalog.SortRelevance)
	assert.ErrorIs(t, err, signIn)
	assert.False(t, called)
}

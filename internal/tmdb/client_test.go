package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetMovie(t *testing.T) {
	// Mock TMDB API
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/movie/550", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "credits", r.URL.Query().Get("append_to_response"))

		runtime := 139
		resp := Movie{
			ID:           550,
			Title:        "Fight Club",
			Overview:     "A ticking-time-bomb insomniac and a slippery soap salesman...",
			ReleaseDate:  "1999-10-15",
			PosterPath:   "/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg",
			BackdropPath: "/hZkgoQYus5vegHoetLkCJzb17zJ.jpg",
			VoteAverage:  8.4,
			Runtime:      &runtime,
			Genres:       []Genre{{ID: 18, Name: "Drama"}},
			Credits: Credits{Cast: []CastMember{
				{ID: 819, Name: "Edward Norton"},
				{ID: 287, Name: "Brad Pitt"},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	movie, err := client.GetMovie(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, int64(550), movie.ID)
	assert.Equal(t, "Fight Club", movie.Title)
	require.NotNil(t, movie.Runtime)
	assert.Equal(t, 139, *movie.Runtime)
	require.Len(t, movie.Credits.Cast, 2)
	assert.Equal(t, "Edward Norton", movie.Credits.Cast[0].Name)
}

func TestClient_GetMovie_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"status_code":34,"status_message":"The resource you requested could not be found."}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	movie, err := client.GetMovie(context.Background(), 99999999)
	assert.Nil(t, movie)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_GetMovie_SuccessFalseWithOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"status_code":34}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	_, err := client.GetMovie(context.Background(), 550)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_MissingAPIKey(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient("", WithBaseURL(server.URL))
	assert.False(t, client.Configured())

	_, err := client.GetMovie(context.Background(), 550)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = client.SearchMovies(context.Background(), "Batman")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	assert.False(t, called, "no request should be sent without a key")
}

func TestClient_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"status_code":7,"status_message":"Invalid API key: You must be granted a valid key."}`))
	}))
	defer server.Close()

	client := NewClient("bad-key", WithBaseURL(server.URL))

	_, err := client.SearchMovies(context.Background(), "Batman")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = client.GetMovie(context.Background(), 550)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_SearchMovies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/search/movie", r.URL.Path)
		assert.Equal(t, "Batman & Robin", r.URL.Query().Get("query"))

		_, _ = w.Write([]byte(`{
			"page": 1,
			"results": [
				{"id": 268, "title": "Batman", "overview": "Gotham", "release_date": "1989-06-23", "poster_path": "/a.jpg", "vote_average": 7.2},
				{"id": 415, "title": "Batman & Robin", "overview": "", "release_date": "", "poster_path": null, "vote_average": 4.3}
			],
			"total_results": 2
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	results, err := client.SearchMovies(context.Background(), "Batman & Robin")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(268), results[0].ID)
	assert.Equal(t, "1989-06-23", results[0].ReleaseDate)
	assert.Empty(t, results[1].PosterPath)
}

func TestClient_SearchMovies_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	_, err := client.SearchMovies(context.Background(), "Batman")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.HTTPStatus)
}

func TestClient_SearchMovies_Malformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	_, err := client.SearchMovies(context.Background(), "Batman")
	assert.ErrorContains(t, err, "decode response")
}

func TestClient_GetMovie_UpstreamFailureIsNotNotFound(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"outage with html", http.StatusServiceUnavailable, `<html>upstream down</html>`},
		{"rate limited", http.StatusTooManyRequests, `{"success":false,"status_code":25,"status_message":"Your request count is over the allowed limit."}`},
		{"empty 500", http.StatusInternalServerError, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient("test-key", WithBaseURL(server.URL))

			_, err := client.GetMovie(context.Background(), 550)
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrNotFound)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.HTTPStatus)
		})
	}
}

func TestClient_GetMovie_InvalidIDIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"status_code":6,"status_message":"Invalid id: The pre-requisite id is invalid or not found."}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	_, err := client.GetMovie(context.Background(), 550)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAPIError_NotFound(t *testing.T) {
	tests := []struct {
		err  APIError
		want bool
	}{
		{APIError{HTTPStatus: http.StatusNotFound}, true},
		{APIError{HTTPStatus: http.StatusOK, Unsuccessful: true}, true},
		{APIError{HTTPStatus: http.StatusBadRequest, Unsuccessful: true}, true},
		{APIError{HTTPStatus: http.StatusBadRequest}, false},
		{APIError{HTTPStatus: http.StatusTooManyRequests, Unsuccessful: true}, false},
		{APIError{HTTPStatus: http.StatusBadGateway, Unsuccessful: true}, false},
		{APIError{HTTPStatus: http.StatusServiceUnavailable}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.NotFound(), "status %d unsuccessful %v", tt.err.HTTPStatus, tt.err.Unsuccessful)
	}
}

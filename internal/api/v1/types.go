package v1

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusResponse is the response for GET /api/status.
type statusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	TMDB    bool   `json:"tmdb"`
	Auth    bool   `json:"auth"`
}

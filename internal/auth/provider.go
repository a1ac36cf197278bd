package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Provider is a client for a GoTrue-compatible identity API.
type Provider struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	now        func() time.Time
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ProviderOption {
	return func(p *Provider) {
		p.httpClient = hc
	}
}

// WithProviderClock replaces the time source used to compute expiry (for testing).
func WithProviderClock(now func() time.Time) ProviderOption {
	return func(p *Provider) {
		p.now = now
	}
}

// NewProvider creates a provider client for the project at baseURL.
func NewProvider(baseURL, anonKey string, opts ...ProviderOption) *Provider {
	p := &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Configured reports whether both URL and anon key are set.
func (p *Provider) Configured() bool {
	return p.baseURL != "" && p.anonKey != ""
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

// SignIn exchanges an email and password for a session.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var resp tokenResponse
	if err := p.post(ctx, "/auth/v1/token?grant_type=password", "", credentials{email, password}, &resp); err != nil {
		return nil, err
	}
	return p.session(resp)
}

// SignUp registers a new account. The returned session is nil when the
// provider requires email confirmation before the first sign-in.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	var resp tokenResponse
	if err := p.post(ctx, "/auth/v1/signup", "", credentials{email, password}, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, nil
	}
	return p.session(resp)
}

// Refresh trades a refresh token for a new session.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var resp tokenResponse
	if err := p.post(ctx, "/auth/v1/token?grant_type=refresh_token", "", body, &resp); err != nil {
		return nil, err
	}
	return p.session(resp)
}

// SignOut revokes the session identified by accessToken.
func (p *Provider) SignOut(ctx context.Context, accessToken string) error {
	return p.post(ctx, "/auth/v1/logout", accessToken, nil, nil)
}

func (p *Provider) session(resp tokenResponse) (*Session, error) {
	if resp.AccessToken == "" {
		return nil, &Error{Message: "identity provider returned no access token"}
	}
	s := &Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	switch {
	case resp.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(resp.ExpiresAt, 0)
	case resp.ExpiresIn > 0:
		s.ExpiresAt = p.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	if resp.User != nil {
		s.User = *resp.User
	}
	return s, nil
}

func (p *Provider) post(ctx context.Context, path, bearer string, body, out any) error {
	if !p.Configured() {
		return ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", p.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer == "" {
		bearer = p.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return providerError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func providerError(status int, body []byte) *Error {
	var e errorResponse
	_ = json.Unmarshal(body, &e)

	msg := firstNonEmpty(e.ErrorDescription, e.Msg, e.Message, e.Error)
	if msg == "" {
		msg = fmt.Sprintf("identity provider error: %s", http.StatusText(status))
	}
	return &Error{
		Status:  status,
		Code:    firstNonEmpty(e.ErrorCode, e.Error),
		Message: msg,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ABOUTME: HTTP client for the Visionary gallery gateway API
// ABOUTME: Wraps API calls with bearer auth and error handling for CLI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Generation waits on the image backend, which can take close to a minute.
const defaultTimeout = 90 * time.Second

// Client is the API client for the gallery gateway
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken authenticates every gateway request with an API token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the gateway origin this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HasToken reports whether requests carry an API token.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// HealthResponse represents the /health endpoint response
type HealthResponse struct {
	Status   string `json:"status"`
	Upstream string `json:"upstream"`
	Backend  string `json:"backend_url"`
}

// UserInfo represents the /auth/me endpoint response
type UserInfo struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	Image         string `json:"image,omitempty"`
}

// Image is a gallery item as the image backend stores it.
type Image struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	ImageURL      string  `json:"image_url"`
	Prompt        string  `json:"prompt"`
	RefinedPrompt *string `json:"refined_prompt,omitempty"`
	CreatedAt     string  `json:"created_at"`
	Likes         int     `json:"likes"`
	UserName      string  `json:"userName,omitempty"`
}

// Comment is a single comment on an image.
type Comment struct {
	ID        string `json:"id"`
	ImageID   string `json:"imageId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// GenerateRequest is the body of POST /images/generate
type GenerateRequest struct {
	Prompt         string `json:"prompt"`
	RefinePrompt   bool   `json:"refine_prompt"`
	SkipCloudinary bool   `json:"skip_cloudinary"`
}

// GeneratedImage is a freshly generated, not yet saved image.
type GeneratedImage struct {
	ImageURL      string  `json:"image_url"`
	Prompt        string  `json:"prompt"`
	RefinedPrompt *string `json:"refined_prompt,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// SaveRequest is the body of POST /images/save
type SaveRequest struct {
	ImageURL      string  `json:"image_url"`
	Prompt        string  `json:"prompt"`
	RefinedPrompt *string `json:"refined_prompt,omitempty"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}

// StatusError is returned when the gateway answers with a non-2xx status.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

// IsUnauthorized reports whether err is a 401 from the gateway.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusUnauthorized
}

// Health calls the /health endpoint
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Me calls GET /auth/me
func (c *Client) Me(ctx context.Context) (*UserInfo, error) {
	var info UserInfo
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Logout calls POST /auth/logout, revoking the API token in use.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Explore calls GET /images/explore for one page of the community feed.
func (c *Client) Explore(ctx context.Context, offset, limit int, sort string) ([]Image, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	if sort != "" {
		q.Set("sort", sort)
	}
	var images []Image
	if err := c.do(ctx, http.MethodGet, "/images/explore?"+q.Encode(), nil, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// UserImages calls GET /images/user, the signed-in user's creations.
func (c *Client) UserImages(ctx context.Context) ([]Image, error) {
	var images []Image
	if err := c.do(ctx, http.MethodGet, "/images/user", nil, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// LikedIDs calls GET /images/liked, the IDs the signed-in user liked.
func (c *Client) LikedIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.do(ctx, http.MethodGet, "/images/liked", nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Image calls GET /images/{id}
func (c *Client) Image(ctx context.Context, id string) (*Image, error) {
	var img Image
	if err := c.do(ctx, http.MethodGet, imagePath(id), nil, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

// Comments calls GET /images/{id}/comments
func (c *Client) Comments(ctx context.Context, id string) ([]Comment, error) {
	var resp struct {
		Comments []Comment `json:"comments"`
	}
	if err := c.do(ctx, http.MethodGet, imagePath(id)+"/comments", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

// CreateComment calls POST /images/{id}/comments and returns the stored
// comment. The gateway attributes it to the token's identity.
func (c *Client) CreateComment(ctx context.Context, id, text string) (*Comment, error) {
	var resp struct {
		Comment *Comment `json:"comment"`
	}
	body := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPost, imagePath(id)+"/comments", body, &resp); err != nil {
		return nil, err
	}
	if resp.Comment == nil {
		return nil, fmt.Errorf("invalid response from backend: missing comment")
	}
	return resp.Comment, nil
}

// Like calls POST /images/like
func (c *Client) Like(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/images/like", map[string]string{"imageId": id}, nil)
}

// Unlike calls POST /images/unlike
func (c *Client) Unlike(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/images/unlike", map[string]string{"imageId": id}, nil)
}

// Generate calls POST /images/generate
func (c *Client) Generate(ctx context.Context, input *GenerateRequest) (*GeneratedImage, error) {
	var img GeneratedImage
	if err := c.do(ctx, http.MethodPost, "/images/generate", input, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

// Upload calls POST /images/upload and returns the hosted image URL.
func (c *Client) Upload(ctx context.Context, imageURL string) (string, error) {
	var resp struct {
		URL string `json:"cloudinary_url"`
	}
	if err := c.do(ctx, http.MethodPost, "/images/upload", map[string]string{"image_url": imageURL}, &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("invalid response from backend: missing hosted image URL")
	}
	return resp.URL, nil
}

// Save calls POST /images/save
func (c *Client) Save(ctx context.Context, input *SaveRequest) error {
	return c.do(ctx, http.MethodPost, "/images/save", input, nil)
}

// Delete calls DELETE /images/{id}
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, imagePath(id), nil, nil)
}

// Download streams the image bytes at imageURL into w. The image lives on
// external hosting, so no credentials are sent.
func (c *Client) Download(ctx context.Context, imageURL string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &StatusError{Status: resp.StatusCode}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read image: %w", err)
	}
	return n, nil
}

// do sends a gateway request and decodes a JSON response into out, if set.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal input: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return &StatusError{Status: resp.StatusCode}
	}
	return &StatusError{Status: resp.StatusCode, Message: errResp.Error}
}

func imagePath(id string) string {
	return "/images/" + url.PathEscape(id)
}

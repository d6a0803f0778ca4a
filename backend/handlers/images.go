// ABOUTME: Image gateway handlers proxying the image-generation backend
// ABOUTME: List reads fail open, single reads and writes fail closed

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/markalston/visionary-gallery/backend/middleware"
	"github.com/markalston/visionary-gallery/backend/models"
	"github.com/markalston/visionary-gallery/backend/services"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

var (
	emptyList     = []byte("[]")
	emptyComments = []byte(`{"comments":[]}`)
)

// Explore proxies GET /images/explore. Fails open to an empty page.
func (h *Handler) Explore(w http.ResponseWriter, r *http.Request) {
	query := exploreQuery(r.URL.Query())
	h.proxyList(w, r, services.UpstreamRequest{
		Op:     "explore",
		Method: http.MethodGet,
		Path:   "/images/explore",
		Query:  query,
	}, emptyList)
}

// UserImages proxies GET /images/user for the signed-in user.
func (h *Handler) UserImages(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	h.proxyList(w, r, services.UpstreamRequest{
		Op:     "user_images",
		Method: http.MethodGet,
		Path:   "/images/user",
		UserID: identity.Email,
	}, emptyList)
}

// LikedImages proxies GET /images/liked, the IDs the signed-in user liked.
func (h *Handler) LikedImages(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	h.proxyList(w, r, services.UpstreamRequest{
		Op:     "liked",
		Method: http.MethodGet,
		Path:   "/images/liked",
		UserID: identity.Email,
	}, emptyList)
}

// GetImage proxies GET /images/{id}. Fails closed.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.imageID(w, r)
	if !ok {
		return
	}

	body, err := h.upstream.Do(r.Context(), services.UpstreamRequest{
		Op:     "image",
		Method: http.MethodGet,
		Path:   "/images/" + url.PathEscape(id),
	})
	if err != nil {
		slog.Error("Image fetch failed", "image_id", id, "error", err)
		h.writeError(w, "Failed to fetch image", http.StatusInternalServerError)
		return
	}
	h.writeRaw(w, http.StatusOK, body)
}

// GetComments proxies GET /images/{id}/comments. Fails open to no comments.
func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	id, ok := h.imageID(w, r)
	if !ok {
		return
	}
	h.proxyList(w, r, services.UpstreamRequest{
		Op:     "comments",
		Method: http.MethodGet,
		Path:   "/images/" + url.PathEscape(id) + "/comments",
	}, emptyComments)
}

// CreateComment proxies POST /images/{id}/comments with the session
// identity as author. Answers {"comment": {...}}.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.imageID(w, r)
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		h.writeError(w, "Comment text is required", http.StatusBadRequest)
		return
	}

	req.UserID = identity.Email
	req.UserName = identity.DisplayName()

	body, err := h.upstream.Do(r.Context(), services.UpstreamRequest{
		Op:     "create_comment",
		Method: http.MethodPost,
		Path:   "/images/" + url.PathEscape(id) + "/comments",
		Body:   req,
		UserID: identity.Email,
	})
	if err != nil || !json.Valid(body) {
		slog.Error("Comment create failed", "image_id", id, "error", err)
		h.writeError(w, "Failed to create comment", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]json.RawMessage{"comment": body})
}

// Like proxies POST /images/like.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	h.proxyLike(w, r, "like", "Failed to like image")
}

// Unlike proxies POST /images/unlike.
func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.proxyLike(w, r, "unlike", "Failed to unlike image")
}

func (h *Handler) proxyLike(w http.ResponseWriter, r *http.Request, op, failure string) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req models.LikeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.ImageID = strings.TrimSpace(req.ImageID)
	if req.ImageID == "" {
		h.writeError(w, "Image ID is required", http.StatusBadRequest)
		return
	}
	if err := services.ValidateImageID(req.ImageID); err != nil {
		h.writeError(w, "Invalid image ID", http.StatusBadRequest)
		return
	}

	req.UserID = identity.Email

	h.proxyWrite(w, r, services.UpstreamRequest{
		Op:     op,
		Method: http.MethodPost,
		Path:   "/images/" + op,
		Body:   req,
		UserID: identity.Email,
	}, failure)
}

// Generate proxies POST /images/generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req models.GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		h.writeError(w, "Prompt is required", http.StatusBadRequest)
		return
	}

	h.proxyWrite(w, r, services.UpstreamRequest{
		Op:     "generate",
		Method: http.MethodPost,
		Path:   "/images/generate",
		Body:   req,
		UserID: identity.Email,
	}, "Failed to generate image")
}

// Upload proxies POST /images/upload, moving a generated image to hosting.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req models.UploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.ImageURL) == "" {
		h.writeError(w, "Image URL is required", http.StatusBadRequest)
		return
	}

	h.proxyWrite(w, r, services.UpstreamRequest{
		Op:     "upload",
		Method: http.MethodPost,
		Path:   "/images/upload",
		Body:   req,
		UserID: identity.Email,
	}, "Failed to upload image")
}

// Save proxies POST /images/save, recording an image in the user's gallery.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req models.SaveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.ImageURL) == "" || strings.TrimSpace(req.Prompt) == "" {
		h.writeError(w, "Image URL and prompt are required", http.StatusBadRequest)
		return
	}

	req.UserID = identity.Email

	h.proxyWrite(w, r, services.UpstreamRequest{
		Op:     "save",
		Method: http.MethodPost,
		Path:   "/images/save",
		Body:   req,
		UserID: identity.Email,
	}, "Failed to save image")
}

// DeleteImage proxies DELETE /images/{id}. Ownership is enforced upstream.
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.imageID(w, r)
	if !ok {
		return
	}

	h.proxyWrite(w, r, services.UpstreamRequest{
		Op:     "delete",
		Method: http.MethodDelete,
		Path:   "/images/" + url.PathEscape(id),
		UserID: identity.Email,
	}, "Failed to delete image")
}

// proxyList relays a list read, answering empty on any upstream failure.
func (h *Handler) proxyList(w http.ResponseWriter, r *http.Request, req services.UpstreamRequest, empty []byte) {
	body, err := h.upstream.Do(r.Context(), req)
	if err != nil {
		slog.Warn("Upstream read failed, serving empty result",
			"op", req.Op,
			"path", req.Path,
			"status", upstreamStatus(err),
			"error", err,
		)
		h.metrics.RecordFailOpen(req.Op)
		h.writeRaw(w, http.StatusOK, empty)
		return
	}
	h.writeRaw(w, http.StatusOK, body)
}

// proxyWrite relays a write, answering 500 with failure on any upstream error.
func (h *Handler) proxyWrite(w http.ResponseWriter, r *http.Request, req services.UpstreamRequest, failure string) {
	body, err := h.upstream.Do(r.Context(), req)
	if err != nil {
		slog.Error("Upstream write failed",
			"op", req.Op,
			"path", req.Path,
			"status", upstreamStatus(err),
			"user", req.UserID,
			"error", err,
		)
		h.writeError(w, failure, http.StatusInternalServerError)
		return
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	h.writeRaw(w, http.StatusOK, body)
}

// identity returns the caller's identity or answers 401.
func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (*models.Identity, bool) {
	identity := middleware.GetIdentity(r)
	if identity == nil || identity.Email == "" {
		h.writeError(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return identity, true
}

// imageID reads and validates the {id} path value.
func (h *Handler) imageID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		h.writeError(w, "Image ID is required", http.StatusBadRequest)
		return "", false
	}
	if err := services.ValidateImageID(id); err != nil {
		h.writeError(w, "Invalid image ID", http.StatusBadRequest)
		return "", false
	}
	return id, true
}

// exploreQuery normalizes paging and sort parameters for the explore feed.
func exploreQuery(in url.Values) url.Values {
	offset := parseIntDefault(in.Get("offset"), 0)
	if offset < 0 {
		offset = 0
	}
	limit := parseIntDefault(in.Get("limit"), defaultPageLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	out := url.Values{}
	out.Set("offset", strconv.Itoa(offset))
	out.Set("limit", strconv.Itoa(limit))
	if sort := normalizeSort(in.Get("sort")); sort != "" {
		out.Set("sort", sort)
	}
	return out
}

// normalizeSort maps client sort names onto the backend's. Recency is the
// backend default, so it is sent as no sort at all.
func normalizeSort(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case models.SortLikes, "popular":
		return models.SortLikes
	default:
		return ""
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func upstreamStatus(err error) int {
	var se *services.UpstreamStatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

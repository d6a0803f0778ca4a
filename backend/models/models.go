// ABOUTME: Request and response models for the image gateway API
// ABOUTME: JSON field names match the image backend's wire format

package models

// Sort values accepted by the explore feed upstream.
const (
	SortRecent = "recent"
	SortLikes  = "likes"
)

// LikeRequest is the body of POST /images/like and /images/unlike.
// UserID is always overwritten with the session identity.
type LikeRequest struct {
	ImageID string `json:"imageId"`
	UserID  string `json:"userId"`
}

// CommentRequest is the body forwarded for POST /images/{id}/comments.
// UserID and UserName are always overwritten with the session identity.
type CommentRequest struct {
	Text     string `json:"text"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// GenerateRequest is the body of POST /images/generate.
type GenerateRequest struct {
	Prompt         string `json:"prompt"`
	RefinePrompt   bool   `json:"refine_prompt"`
	SkipCloudinary bool   `json:"skip_cloudinary"`
}

// UploadRequest is the body of POST /images/upload.
type UploadRequest struct {
	ImageURL string `json:"image_url"`
}

// SaveRequest is the body of POST /images/save.
type SaveRequest struct {
	ImageURL      string  `json:"image_url"`
	Prompt        string  `json:"prompt"`
	RefinedPrompt *string `json:"refined_prompt,omitempty"`
	UserID        string  `json:"userId,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// HealthResponse reports gateway and image backend reachability.
type HealthResponse struct {
	Status   string `json:"status"`
	Upstream string `json:"upstream"`
	Backend  string `json:"backend_url"`
}

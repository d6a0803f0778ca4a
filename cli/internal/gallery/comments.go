// ABOUTME: Comment thread for one image, loaded lazily on first open
// ABOUTME: Posts are appended only after the gateway returns the stored comment

package gallery

import (
	"context"
	"strings"
)

// Thread is the comment list and draft for a single image.
type Thread struct {
	imageID string
	api     API
	session *Session

	comments   []Comment
	loaded     bool
	loading    bool
	loadErr    error
	submitting bool

	// Draft is the unsent comment text.
	Draft string
}

// NewThread creates an unloaded thread for imageID.
func NewThread(api API, session *Session, imageID string) *Thread {
	return &Thread{imageID: imageID, api: api, session: session}
}

// ImageID returns the image the thread belongs to.
func (t *Thread) ImageID() string { return t.imageID }

// Comments returns the loaded comments, oldest first.
func (t *Thread) Comments() []Comment { return t.comments }

// Loaded reports whether a load succeeded.
func (t *Thread) Loaded() bool { return t.loaded }

// Loading reports whether a load is in flight.
func (t *Thread) Loading() bool { return t.loading }

// Submitting reports whether a post is in flight.
func (t *Thread) Submitting() bool { return t.submitting }

// LoadErr is the last load failure, shown as a notice under an empty list.
func (t *Thread) LoadErr() error { return t.loadErr }

// BeginLoad marks a load in flight. It returns false when the thread is
// already loaded or loading, so opening a detail view twice fetches once.
func (t *Thread) BeginLoad() bool {
	if t.loaded || t.loading {
		return false
	}
	t.loading = true
	return true
}

// Fetch reads the comments. It does not change thread state.
func (t *Thread) Fetch(ctx context.Context) ([]Comment, error) {
	raw, err := t.api.Comments(ctx, t.imageID)
	if err != nil {
		return nil, upstream("comments", true, err)
	}
	out := make([]Comment, 0, len(raw))
	for _, c := range raw {
		out = append(out, commentFromClient(c))
	}
	return out, nil
}

// ApplyLoad settles a load. A failure leaves an empty list and keeps the
// error for display; the next open retries.
func (t *Thread) ApplyLoad(comments []Comment, err error) error {
	t.loading = false
	if err != nil {
		t.comments = nil
		t.loadErr = err
		return err
	}
	t.comments = comments
	t.loadErr = nil
	t.loaded = true
	return nil
}

// Open loads the thread on first use.
func (t *Thread) Open(ctx context.Context) error {
	if !t.BeginLoad() {
		return nil
	}
	return t.ApplyLoad(t.Fetch(ctx))
}

// CommentRequest is a post awaiting the gateway. The draft is cleared while
// it is in flight and restored if it fails.
type CommentRequest struct {
	Text string

	pending *Pending[string]
}

// BeginSubmit validates text and starts a post.
func (t *Thread) BeginSubmit(text string) (*CommentRequest, error) {
	if !t.session.Authenticated() {
		return nil, ErrAuthRequired
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, invalid("comment text is required")
	}
	if t.submitting {
		return nil, ErrInFlight
	}
	t.submitting = true

	req := &CommentRequest{Text: trimmed}
	req.pending = Begin(func() string {
		draft := t.Draft
		t.Draft = ""
		return draft
	}, func(draft string) {
		t.Draft = draft
	})
	return req, nil
}

// Commit posts the comment. It does not change thread state.
func (t *Thread) Commit(ctx context.Context, req *CommentRequest) (*Comment, error) {
	c, err := t.api.CreateComment(ctx, t.imageID, req.Text)
	if err != nil {
		return nil, upstream("post comment", false, err)
	}
	comment := commentFromClient(*c)
	return &comment, nil
}

// Settle appends the stored comment on success and restores the draft on
// failure.
func (t *Thread) Settle(req *CommentRequest, comment *Comment, err error) error {
	t.submitting = false
	if err = req.pending.Settle(err); err != nil {
		return err
	}
	t.comments = append(t.comments, *comment)
	return nil
}

// Submit posts text as a comment.
func (t *Thread) Submit(ctx context.Context, text string) error {
	req, err := t.BeginSubmit(text)
	if err != nil {
		return err
	}
	comment, err := t.Commit(ctx, req)
	return t.Settle(req, comment, err)
}

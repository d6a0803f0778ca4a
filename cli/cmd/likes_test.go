// ABOUTME: Tests for the like, unlike, and delete commands
// ABOUTME: Verifies auth gating, idempotence, and delete confirmation

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
)

func TestLike_SendsLikeAndReportsCount(t *testing.T) {
	gw := newTestGateway(t)
	gw.signIn(t, "ada@example.com")
	serveImage(gw, "grace@example.com")
	gw.handle("GET /images/liked", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	var body map[string]string
	gw.handle("POST /images/like", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"success":true}`))
	})

	var buf bytes.Buffer
	if code := runSetLike(context.Background(), &buf, "img-1", true); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if body["imageId"] != "img-1" {
		t.Errorf("unexpected like body %v", body)
	}
	if !strings.Contains(buf.String(), "Liked img-1 (1,235 likes)") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestLike_AlreadyLikedIsNoOp(t *testing.T) {
	gw := newTestGateway(t)
	gw.signIn(t, "ada@example.com")
	serveImage(gw, "grace@example.com")
	gw.handle("GET /images/liked", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["img-1"]`))
	})
	gw.handle("POST /images/like", func(w http.ResponseWriter, r *http.Request) {
		t.Error("like should not be sent again")
	})

	var buf bytes.Buffer
	if code := runSetLike(context.Background(), &buf, "img-1", true); code != 0 {
		t.Errorf("expected exit code 0, got %d: %s", code, buf.String())
	}
}

func TestUnlike_FailureReportsError(t *testing.T) {
	gw := newTestGateway(t)
	gw.signIn(t, "ada@example.com")
	serveImage(gw, "grace@example.com")
	gw.handle("GET /images/liked", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["img-1"]`))
	})
	gw.handle("POST /images/unlike", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	var buf bytes.Buffer
	if code := runSetLike(context.Background(), &buf, "img-1", false); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
}

func TestLike_Anonymous(t *testing.T) {
	gw := newTestGateway(t)
	gw.handle("POST /images/like", func(w http.ResponseWriter, r *http.Request) {
		t.Error("anonymous like must not reach the gateway")
	})

	var buf bytes.Buffer
	if code := runSetLike(context.Background(), &buf, "img-1", true); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "visionary login") {
		t.Errorf("expected sign-in hint, got %s", buf.String())
	}
}

func TestDelete_RequiresOwnership(t *testing.T) {
	gw := newTestGateway(t)
	gw.signIn(t, "ada@example.com")
	serveImage(gw, "grace@example.com")
	gw.handle("DELETE /images/{id}", func(w http.ResponseWriter, r *http.Request) {
		t.Error("delete should not be sent for someone else's image")
	})

	var buf bytes.Buffer
	if code := runDelete(context.Background(), &buf, "img-1", true); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "your own images") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestDelete_WithYes(t *testing.T) {
	gw := newTestGateway(t)
	gw.signIn(t, "grace@example.com")
	serveImage(gw, "grace@example.com")
	var deleted atomic.Bool
	gw.handle("DELETE /images/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted.Store(r.PathValue("id") == "img-1")
		w.Write([]byte(`{"success":true}`))
	})

	orig := confirmDelete
	confirmDelete = func(string) (bool, error) {
		t.Error("--yes should skip confirmation")
		return false, nil
	}
	defer func() { confirmDelete = orig }()

	var buf bytes.Buffer
	if code := runDelete(context.Background(), &buf, "img-1", true); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !deleted.Load() {
		t.Error("expected delete request")
	}
}

func TestDelete_Declined(t *testing.T) {
	gw := newTestGateway(t)
	gw.signIn(t, "grace@example.com")
	serveImage(gw, "grace@example.com")
	gw.handle("DELETE /images/{id}", func(w http.ResponseWriter, r *http.Request) {
		t.Error("declined delete must not be sent")
	})

	orig := confirmDelete
	confirmDelete = func(string) (bool, error) { return false, nil }
	defer func() { confirmDelete = orig }()

	var buf bytes.Buffer
	if code := runDelete(context.Background(), &buf, "img-1", false); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "Cancelled") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

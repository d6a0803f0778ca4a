package gallery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markalston/visionary-gallery/cli/internal/client"
)

func TestToggle_LikeThenUnlikeRestoresState(t *testing.T) {
	api := &fakeAPI{}
	store := NewStore(api, signedIn(t, api))
	img := store.Intern(Image{ID: "a1", Likes: 4})
	ctx := context.Background()

	liked, err := store.Toggle(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 5, img.Likes)

	liked, err = store.Toggle(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 4, img.Likes)
	assert.Equal(t, []string{"like a1", "unlike a1"}, api.Calls())
}

func TestToggle_FailureRevertsExactly(t *testing.T) {
	api := &fakeAPI{like: func(string) error { return errBackendDown }}
	store := NewStore(api, signedIn(t, api))
	img := store.Intern(Image{ID: "a1", Likes: 7})

	liked, err := store.Toggle(context.Background(), "a1")
	require.Error(t, err)

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "like", ue.Op)
	assert.False(t, ue.Read)
	assert.False(t, liked)
	assert.False(t, store.IsLiked("a1"))
	assert.Equal(t, 7, img.Likes)
	assert.False(t, store.Pending("a1"))
}

func TestToggle_UnlikeFailureRestoresMembership(t *testing.T) {
	api := &fakeAPI{unlike: func(string) error { return errBackendDown }}
	store := NewStore(api, signedIn(t, api))
	img := store.Intern(Image{ID: "a1", Likes: 2})
	store.SetLiked([]string{"a1"})

	_, err := store.Toggle(context.Background(), "a1")
	require.Error(t, err)
	assert.True(t, store.IsLiked("a1"))
	assert.Equal(t, 2, img.Likes)
}

func TestToggle_AnonymousIssuesNoRequest(t *testing.T) {
	api := &fakeAPI{}
	session := NewSession(api)
	store := NewStore(api, session)
	img := store.Intern(Image{ID: "a1", Likes: 3})

	_, err := store.Toggle(context.Background(), "a1")
	require.ErrorIs(t, err, ErrAuthRequired)
	assert.Empty(t, api.Calls())
	assert.False(t, store.IsLiked("a1"))
	assert.Equal(t, 3, img.Likes)
}

func TestToggle_InFlightIsNoOp(t *testing.T) {
	api := &fakeAPI{}
	store := NewStore(api, signedIn(t, api))
	img := store.Intern(Image{ID: "a1", Likes: 1})

	first, err := store.BeginToggle("a1")
	require.NoError(t, err)
	assert.True(t, store.Pending("a1"))

	_, err = store.BeginToggle("a1")
	require.ErrorIs(t, err, ErrInFlight)
	assert.Equal(t, 2, img.Likes, "second trigger must not change the count")

	liked, err := store.Settle(first, store.Commit(context.Background(), first))
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, []string{"like a1"}, api.Calls())
}

func TestToggle_CountNeverNegative(t *testing.T) {
	api := &fakeAPI{}
	store := NewStore(api, signedIn(t, api))
	img := store.Intern(Image{ID: "a1", Likes: 0})
	store.SetLiked([]string{"a1"})

	liked, err := store.Toggle(context.Background(), "a1")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, img.Likes)
}

func TestToggle_UnauthorizedMapsToAuthRequired(t *testing.T) {
	api := &fakeAPI{like: func(string) error {
		return &client.StatusError{Status: 401, Message: "Unauthorized"}
	}}
	store := NewStore(api, signedIn(t, api))

	_, err := store.Toggle(context.Background(), "a1")
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.False(t, store.IsLiked("a1"))
}

func TestIntern_SharesOneObjectPerID(t *testing.T) {
	api := &fakeAPI{}
	store := NewStore(api, signedIn(t, api))

	a := store.Intern(Image{ID: "a1", Prompt: "fox", Likes: 1})
	b := store.Intern(Image{ID: "a1", Prompt: "red fox", Likes: 5})

	assert.Same(t, a, b)
	assert.Equal(t, "red fox", a.Prompt)
	assert.Equal(t, 5, a.Likes)
}

func TestIntern_KeepsOptimisticCountWhileInFlight(t *testing.T) {
	api := &fakeAPI{}
	store := NewStore(api, signedIn(t, api))
	img := store.Intern(Image{ID: "a1", Likes: 1})

	req, err := store.BeginToggle("a1")
	require.NoError(t, err)
	store.Intern(Image{ID: "a1", Likes: 1})
	assert.Equal(t, 2, img.Likes)

	_, err = store.Settle(req, nil)
	require.NoError(t, err)
}

func TestSetLiked_KeepsInFlightMembership(t *testing.T) {
	api := &fakeAPI{}
	store := NewStore(api, signedIn(t, api))

	req, err := store.BeginToggle("a1")
	require.NoError(t, err)
	store.SetLiked([]string{"b2"})

	assert.True(t, store.IsLiked("a1"))
	assert.True(t, store.IsLiked("b2"))
	_, _ = store.Settle(req, nil)
}

func TestLoadLiked(t *testing.T) {
	api := &fakeAPI{liked: func() ([]string, error) { return []string{"a1", "b2"}, nil }}
	store := NewStore(api, signedIn(t, api))

	require.NoError(t, store.LoadLiked(context.Background()))
	assert.True(t, store.IsLiked("a1"))
	assert.Equal(t, 2, store.LikedCount())
}

func TestLoadLiked_AnonymousSkipsRequest(t *testing.T) {
	api := &fakeAPI{}
	store := NewStore(api, NewSession(api))

	require.NoError(t, store.LoadLiked(context.Background()))
	assert.Empty(t, api.Calls())
}

func TestLoadLiked_FailureKeepsBaseline(t *testing.T) {
	api := &fakeAPI{}
	store := NewStore(api, signedIn(t, api))
	store.SetLiked([]string{"a1"})
	api.liked = func() ([]string, error) { return nil, errBackendDown }

	err := store.LoadLiked(context.Background())
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.True(t, ue.Read)
	assert.True(t, store.IsLiked("a1"))
}

func TestSignOut_ClearsLikedSet(t *testing.T) {
	api := &fakeAPI{}
	session := signedIn(t, api)
	store := NewStore(api, session)
	store.SetLiked([]string{"a1"})

	require.NoError(t, session.SignOut(context.Background()))
	assert.Zero(t, store.LikedCount())
}

func TestDelete_RemovesFromEveryList(t *testing.T) {
	api := &fakeAPI{
		explore:    func(int, int, string) ([]client.Image, error) { return []client.Image{{ID: "x"}, {ID: "y"}}, nil },
		userImages: func() ([]client.Image, error) { return []client.Image{{ID: "x", UserID: viewerEmail}}, nil },
	}
	store := NewStore(api, signedIn(t, api))
	feed := NewFeed(store)
	dash := NewDashboard(store)
	ctx := context.Background()

	require.NoError(t, feed.Load(ctx))
	require.NoError(t, dash.Load(ctx))
	require.Len(t, feed.Items(), 2)
	require.Len(t, dash.Items(), 1)
	x := feed.Items()[0]
	assert.Same(t, x, dash.Items()[0])

	require.NoError(t, store.Delete(ctx, "x"))

	assert.Len(t, feed.Items(), 1)
	assert.Equal(t, "y", feed.Items()[0].ID)
	assert.Empty(t, dash.Items())
	assert.NotSame(t, x, store.Intern(Image{ID: "x"}), "registry should forget deleted images")
}

func TestDelete_RemovesRepeatedCopies(t *testing.T) {
	// A new upload shifts the recent window, so page 2 repeats x from page 1.
	pages := [][]client.Image{{{ID: "a"}, {ID: "x"}}, {{ID: "x"}, {ID: "b"}}}
	api := &fakeAPI{explore: func(offset, limit int, sort string) ([]client.Image, error) {
		return pages[offset/2], nil
	}}
	store := NewStore(api, signedIn(t, api))
	feed := NewFeed(store)
	ctx := context.Background()

	require.NoError(t, feed.Load(ctx))
	require.NoError(t, feed.Load(ctx))
	require.Equal(t, 4, feed.Len())

	require.NoError(t, store.Delete(ctx, "x"))

	var ids []string
	for _, img := range feed.Items() {
		ids = append(ids, img.ID)
	}
	assert.Equal(t, []string{"a", "b"}, ids)
	assert.Equal(t, 3, feed.Offset())
}

func TestDelete_FailureKeepsItems(t *testing.T) {
	api := &fakeAPI{
		explore: func(int, int, string) ([]client.Image, error) { return []client.Image{{ID: "x"}}, nil },
		del:     func(string) error { return errBackendDown },
	}
	store := NewStore(api, signedIn(t, api))
	feed := NewFeed(store)
	require.NoError(t, feed.Load(context.Background()))

	err := store.Delete(context.Background(), "x")
	require.Error(t, err)
	assert.Len(t, feed.Items(), 1)
}

func TestDelete_AnonymousIssuesNoRequest(t *testing.T) {
	api := &fakeAPI{}
	store := NewStore(api, NewSession(api))

	err := store.Delete(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrAuthRequired))
	assert.Empty(t, api.Calls())
}

func TestSet_NoOpWhenMembershipMatches(t *testing.T) {
	api := &fakeAPI{}
	store := NewStore(api, signedIn(t, api))
	store.SetLiked([]string{"a1"})

	liked, err := store.Set(context.Background(), "a1", true)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Empty(t, api.Calls())
}

func TestFetch_InternsIntoRegistry(t *testing.T) {
	api := &fakeAPI{image: func(id string) (*client.Image, error) {
		return &client.Image{ID: id, Prompt: "a fox", Likes: 3}, nil
	}}
	store := NewStore(api, NewSession(api))

	img, err := store.Fetch(context.Background(), "f1")
	require.NoError(t, err)
	assert.Same(t, img, store.Intern(Image{ID: "f1", Prompt: "a fox", Likes: 3}))
	assert.Equal(t, 3, img.Likes)
}

func TestFetch_Errors(t *testing.T) {
	api := &fakeAPI{image: func(string) (*client.Image, error) { return nil, errBackendDown }}
	store := NewStore(api, NewSession(api))

	_, err := store.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = store.Fetch(context.Background(), "f1")
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.True(t, upErr.Read)
}

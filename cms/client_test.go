package cms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoPosts = `{"result":[
  {"_id":"p2","title":"Second","slug":"second","excerpt":"e2","publishedAt":"2024-03-02T10:00:00Z",
   "mainImage":{"asset":{"_ref":"image-hero-800x600-jpg"},"alt":"hero"},
   "body":[{"_type":"block","_key":"k","children":[{"_type":"span","text":"hi"}]}]},
  {"_id":"p1","title":"First","slug":"first","publishedAt":"2024-01-01T00:00:00.000Z","body":null}
]}`

func newFakeStore(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return New(Config{ProjectID: "proj", BaseURL: server.URL}), &calls
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{ProjectID: "abc"})

	assert.True(t, c.Configured())
	assert.Equal(t, "production", c.cfg.Dataset)
	assert.Equal(t, "2024-01-01", c.cfg.APIVersion)
	assert.Equal(t, defaultTimeout, c.cfg.Timeout)
	assert.Equal(t, "https://abc.api.sanity.io", c.baseURL)

	cdn := New(Config{ProjectID: "abc", UseCDN: true})
	assert.Equal(t, "https://abc.apicdn.sanity.io", cdn.baseURL)
}

func TestUnconfigured_NoNetwork(t *testing.T) {
	var hit int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hit, 1)
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL})
	ctx := context.Background()

	assert.False(t, c.Configured())

	posts, err := c.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	_, err = c.GetPost(ctx, "anything")
	assert.ErrorIs(t, err, ErrNotFound)

	slugs, err := c.ListSlugs(ctx)
	require.NoError(t, err)
	assert.Empty(t, slugs)

	assert.Equal(t, PlaceholderImage, c.ImageURL("image-abc-10x10-png", 100, 100))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hit))
}

func TestListPosts(t *testing.T) {
	c, calls := newFakeStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2024-01-01/data/query/production", r.URL.Path)
		q := r.URL.Query().Get("query")
		assert.Contains(t, q, `_type == "post"`)
		assert.Contains(t, q, "order(publishedAt desc)")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twoPosts))
	})

	posts, err := c.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "second", posts[0].Slug)
	assert.Equal(t, "first", posts[1].Slug)
	assert.True(t, posts[0].PublishedAt.After(posts[1].PublishedAt))
	require.NotNil(t, posts[0].HeroImage)
	assert.Equal(t, AssetRef("image-hero-800x600-jpg"), posts[0].HeroImage.Asset)
	assert.Equal(t, "hero", posts[0].HeroImage.Alt)
	assert.Nil(t, posts[1].HeroImage)
	assert.Len(t, posts[0].Body, 1)
	assert.Equal(t, 0, posts[0].EstimatedReadingTime)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestListPosts_FreshReadEachCall(t *testing.T) {
	c, calls := newFakeStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(twoPosts))
	})

	first, err := c.ListPosts(context.Background())
	require.NoError(t, err)
	first[0].Title = "mutated"

	second, err := c.ListPosts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Second", second[0].Title)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestGetPost(t *testing.T) {
	c, _ := newFakeStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("$slug") == `"hello-world"` {
			_, _ = w.Write([]byte(`{"result":{"_id":"p","title":"Hello","slug":"hello-world","body":[]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":null}`))
	})
	ctx := context.Background()

	post, err := c.GetPost(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "Hello", post.Title)

	_, err = c.GetPost(ctx, "Hello-World")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.GetPost(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSlugs(t *testing.T) {
	c, _ := newFakeStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Query().Get("query"), ".slug.current"))
		_, _ = w.Write([]byte(`{"result":["b","a"]}`))
	})

	slugs, err := c.ListSlugs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, slugs)
}

func TestQueryError(t *testing.T) {
	c, _ := newFakeStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"description":"expected '}' following object body"}}`))
	})

	_, err := c.ListPosts(context.Background())
	require.Error(t, err)

	var qe *QueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, http.StatusBadRequest, qe.Status)
	assert.Contains(t, qe.Description, "following object body")

	_, err = c.GetPost(context.Background(), "x")
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestFetch_SendsToken(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"result":[]}`))
	}))
	defer server.Close()

	c := New(Config{ProjectID: "p", Token: "secret", BaseURL: server.URL})
	_, err := c.ListSlugs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
}

func TestFetch_ContextCanceled(t *testing.T) {
	c, _ := newFakeStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":[]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListPosts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetch_DoesNotFollowRedirect(t *testing.T) {
	c, calls := newFakeStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusTemporaryRedirect)
	})

	_, err := c.ListPosts(context.Background())

	var qe *QueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, http.StatusTemporaryRedirect, qe.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

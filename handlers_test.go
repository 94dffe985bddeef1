package bento

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebmonty/bento/cms"
	"github.com/sebmonty/bento/subscribe"
)

type fakeContent struct {
	posts []cms.Post
	err   error
}

func (f *fakeContent) ListPosts(context.Context) ([]cms.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]cms.Post(nil), f.posts...), nil
}

func (f *fakeContent) GetPost(_ context.Context, slug string) (cms.Post, error) {
	if f.err != nil {
		return cms.Post{}, f.err
	}
	for _, p := range f.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return cms.Post{}, cms.ErrNotFound
}

func (f *fakeContent) ListSlugs(context.Context) ([]string, error) {
	slugs := []string{}
	for _, p := range f.posts {
		slugs = append(slugs, p.Slug)
	}
	return slugs, f.err
}

func (f *fakeContent) ImageURL(ref cms.AssetRef, width, height int) string {
	return "https://img.test/" + string(ref)
}

type fakeProvider struct {
	mu    sync.Mutex
	err   error
	calls []subscribe.Subscriber
}

func (p *fakeProvider) Subscribe(_ context.Context, s subscribe.Subscriber) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, s)
	return p.err
}

func samplePosts() []cms.Post {
	published := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	var posts []cms.Post
	for i, slug := range []string{"fourth", "third", "second", "first"} {
		posts = append(posts, cms.Post{
			ID:          "post-" + slug,
			Title:       "Post " + slug,
			Slug:        slug,
			Excerpt:     "About " + slug,
			PublishedAt: published.AddDate(0, 0, -i),
			Body: cms.Body{
				cms.TextBlock{Key: "b1", Style: cms.Heading2, Runs: []cms.Run{{Text: "Intro to " + slug}}},
				cms.TextBlock{Key: "b2", Runs: []cms.Run{{Text: "Hello <world>", Marks: []cms.Mark{{Kind: cms.Bold}}}}},
			},
			EstimatedReadingTime: 2,
		})
	}
	posts[0].HeroImage = &cms.Image{Asset: "image-abc-800x600-jpg", Alt: "A hero"}
	return posts
}

func testConfig(t *testing.T) SiteConfig {
	t.Helper()
	return SiteConfig{
		Name:               "Test Site",
		URL:                "https://bento.test",
		SessionSecret:      "test-session-secret-0123456789abcdef",
		MailerLiteAPIKey:   "key",
		MailerLiteGroupID:  "group-1",
		ClicksEnabled:      true,
		ClicksDatabasePath: filepath.Join(t.TempDir(), "clicks.db"),
		Profile: Profile{
			Name: "Seb",
			Bio:  "Markets & code",
			Links: []Link{
				{ID: "newsletter", Title: "Newsletter", Description: "Weekly notes", URL: "https://news.example.org/"},
				{Title: "My Podcast", URL: "https://pod.example.org/"},
			},
			Referrals: []Referral{{Name: "Exchange", URL: "https://exchange.example.org/?ref=seb"}},
			Socials:   []Social{{Label: "X", URL: "https://x.com/seb"}},
		},
	}
}

func newTestApp(t *testing.T, cfg SiteConfig, content *fakeContent, provider *fakeProvider) *App {
	t.Helper()
	svc := subscribe.NewService(subscribe.Config{
		APIKey:  cfg.MailerLiteAPIKey,
		GroupID: cfg.MailerLiteGroupID,
	}, provider)
	a := New(cfg,
		WithContent(content),
		WithSubscriber(svc),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithStaticDir(t.TempDir()),
	)
	require.NoError(t, a.Setup())
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func do(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestSetupRequiresSessionSecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.SessionSecret = ""
	a := New(cfg, WithContent(&fakeContent{}))
	err := a.Setup()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SessionSecret")
}

func TestHomeRendersProfileAndLatestPosts(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{posts: samplePosts()}, &fakeProvider{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "Markets &amp; code")
	assert.Contains(t, body, `href="/go/newsletter/"`)
	assert.Contains(t, body, `href="/go/my-podcast/"`)
	assert.Contains(t, body, `href="/go/exchange/"`)
	assert.Contains(t, body, `href="https://x.com/seb"`)
	assert.Contains(t, body, `name="_csrf"`)
	assert.Contains(t, body, `"@type":"WebSite"`)

	assert.Contains(t, body, "Post fourth")
	assert.Contains(t, body, "Post second")
	assert.NotContains(t, body, "Post first", "home lists only the latest posts")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestHomeRendersWhenContentStoreFails(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{err: errors.New("boom")}, &fakeProvider{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No posts yet.")
}

func TestBlogIndex(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{posts: samplePosts()}, &fakeProvider{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/blog/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, slug := range []string{"first", "second", "third", "fourth"} {
		assert.Contains(t, body, `href="/blog/`+slug+`/"`)
	}
	assert.Contains(t, body, `src="https://img.test/image-abc-800x600-jpg"`)
	assert.Contains(t, body, "March 14, 2025")
	assert.Contains(t, body, "2 min read")
}

func TestBlogRedirectsToTrailingSlash(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{}, &fakeProvider{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/blog", nil))
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/blog/", rec.Header().Get("Location"))
}

func TestPostPage(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{posts: samplePosts()}, &fakeProvider{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/blog/fourth/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Post fourth</h1>")
	assert.Contains(t, body, "<h2>Intro to fourth</h2>")
	assert.Contains(t, body, "<strong>Hello &lt;world&gt;</strong>")
	assert.Contains(t, body, `"@type":"BlogPosting"`)
	assert.Contains(t, body, `<link rel="canonical" href="https://bento.test/blog/fourth/">`)
	assert.Contains(t, body, `alt="A hero"`)
}

func TestPostNotFound(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{posts: samplePosts()}, &fakeProvider{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/blog/missing/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestPostContentStoreErrorRendersErrorPage(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{err: &cms.QueryError{Status: 500}}, &fakeProvider{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/blog/anything/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong")
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{}, &fakeProvider{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/nope/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func postJSON(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSubscribeAPI(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		providerErr error
		wantStatus  int
		wantBody    string
		wantCalls   int
	}{
		{"success", `{"email":"  Ada@Example.COM "}`, nil, http.StatusOK, `{"success":true}`, 1},
		{"invalid email", `{"email":"not-an-email"}`, nil, http.StatusBadRequest, `{"error":"Please enter a valid email address"}`, 0},
		{"missing email", `{}`, nil, http.StatusBadRequest, `{"error":"Please enter a valid email address"}`, 0},
		{"malformed json", `{"email":`, nil, http.StatusBadRequest, `{"error":"Please enter a valid email address"}`, 0},
		{"provider rejects", `{"email":"ada@example.com"}`, &subscribe.ProviderError{Status: 422, Message: "The email must be a valid email address."}, http.StatusUnprocessableEntity, `{"error":"The email must be a valid email address."}`, 1},
		{"provider down", `{"email":"ada@example.com"}`, &subscribe.ProviderError{Status: 503}, http.StatusInternalServerError, `{"error":"Failed to subscribe. Please try again later."}`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{err: tt.providerErr}
			a := newTestApp(t, testConfig(t), &fakeContent{}, provider)

			rec := do(a, postJSON(tt.body))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Len(t, provider.calls, tt.wantCalls)
		})
	}
}

func TestSubscribeAPIForwardsNormalizedEmail(t *testing.T) {
	provider := &fakeProvider{}
	a := newTestApp(t, testConfig(t), &fakeContent{}, provider)

	rec := do(a, postJSON(`{"email":"  Ada@Example.COM "}`))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, provider.calls, 1)
	assert.Equal(t, "ada@example.com", provider.calls[0].Email)
	assert.Equal(t, []string{"group-1"}, provider.calls[0].Groups)
}

func TestSubscribeAPIUnconfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.MailerLiteAPIKey = ""
	provider := &fakeProvider{}
	a := newTestApp(t, cfg, &fakeContent{}, provider)

	rec := do(a, postJSON(`{"email":"ada@example.com"}`))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Subscription service is temporarily unavailable"}`, rec.Body.String())
	assert.Empty(t, provider.calls)
}

func TestSubscribeAPIRateLimited(t *testing.T) {
	cfg := testConfig(t)
	cfg.SubscribePerMinute = 2
	a := newTestApp(t, cfg, &fakeContent{}, &fakeProvider{})

	for i := 0; i < 2; i++ {
		rec := do(a, postJSON(`{"email":"ada@example.com"}`))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(a, postJSON(`{"email":"ada@example.com"}`))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests. Please try again later."}`, rec.Body.String())
}

var csrfInput = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

func TestSubscribeFormFlow(t *testing.T) {
	provider := &fakeProvider{}
	a := newTestApp(t, testConfig(t), &fakeContent{}, provider)

	home := do(a, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, home.Code)
	m := csrfInput.FindStringSubmatch(home.Body.String())
	require.Len(t, m, 2, "home page carries a CSRF token")
	cookies := home.Result().Cookies()

	form := url.Values{"_csrf": {m[1]}, "email": {"ada@example.com"}}
	req := httptest.NewRequest(http.MethodPost, "/subscribe/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := do(a, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#subscribe", rec.Header().Get("Location"))
	require.Len(t, provider.calls, 1)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range append(cookies, rec.Result().Cookies()...) {
		next.AddCookie(c)
	}
	page := do(a, next)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `class="status ok"`)
	assert.Contains(t, page.Body.String(), "on the list")
}

func TestSubscribeFormRequiresCSRF(t *testing.T) {
	provider := &fakeProvider{}
	a := newTestApp(t, testConfig(t), &fakeContent{}, provider)

	form := url.Values{"email": {"ada@example.com"}}
	req := httptest.NewRequest(http.MethodPost, "/subscribe/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(a, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, provider.calls)
}

const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"

func goRequest(id, ua string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/go/"+id+"/", nil)
	req.Header.Set("User-Agent", ua)
	return req
}

func TestGoRedirectRecordsClick(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{}, &fakeProvider{})

	rec := do(a, goRequest("newsletter", browserUA))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://news.example.org/", rec.Header().Get("Location"))

	rec = do(a, goRequest("exchange", browserUA))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://exchange.example.org/?ref=seb", rec.Header().Get("Location"))

	counts, err := a.clicks.Counts(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, 1, counts[0].Clicks)
}

func TestGoRedirectSkipsBotsAndDoNotTrack(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{}, &fakeProvider{})

	rec := do(a, goRequest("newsletter", "Googlebot/2.1 (+http://www.google.com/bot.html)"))
	assert.Equal(t, http.StatusFound, rec.Code)

	req := goRequest("newsletter", browserUA)
	req.Header.Set("DNT", "1")
	rec = do(a, req)
	assert.Equal(t, http.StatusFound, rec.Code)

	counts, err := a.clicks.Counts(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestGoRedirectWithoutClickStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.ClicksEnabled = false
	a := newTestApp(t, cfg, &fakeContent{}, &fakeProvider{})

	rec := do(a, goRequest("newsletter", browserUA))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Nil(t, a.clicks)
}

func TestGoUnknownLink(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{}, &fakeProvider{})

	rec := do(a, goRequest("nope", browserUA))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeedAndSitemap(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{posts: samplePosts()}, &fakeProvider{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/feed.xml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, rec.Body.String(), "<link>https://bento.test/blog/first/</link>")
	assert.Contains(t, rec.Body.String(), "<pubDate>Fri, 14 Mar 2025 09:00:00 +0000</pubDate>")

	rec = do(a, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<loc>https://bento.test/blog/fourth/</loc>")
	assert.Contains(t, rec.Body.String(), "<lastmod>2025-03-14</lastmod>")
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
}

func TestRobotsAndHealthz(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{}, &fakeProvider{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sitemap: https://bento.test/sitemap.xml")

	rec = do(a, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestEmbeddedAssetsAndOpenAPI(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{}, &fakeProvider{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/public/signup.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "data-api")
	assert.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))

	rec = do(a, httptest.NewRequest(http.MethodGet, "/api/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/subscribe:")
}

func TestPlaceholderImage(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{}, &fakeProvider{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/placeholder.jpg", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	cfg, err := jpeg.DecodeConfig(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, placeholderWidth, cfg.Width)
	assert.Equal(t, placeholderHeight, cfg.Height)
}

func TestAvatarIsCroppedAndResized(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 300, 200))
	for x := 0; x < 300; x++ {
		for y := 0; y < 200; y++ {
			src.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	path := filepath.Join(t.TempDir(), "avatar.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	cfg := testConfig(t)
	cfg.Profile.Avatar = path
	a := newTestApp(t, cfg, &fakeContent{}, &fakeProvider{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/avatar.jpg?s=64", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	dims, err := jpeg.DecodeConfig(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 64, dims.Width)
	assert.Equal(t, 64, dims.Height)
}

func TestAvatarIsResizedOncePerSize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	path := filepath.Join(t.TempDir(), "avatar.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	cfg := testConfig(t)
	cfg.Profile.Avatar = path
	a := newTestApp(t, cfg, &fakeContent{}, &fakeProvider{})

	first := do(a, httptest.NewRequest(http.MethodGet, "/avatar.jpg?s=64", nil))
	require.Equal(t, http.StatusOK, first.Code)

	// A broken source file only matters for sizes not yet rendered.
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	again := do(a, httptest.NewRequest(http.MethodGet, "/avatar.jpg?s=64", nil))
	require.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, first.Body.Bytes(), again.Body.Bytes())

	clamped := do(a, httptest.NewRequest(http.MethodGet, "/avatar.jpg?s=1", nil))
	assert.Equal(t, http.StatusInternalServerError, clamped.Code)
}

func TestAvatarMissing(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{}, &fakeProvider{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/avatar.jpg", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAvatarSizeIsClamped(t *testing.T) {
	assert.Equal(t, defaultAvatarSize, avatarSize(""))
	assert.Equal(t, defaultAvatarSize, avatarSize("abc"))
	assert.Equal(t, minAvatarSize, avatarSize("1"))
	assert.Equal(t, maxAvatarSize, avatarSize("100000"))
	assert.Equal(t, 128, avatarSize("128"))
}

func TestFeedSelfLinkAndBuildDate(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{posts: samplePosts()}, &fakeProvider{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/feed.xml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, body, `<atom:link href="https://bento.test/feed.xml" rel="self" type="application/rss+xml"></atom:link>`)
	assert.Contains(t, body, "<lastBuildDate>Fri, 14 Mar 2025 09:00:00 +0000</lastBuildDate>")
	assert.Contains(t, body, `<guid isPermaLink="true">https://bento.test/blog/fourth/</guid>`)
}

func TestFeedWithNoPosts(t *testing.T) {
	a := newTestApp(t, testConfig(t), &fakeContent{}, &fakeProvider{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/feed.xml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<item>")
	assert.NotContains(t, rec.Body.String(), "lastBuildDate")
}

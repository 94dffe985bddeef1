package bento

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sebmonty/bento/clicks"
	"github.com/sebmonty/bento/cms"
	"github.com/sebmonty/bento/ctxlog"
	"github.com/sebmonty/bento/metrics"
	"github.com/sebmonty/bento/subscribe"
	"github.com/sebmonty/bento/views"
)

// homePostLimit is how many recent posts the home page lists.
const homePostLimit = 3

// maxSubscribeBody bounds the JSON request body of the subscribe API.
const maxSubscribeBody = 4 << 10

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()

	// The home page renders without posts when the content store is down.
	posts, err := a.content.ListPosts(ctx)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("list posts for home page", "error", err)
		posts = nil
	}
	if len(posts) > homePostLimit {
		posts = posts[:homePostLimit]
	}

	flash := views.Flash{Message: popFlash(c, flashOK)}
	if msg := popFlash(c, flashError); msg != "" {
		flash = views.Flash{Message: msg, Error: true}
	}

	return Render(c, views.Home(views.HomeData{
		Site:      a.siteView(),
		Profile:   a.profileView(),
		Posts:     posts,
		CSRFToken: CsrfToken(c),
		Flash:     flash,
	}))
}

func (a *App) handleBlog(c echo.Context) error {
	posts, err := a.content.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, views.BlogIndex(a.siteView(), posts, a.content))
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.content.GetPost(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, views.NotFound(a.siteView()))
		}
		return err
	}
	return Render(c, views.Post(a.siteView(), post, a.content, CsrfToken(c)))
}

// handleSubscribeAPI is the JSON endpoint used by signup.js.
func (a *App) handleSubscribeAPI(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxSubscribeBody))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable request body")
	}
	out := a.subscriber.Subscribe(c.Request().Context(), body)
	return c.JSONBlob(out.Status(), out.Body())
}

// handleSubscribeForm is the no-JavaScript fallback. The outcome is shown as
// a flash on the home page.
func (a *App) handleSubscribeForm(c echo.Context) error {
	out := a.subscriber.SubscribeEmail(c.Request().Context(), c.FormValue("email"))

	key := flashOK
	if out.Kind != subscribe.Success {
		key = flashError
	}
	if err := setFlash(c, key, out.FlashMessage()); err != nil {
		ctxlog.FromContext(c.Request().Context()).Error("save flash", "error", err)
	}
	return c.Redirect(http.StatusSeeOther, "/#subscribe")
}

// handleGo counts a click on a configured link and redirects to it.
func (a *App) handleGo(c echo.Context) error {
	id := c.Param("id")
	target, ok := a.Config.LinkURL(id)
	if !ok {
		return RenderStatus(c, http.StatusNotFound, views.NotFound(a.siteView()))
	}

	req := c.Request()
	metrics.LinkClicks.WithLabelValues(id).Inc()

	if a.clicks != nil && clicks.ShouldRecord(req.UserAgent(), req.Header.Get(headerDoNotTrack)) {
		err := a.clicks.Record(req.Context(), clicks.Click{
			LinkID:    id,
			IPHash:    a.clicks.HashIP(c.RealIP()),
			Device:    clicks.Device(req.UserAgent()),
			Referrer:  clicks.ReferrerHost(req.Referer()),
			Timestamp: time.Now().UTC(),
		})
		if err != nil {
			ctxlog.FromContext(req.Context()).Error("record click", "link", id, "error", err)
		}
	}

	return c.Redirect(http.StatusFound, target)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.content.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.content.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	sitemap := strings.TrimRight(a.Config.URL, "/") + "/sitemap.xml"
	body := "User-agent: *\nAllow: /\nDisallow: /go/\nDisallow: /api/\n\nSitemap: " + sitemap + "\n"
	return c.String(http.StatusOK, body)
}

func handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.siteView()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		ctxlog.FromContext(c.Request().Context()).Error("server error", "error", err, "path", c.Request().URL.Path)
		_ = RenderStatus(c, code, views.ServerError(a.siteView()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func (a *App) siteView() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
		BlogTagline: a.Config.BlogTagline,
	}
}

func (a *App) profileView() views.Profile {
	p := a.Config.Profile
	v := views.Profile{
		Name: p.Name,
		Bio:  p.Bio,
	}
	if p.Avatar != "" {
		v.AvatarURL = "/avatar.jpg"
	}
	for _, l := range p.Links {
		v.Links = append(v.Links, views.LinkCard{
			Title:       l.Title,
			Description: l.Description,
			Href:        "/go/" + l.ID + "/",
		})
	}
	for _, r := range p.Referrals {
		v.Referrals = append(v.Referrals, views.LinkCard{
			Title: r.Name,
			Href:  "/go/" + r.ID + "/",
		})
	}
	for _, s := range p.Socials {
		v.Socials = append(v.Socials, views.Social{Label: s.Label, Href: s.URL})
	}
	return v
}

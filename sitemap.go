package bento

import (
	"encoding/xml"

	"github.com/labstack/echo/v4"

	"github.com/sebmonty/bento/cms"
	"github.com/sebmonty/bento/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
}

// renderSitemap lists the home page, the blog index and every post.
// Outbound /go/ links are redirects and stay out.
func (a *App) renderSitemap(c echo.Context, posts []cms.Post) error {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: views.BuildURL(base), ChangeFreq: "weekly"},
		{Loc: views.BuildURL(base, "blog"), ChangeFreq: "weekly"},
	}
	for _, p := range posts {
		u := sitemapURL{Loc: views.BuildURL(base, "blog", p.Slug)}
		if !p.PublishedAt.IsZero() {
			u.LastMod = p.PublishedAt.UTC().Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	return writeXML(c, "application/xml; charset=utf-8", sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}

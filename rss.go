package bento

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sebmonty/bento/cms"
	"github.com/sebmonty/bento/views"
)

const atomNS = "http://www.w3.org/2005/Atom"

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string      `xml:"title"`
	Link          string      `xml:"link"`
	Description   string      `xml:"description"`
	Language      string      `xml:"language"`
	LastBuildDate string      `xml:"lastBuildDate,omitempty"`
	Self          rssAtomLink `xml:"atom:link"`
	Items         []rssItem   `xml:"item"`
}

type rssAtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description,omitempty"`
	PubDate     string  `xml:"pubDate,omitempty"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// renderRSS writes an RSS 2.0 feed of posts. Posts arrive newest first, so
// the first one dates the feed.
func (a *App) renderRSS(c echo.Context, posts []cms.Post) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(posts))
	var lastBuild time.Time
	for _, p := range posts {
		pubDate := ""
		if !p.PublishedAt.IsZero() {
			pubDate = p.PublishedAt.UTC().Format(time.RFC1123Z)
			if p.PublishedAt.After(lastBuild) {
				lastBuild = p.PublishedAt
			}
		}
		postURL := views.BuildURL(base, "blog", p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Excerpt,
			PubDate:     pubDate,
			GUID:        rssGUID{Value: postURL, IsPermaLink: true},
		})
	}

	feed := rssXML{
		Version: "2.0",
		Atom:    atomNS,
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        views.BuildURL(base, "blog"),
			Description: a.Config.BlogTagline,
			Language:    "en",
			Self: rssAtomLink{
				Href: strings.TrimRight(base, "/") + "/feed.xml",
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Items: items,
		},
	}
	if !lastBuild.IsZero() {
		feed.Channel.LastBuildDate = lastBuild.UTC().Format(time.RFC1123Z)
	}

	return writeXML(c, "application/rss+xml; charset=utf-8", feed)
}

// writeXML encodes v fully before sending so an encoding error still reaches
// the error handler.
func writeXML(c echo.Context, contentType string, v any) error {
	body, err := xml.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, contentType, append([]byte(xml.Header), body...))
}

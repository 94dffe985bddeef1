package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/sebmonty/bento/cms"
	"github.com/sebmonty/bento/richtext"
)

const (
	thumbWidth  = 480
	thumbHeight = 270
	heroWidth   = 1200
)

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostURL is the canonical URL of a post.
func PostURL(site SiteConfig, slug string) string {
	return BuildURL(site.URL, "blog", slug)
}

// postPath is the site-relative link to a post.
func postPath(slug string) string {
	return "/blog/" + url.PathEscape(slug) + "/"
}

// FormatDate renders t like "January 2, 2006". The zero time renders as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

// ReadingTimeLabel renders minutes as "N min read", or "" for zero.
func ReadingTimeLabel(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return strconv.Itoa(minutes) + " min read"
}

func pageTitle(site SiteConfig, meta PageMeta) string {
	if meta.Title != "" {
		return meta.Title
	}
	return site.Name
}

func pageDescription(site SiteConfig, meta PageMeta) string {
	if meta.Description != "" {
		return meta.Description
	}
	return site.Description
}

func ogType(meta PageMeta) string {
	if meta.OGType != "" {
		return meta.OGType
	}
	return "website"
}

func homeMeta(site SiteConfig) PageMeta {
	return PageMeta{
		Title:       site.Name,
		Description: site.Description,
		URL:         BuildURL(site.URL),
		OGType:      "website",
	}
}

func blogMeta(site SiteConfig) PageMeta {
	return PageMeta{
		Title:       "Blog | " + site.Name,
		Description: site.BlogTagline,
		URL:         BuildURL(site.URL, "blog"),
	}
}

func postPageMeta(site SiteConfig, post cms.Post, heroURL string) PageMeta {
	return PageMeta{
		Title:       post.Title + " | " + site.Name,
		Description: post.Excerpt,
		URL:         PostURL(site, post.Slug),
		OGType:      "article",
		Image:       heroURL,
	}
}

func errorMeta(site SiteConfig, heading string) PageMeta {
	return PageMeta{Title: heading + " | " + site.Name}
}

func heroURL(post cms.Post, images richtext.ImageResolver) string {
	if post.HeroImage == nil {
		return ""
	}
	return images.ImageURL(post.HeroImage.Asset, heroWidth, 0)
}

func thumbURL(post cms.Post, images richtext.ImageResolver) string {
	return images.ImageURL(post.HeroImage.Asset, thumbWidth, thumbHeight)
}

func altOr(alt, fallback string) string {
	if alt != "" {
		return alt
	}
	return fallback
}

// loading lets the first card's image load eagerly.
func loading(i int) string {
	if i == 0 {
		return "eager"
	}
	return "lazy"
}

func statusClass(f Flash) string {
	switch {
	case f.Message == "":
		return "status"
	case f.Error:
		return "status error"
	default:
		return "status ok"
	}
}

func datetime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// jsonLDScript wraps a JSON-LD document in its script tag. json.Marshal
// escapes <, > and &, so the payload cannot close the tag early.
func jsonLDScript(doc string) string {
	return `<script type="application/ld+json">` + doc + `</script>`
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	return marshalJsonLD(data)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block.
func BlogPostingJsonLD(post cms.Post, cfg SiteConfig, imageURL string) string {
	postURL := PostURL(cfg, post.Slug)
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "BlogPosting",
		"headline": post.Title,
		"url":      postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.Excerpt != "" {
		data["description"] = post.Excerpt
	}
	if !post.PublishedAt.IsZero() {
		data["datePublished"] = post.PublishedAt.UTC().Format(time.RFC3339)
	}
	if imageURL != "" {
		data["image"] = imageURL
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	return marshalJsonLD(data)
}

func marshalJsonLD(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

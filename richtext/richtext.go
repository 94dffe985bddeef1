// Package richtext renders a cms.Body as HTML, either as a templ.Component or
// directly into a buffer.
package richtext

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/sebmonty/bento/cms"
)

const (
	imageWidth = 1200
	defaultAlt = "Blog image"
)

// ImageResolver turns an asset reference into a displayable URL.
// *cms.Client satisfies it.
type ImageResolver interface {
	ImageURL(ref cms.AssetRef, width, height int) string
}

// Render returns a templ.Component that renders body as HTML.
func Render(body cms.Body, images ImageResolver) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		RenderHTML(&buf, body, images)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderHTML writes the HTML representation of body to buf. Blocks of an
// unknown type produce no output.
func RenderHTML(buf *bytes.Buffer, body cms.Body, images ImageResolver) {
	imageCount := 0
	for _, b := range body {
		switch v := b.(type) {
		case cms.TextBlock:
			tag := textTag(v.Style)
			buf.WriteString("<" + tag + ">")
			writeRuns(buf, v.Runs)
			buf.WriteString("</" + tag + ">")
		case cms.ListBlock:
			tag := "ul"
			if v.Ordering == cms.Numbered {
				tag = "ol"
			}
			buf.WriteString("<" + tag + ">")
			for _, item := range v.Items {
				buf.WriteString("<li>")
				writeRuns(buf, item.Runs)
				buf.WriteString("</li>")
			}
			buf.WriteString("</" + tag + ">")
		case cms.ImageBlock:
			if v.Asset == "" {
				continue
			}
			imageCount++
			writeFigure(buf, v, images, imageCount)
		}
	}
}

func textTag(s cms.Style) string {
	switch s {
	case cms.Heading2:
		return "h2"
	case cms.Heading3:
		return "h3"
	case cms.Quote:
		return "blockquote"
	default:
		return "p"
	}
}

// writeRuns nests marks with code innermost and the link outermost.
func writeRuns(buf *bytes.Buffer, runs []cms.Run) {
	for _, r := range runs {
		s := html.EscapeString(r.Text)
		if r.HasMark(cms.Code) {
			s = "<code>" + s + "</code>"
		}
		if r.HasMark(cms.Italic) {
			s = "<em>" + s + "</em>"
		}
		if r.HasMark(cms.Bold) {
			s = "<strong>" + s + "</strong>"
		}
		if raw, ok := r.LinkHref(); ok {
			if href := SafeURL(raw); href != "" {
				s = `<a href="` + href + `" target="_blank" rel="noopener noreferrer">` + s + `</a>`
			}
		}
		buf.WriteString(s)
	}
}

func writeFigure(buf *bytes.Buffer, img cms.ImageBlock, images ImageResolver, n int) {
	src := cms.PlaceholderImage
	if images != nil {
		src = images.ImageURL(img.Asset, imageWidth, 0)
	}
	alt := img.Alt
	if alt == "" {
		alt = defaultAlt
	}

	loadAttr := `loading="lazy"`
	if n == 1 {
		loadAttr = `fetchpriority="high"`
	}

	buf.WriteString("<figure>")
	buf.WriteString(`<img ` + loadAttr + ` src="` + html.EscapeString(src) + `" alt="` + html.EscapeString(alt) + `" decoding="async"/>`)
	if img.Alt != "" {
		buf.WriteString("<figcaption>" + html.EscapeString(img.Alt) + "</figcaption>")
	}
	buf.WriteString("</figure>")
}

// SafeURL validates a URL for use in an HTML attribute and returns it
// escaped. Relative paths, fragments and the http, https, mailto and tel
// schemes are allowed; anything else yields "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		if strings.HasPrefix(val, "//") {
			return ""
		}
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}

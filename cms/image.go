package cms

import (
	"net/url"
	"strconv"
	"strings"
)

// PlaceholderImage is returned by ImageURL whenever a real URL cannot be built.
const PlaceholderImage = "/placeholder.jpg"

const imageCDN = "https://cdn.sanity.io/images"

// AssetRef is a content store image reference such as
// "image-Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000-jpg".
type AssetRef string

// parse splits ref into asset id, dimensions and file extension.
func (r AssetRef) parse() (id, dims, ext string, ok bool) {
	s, found := strings.CutPrefix(string(r), "image-")
	if !found {
		return "", "", "", false
	}
	parts := strings.Split(s, "-")
	if len(parts) < 3 {
		return "", "", "", false
	}
	ext = parts[len(parts)-1]
	dims = parts[len(parts)-2]
	id = strings.Join(parts[:len(parts)-2], "-")
	if id == "" || ext == "" || !validDims(dims) {
		return "", "", "", false
	}
	return id, dims, ext, true
}

func validDims(d string) bool {
	w, h, found := strings.Cut(d, "x")
	if !found {
		return false
	}
	if _, err := strconv.Atoi(w); err != nil {
		return false
	}
	_, err := strconv.Atoi(h)
	return err == nil
}

// ImageURL resolves ref through the image transformation service. Zero
// width or height leaves that dimension unconstrained. An unconfigured
// client, or a malformed ref, yields PlaceholderImage.
func (c *Client) ImageURL(ref AssetRef, width, height int) string {
	if !c.configured {
		return PlaceholderImage
	}
	id, dims, ext, ok := ref.parse()
	if !ok {
		return PlaceholderImage
	}

	u := imageCDN + "/" + url.PathEscape(c.cfg.ProjectID) + "/" + url.PathEscape(c.cfg.Dataset) +
		"/" + id + "-" + dims + "." + ext

	q := url.Values{}
	if width > 0 {
		q.Set("w", strconv.Itoa(width))
	}
	if height > 0 {
		q.Set("h", strconv.Itoa(height))
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// Package cms reads published articles from a Sanity-compatible headless
// content store.
//
// A Client built without a project id is "unconfigured": list queries return
// nothing, single-document queries return ErrNotFound and image URLs resolve
// to a fixed placeholder. No network access happens in that state.
package cms

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("cms: post not found")

// Post is one published article. The content store owns it; this package
// only reads snapshots.
type Post struct {
	ID          string
	Title       string
	Slug        string
	Excerpt     string
	PublishedAt time.Time
	HeroImage   *Image
	Body        Body

	// EstimatedReadingTime is derived from Body, in whole minutes.
	EstimatedReadingTime int
}

// Image is an asset reference with optional alt text.
type Image struct {
	Asset AssetRef
	Alt   string
}

// wirePost mirrors the projection used by the queries in this package.
type wirePost struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Excerpt     string    `json:"excerpt"`
	PublishedAt time.Time `json:"publishedAt"`
	MainImage   *struct {
		Asset *rawAsset `json:"asset"`
		Alt   string    `json:"alt"`
	} `json:"mainImage"`
	Body Body `json:"body"`
}

func (w wirePost) post() Post {
	p := Post{
		ID:          w.ID,
		Title:       w.Title,
		Slug:        w.Slug,
		Excerpt:     w.Excerpt,
		PublishedAt: w.PublishedAt,
		Body:        w.Body,
	}
	if w.MainImage != nil && w.MainImage.Asset != nil && w.MainImage.Asset.Ref != "" {
		p.HeroImage = &Image{Asset: AssetRef(w.MainImage.Asset.Ref), Alt: w.MainImage.Alt}
	}
	p.EstimatedReadingTime = ReadingTime(PlainTextLen(p.Body))
	return p
}

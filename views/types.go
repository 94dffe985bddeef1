package views

import "github.com/sebmonty/bento/cms"

// SiteConfig holds site-wide settings. Every handler passes this to
// templates so nothing is hardcoded.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
	BlogTagline string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image, optional
}

// LinkCard is a home page card. Href already points at the redirect route.
type LinkCard struct {
	Title       string
	Description string
	Href        string
}

// Social is a footer icon link.
type Social struct {
	Label string
	Href  string
}

// Profile is the header block of the home page.
type Profile struct {
	Name      string
	Bio       string
	AvatarURL string
	Links     []LinkCard
	Referrals []LinkCard
	Socials   []Social
}

// Flash is a one-shot message from the signup form.
type Flash struct {
	Message string
	Error   bool
}

// HomeData is everything the home page renders.
type HomeData struct {
	Site      SiteConfig
	Profile   Profile
	Posts     []cms.Post // latest posts, may be empty
	CSRFToken string
	Flash     Flash
}

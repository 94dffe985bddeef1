package bento

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables before they are mapped
// onto SiteConfig keys, so BENTO_SITE_URL sets site_url.
const EnvPrefix = "BENTO_"

// Link is a card on the home page. Visits go through /go/<id>/.
type Link struct {
	ID          string `koanf:"id"`
	Title       string `koanf:"title"`
	Description string `koanf:"description"`
	URL         string `koanf:"url"`
}

// Referral is a compact referral card.
type Referral struct {
	ID   string `koanf:"id"`
	Name string `koanf:"name"`
	URL  string `koanf:"url"`
}

// Social is an icon link in the footer.
type Social struct {
	Label string `koanf:"label"`
	URL   string `koanf:"url"`
}

// Profile is the person the site is about.
type Profile struct {
	Name      string     `koanf:"name"`
	Bio       string     `koanf:"bio"`
	Avatar    string     `koanf:"avatar"` // path to a JPEG/PNG/GIF on disk
	Links     []Link     `koanf:"links"`
	Referrals []Referral `koanf:"referrals"`
	Socials   []Social   `koanf:"socials"`
}

// SiteConfig holds all configuration for a bento site.
type SiteConfig struct {
	Name        string `koanf:"site_name"`        // Site name (default "Bento")
	URL         string `koanf:"site_url"`         // Canonical URL (default "http://localhost:3000")
	Description string `koanf:"site_description"` // Used for RSS and meta tags
	BlogTagline string `koanf:"blog_tagline"`
	Author      string `koanf:"site_author"`
	Environment string `koanf:"environment"` // "development" or "production"

	Addr string `koanf:"addr"` // Listen address (default ":3000")

	MailerLiteAPIKey   string `koanf:"mailerlite_api_key"`
	MailerLiteGroupID  string `koanf:"mailerlite_group_id"`
	MailerLiteEndpoint string `koanf:"mailerlite_endpoint"`

	SanityProjectID  string `koanf:"sanity_project_id"`
	SanityDataset    string `koanf:"sanity_dataset"`
	SanityAPIVersion string `koanf:"sanity_api_version"`
	SanityToken      string `koanf:"sanity_token"`

	UpstreamTimeout time.Duration `koanf:"upstream_timeout"` // default 10s

	SessionSecret string `koanf:"session_secret"` // Required: flash cookie secret
	CookieSecure  bool   `koanf:"cookie_secure"`

	ClicksEnabled       bool   `koanf:"clicks_enabled"`
	ClicksDatabasePath  string `koanf:"clicks_db"`             // default "data/clicks.db"
	ClicksRetentionDays int    `koanf:"clicks_retention_days"` // default 365

	SubscribePerMinute int    `koanf:"subscribe_per_minute"` // default 5
	CORSOrigins        string `koanf:"cors_origins"`         // comma separated

	LogLevel     string `koanf:"log_level"`
	LogFormat    string `koanf:"log_format"`
	OTelEndpoint string `koanf:"otel_endpoint"`

	Profile Profile `koanf:"profile"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Bento"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Description == "" {
		c.Description = "Find all my links in one place."
	}
	if c.BlogTagline == "" {
		c.BlogTagline = "Thoughts on crypto, markets, and building in web3."
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.UpstreamTimeout == 0 {
		c.UpstreamTimeout = 10 * time.Second
	}
	if c.ClicksDatabasePath == "" {
		c.ClicksDatabasePath = "data/clicks.db"
	}
	if c.ClicksRetentionDays == 0 {
		c.ClicksRetentionDays = 365
	}
	if c.SubscribePerMinute == 0 {
		c.SubscribePerMinute = 5
	}
	if c.Profile.Name == "" {
		c.Profile.Name = c.Name
	}
	for i := range c.Profile.Links {
		if c.Profile.Links[i].ID == "" {
			c.Profile.Links[i].ID = Slugify(c.Profile.Links[i].Title)
		}
	}
	for i := range c.Profile.Referrals {
		if c.Profile.Referrals[i].ID == "" {
			c.Profile.Referrals[i].ID = Slugify(c.Profile.Referrals[i].Name)
		}
	}
}

// Production reports whether the site runs in production mode.
func (c SiteConfig) Production() bool {
	return c.Environment == "production"
}

// AllowedOrigins splits CORSOrigins into a list.
func (c SiteConfig) AllowedOrigins() []string {
	return FilterEmpty(strings.Split(c.CORSOrigins, ","))
}

// LinkURL returns the destination for a link or referral id.
func (c SiteConfig) LinkURL(id string) (string, bool) {
	for _, l := range c.Profile.Links {
		if l.ID == id {
			return l.URL, true
		}
	}
	for _, r := range c.Profile.Referrals {
		if r.ID == id {
			return r.URL, true
		}
	}
	return "", false
}

// LoadConfig reads an optional YAML file at path and then BENTO_ prefixed
// environment variables, which take precedence. Defaults are applied last.
func LoadConfig(path string) (SiteConfig, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return SiteConfig{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg SiteConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithContent replaces the content store client.
func WithContent(c ContentSource) Option {
	return func(a *App) {
		a.content = c
	}
}

// WithSubscriber replaces the subscription service.
func WithSubscriber(s Subscriber) Option {
	return func(a *App) {
		a.subscriber = s
	}
}

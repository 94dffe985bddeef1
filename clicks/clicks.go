// Package clicks counts outbound link redirects without storing personal data.
// IP addresses are hashed with a per-installation salt, crawlers are skipped
// and a Do-Not-Track header is honored.
package clicks

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"time"
)

// Click is one recorded outbound redirect.
type Click struct {
	LinkID    string
	IPHash    string
	Device    string // Desktop, Mobile or Tablet
	Referrer  string // referring host, "Direct" when absent
	Timestamp time.Time
}

// Count is the number of clicks on one link.
type Count struct {
	LinkID string `json:"link_id"`
	Clicks int    `json:"clicks"`
}

// ShouldRecord reports whether a request with the given User-Agent and DNT
// header may be counted.
func ShouldRecord(userAgent, dnt string) bool {
	if strings.TrimSpace(dnt) == "1" {
		return false
	}
	return userAgent != "" && !IsBot(userAgent)
}

var botMarkers = []string{
	"bot", "crawler", "spider", "crawl", "slurp", "scrape",
	"facebookexternalhit", "embedly", "preview", "curl", "wget",
	"python-requests", "go-http-client", "headless",
}

// IsBot checks if the User-Agent is likely a bot, crawler or link unfurler.
func IsBot(ua string) bool {
	ua = strings.ToLower(ua)
	for _, m := range botMarkers {
		if strings.Contains(ua, m) {
			return true
		}
	}
	return false
}

// Device classifies a User-Agent as Desktop, Mobile or Tablet.
func Device(ua string) string {
	ua = strings.ToLower(ua)
	// iPad user agents also contain "mobile".
	switch {
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		return "Tablet"
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "android"):
		return "Mobile"
	default:
		return "Desktop"
	}
}

// ReferrerHost reduces a referrer URL to its host, without "www.".
func ReferrerHost(ref string) string {
	if ref == "" {
		return "Direct"
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return "Other"
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func hashIP(salt, ip string) string {
	h := sha256.New()
	h.Write([]byte(salt + ip))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

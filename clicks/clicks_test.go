package clicks

import "testing"

const (
	iphoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	ipadUA    = "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	desktopUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	googleUA  = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestIsBot(t *testing.T) {
	tests := []struct {
		ua   string
		want bool
	}{
		{desktopUA, false},
		{iphoneUA, false},
		{googleUA, true},
		{"facebookexternalhit/1.1", true},
		{"curl/8.4.0", true},
		{"TelegramBot (like TwitterBot)", true},
	}
	for _, tt := range tests {
		if got := IsBot(tt.ua); got != tt.want {
			t.Errorf("IsBot(%q) = %v, want %v", tt.ua, got, tt.want)
		}
	}
}

func TestShouldRecord(t *testing.T) {
	tests := []struct {
		name    string
		ua, dnt string
		want    bool
	}{
		{"browser", desktopUA, "", true},
		{"dnt set", desktopUA, "1", false},
		{"dnt zero", desktopUA, "0", true},
		{"bot", googleUA, "", false},
		{"no user agent", "", "", false},
	}
	for _, tt := range tests {
		if got := ShouldRecord(tt.ua, tt.dnt); got != tt.want {
			t.Errorf("%s: ShouldRecord = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDevice(t *testing.T) {
	tests := []struct {
		ua, want string
	}{
		{iphoneUA, "Mobile"},
		{ipadUA, "Tablet"},
		{desktopUA, "Desktop"},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8)", "Mobile"},
	}
	for _, tt := range tests {
		if got := Device(tt.ua); got != tt.want {
			t.Errorf("Device(%q) = %q, want %q", tt.ua, got, tt.want)
		}
	}
}

func TestReferrerHost(t *testing.T) {
	tests := []struct {
		ref, want string
	}{
		{"", "Direct"},
		{"https://www.Google.com/search?q=x", "google.com"},
		{"https://t.co/abc", "t.co"},
		{"not a url", "Other"},
	}
	for _, tt := range tests {
		if got := ReferrerHost(tt.ref); got != tt.want {
			t.Errorf("ReferrerHost(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

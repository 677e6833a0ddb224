package classifier

import (
	"strings"
)

// UnknownDevice is returned when the user agent carries no usable token.
const UnknownDevice = "Unknown"

// deviceTokens is matched in order against the lowercased user agent; the
// first hit wins, so iphone/ipad take priority over the generic tokens
// their user agents also contain.
var deviceTokens = []struct {
	token string
	label string
}{
	{"iphone", "iPhone"},
	{"ipad", "iPad"},
	{"android", "Android"},
	{"windows", "Windows"},
	{"macintosh", "Mac"},
	{"mac os", "Mac"},
	{"linux", "Linux"},
}

var syntheticKeywords = []string{"test", "teste", "demo", "exemplo", "dummy", "fake"}

var syntheticEmailMarkers = []string{"example.com", "mailinator", "tempmail"}

var placeholderPhones = map[string]struct{}{
	"0000000000": {},
	"00000000":   {},
	"123456":     {},
	"999999999":  {},
	"1111111111": {},
}

// ClassifyDevice derives a device label from a user-agent string. Unknown
// agents fall back to their first whitespace-delimited token, truncated to
// 32 characters. Never fails.
func ClassifyDevice(userAgent string) string {
	lowered := strings.ToLower(userAgent)
	for _, entry := range deviceTokens {
		if strings.Contains(lowered, entry.token) {
			return entry.label
		}
	}

	fields := strings.Fields(userAgent)
	if len(fields) == 0 {
		return UnknownDevice
	}
	token := fields[0]
	if len(token) > 32 {
		token = token[:32]
	}
	return token
}

// IsSyntheticIdentity flags logins created by testers rather than guests.
// Pure and total over the fixed keyword tables.
func IsSyntheticIdentity(name, email, phone string) bool {
	n := normalize(name)
	e := normalize(email)
	p := normalize(phone)

	for _, keyword := range syntheticKeywords {
		if strings.Contains(n, keyword) || strings.Contains(e, keyword) {
			return true
		}
	}
	for _, marker := range syntheticEmailMarkers {
		if strings.Contains(e, marker) {
			return true
		}
	}
	if p != "" {
		if _, ok := placeholderPhones[p]; ok {
			return true
		}
		// covers both "test" and "teste" prefixes
		if strings.HasPrefix(p, "test") {
			return true
		}
	}
	return false
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

package seo

import (
	"strings"
	"unicode"
)

// Well-known keys.
const (
	KeySite               = "site"
	KeyTitle              = "title"
	KeyImage              = "image"
	KeyDescription        = "description"
	KeyURL                = "url"
	KeyType               = "type"
	KeyTwitterCreator     = "twitter.creator"
	KeyTwitterSite        = "twitter.site"
	KeyTwitterTitle       = "twitter.title"
	KeyTwitterImage       = "twitter.image"
	KeyTwitterDescription = "twitter.description"
)

// Extension names known out of the box.
const (
	ExtensionTwitter = "twitter"
	ExtensionFavicon = "favicon"
)

// wellKnownKeys is always considered when enumerating active keys.
var wellKnownKeys = []string{
	KeySite, KeyTitle, KeyImage, KeyDescription, KeyURL, KeyType,
	KeyTwitterCreator, KeyTwitterSite, KeyTwitterTitle, KeyTwitterImage, KeyTwitterDescription,
}

// WellKnownKeys returns a copy of the fixed key list.
func WellKnownKeys() []string {
	keys := make([]string, len(wellKnownKeys))
	copy(keys, wellKnownKeys)
	return keys
}

// splitExtension returns the extension prefix of a dotted key and the
// remainder after the first dot. ok is false for keys without a dot.
func splitExtension(key string) (prefix, rest string, ok bool) {
	return strings.Cut(key, ".")
}

// KeyFromName converts an accessor name to a dotted key: every upper-case
// letter that follows another character starts a new segment, and the result
// is lower-cased. "twitterTitle" and "TwitterTitle" both become
// "twitter.title"; names that are already lower-case are returned unchanged.
func KeyFromName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	// "twitter title" reads like "twitterTitle".
	for i := 1; i < len(fields); i++ {
		r := []rune(fields[i])
		r[0] = unicode.ToUpper(r[0])
		fields[i] = string(r)
	}
	name = strings.Join(fields, "")

	hasUpper := false
	for _, r := range name {
		if unicode.IsUpper(r) {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return name
	}

	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('.')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

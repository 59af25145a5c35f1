// Package seo stores the values behind a page's head tags.
//
// A Manager keeps three stores keyed by dotted names such as "title" or
// "twitter.title": explicit values, defaults, and modifiers. Reading a key
// resolves, in order:
//
//  1. the explicit value, passed through the key's modifier if one exists
//  2. the key's default
//  3. the key with its first segment removed ("twitter.title" reads "title")
//  4. Absent
//
// Raw follows the same order but never applies a modifier.
//
// The first segment of a dotted key names an extension. Extensions are
// switched on explicitly or by setting any of their keys, and All only
// reports dotted keys whose extension is enabled:
//
//	m := seo.New()
//	m.Title().Default("Acme").Modify(func(s string) string { return s + " | Acme" })
//	m.Title().Set("Pricing")
//	m.Get("title")          // "Pricing | Acme"
//	m.Get("twitter.title")  // "Pricing | Acme", but not listed by All yet
//	m.Twitter(true)
//
// A Manager belongs to one request and is not safe for concurrent use.
package seo

package render

import (
	"bytes"
	"io"
	"strings"

	seoerrors "github.com/conneroisu/seo/internal/errors"
	"github.com/conneroisu/seo/internal/seo"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/net/html"
)

// openGraphKeys maps og:* properties to store keys.
var openGraphKeys = map[string]string{
	"og:title":       seo.KeyTitle,
	"og:description": seo.KeyDescription,
	"og:image":       seo.KeyImage,
	"og:url":         seo.KeyURL,
	"og:type":        seo.KeyType,
	"og:site_name":   seo.KeySite,
}

// Inspect reads an HTML document and recovers the tag values Head would
// have written for it. The first occurrence of a key wins. Meta tags that
// map to no key come back as raw tags keyed like Tag records them.
func Inspect(r io.Reader) ([]seo.Pair, []seo.RawTag, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, nil, seoerrors.NewIOError(seoerrors.ErrCodeRenderFailed, "failed to parse HTML", err).
			WithComponent("inspect")
	}

	in := &inspector{
		values: orderedmap.New[string, string](),
		raw:    orderedmap.New[string, string](),
	}
	in.walk(doc)

	pairs := make([]seo.Pair, 0, in.values.Len())
	for p := in.values.Oldest(); p != nil; p = p.Next() {
		pairs = append(pairs, seo.Pair{Key: p.Key, Value: seo.Literal(p.Value)})
	}

	tags := make([]seo.RawTag, 0, in.raw.Len())
	for p := in.raw.Oldest(); p != nil; p = p.Next() {
		tags = append(tags, seo.RawTag{Key: p.Key, Markup: p.Value})
	}

	return pairs, tags, nil
}

type inspector struct {
	values *orderedmap.OrderedMap[string, string]
	raw    *orderedmap.OrderedMap[string, string]
}

func (in *inspector) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "title":
			in.value(seo.KeyTitle, strings.TrimSpace(textOf(n)))
		case "meta":
			in.meta(n)
		case "link":
			if strings.EqualFold(attr(n, "rel"), "canonical") {
				in.value(seo.KeyURL, attr(n, "href"))
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		in.walk(c)
	}
}

func (in *inspector) meta(n *html.Node) {
	content := attr(n, "content")
	property := attr(n, "property")
	name := attr(n, "name")

	switch {
	case openGraphKeys[property] != "":
		in.value(openGraphKeys[property], content)
	case name == "description":
		in.value(seo.KeyDescription, content)
	case name == "twitter:card":
		// written by the twitter view itself
	case strings.HasPrefix(name, "twitter:"):
		in.value("twitter."+strings.TrimPrefix(name, "twitter:"), content)
	case property != "":
		in.rawTag("meta."+property, n)
	case name != "":
		in.rawTag("meta."+name, n)
	}
}

func (in *inspector) value(key, v string) {
	if v == "" {
		return
	}
	if _, seen := in.values.Get(key); !seen {
		in.values.Set(key, v)
	}
}

func (in *inspector) rawTag(key string, n *html.Node) {
	if _, seen := in.raw.Get(key); seen {
		return
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return
	}
	in.raw.Set(key, buf.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

package validation

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// headElements may appear in raw head markup.
var headElements = map[atom.Atom]bool{
	atom.Meta:     true,
	atom.Link:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Base:     true,
	atom.Noscript: true,
	atom.Title:    true,
	atom.Template: true,
}

// ValidateHeadMarkup checks that markup parses as head content: elements
// allowed in <head>, comments and whitespace only.
func ValidateHeadMarkup(markup string) error {
	if strings.TrimSpace(markup) == "" {
		return fmt.Errorf("markup cannot be empty")
	}

	// A head context drops stray text and body elements instead of
	// returning them, so parse as body content and reject those here.
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return fmt.Errorf("invalid markup: %w", err)
	}

	for _, n := range nodes {
		switch n.Type {
		case html.CommentNode:
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				return fmt.Errorf("markup has text outside an element: %q", strings.TrimSpace(n.Data))
			}
		case html.ElementNode:
			if !headElements[n.DataAtom] {
				return fmt.Errorf("<%s> is not allowed in head markup", n.Data)
			}
		default:
			return fmt.Errorf("unexpected node in head markup")
		}
	}

	return nil
}

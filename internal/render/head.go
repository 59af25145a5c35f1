// Package render turns a Manager into head markup and reads head markup
// back into tag values.
//
// Head writes the title, Open Graph, description and canonical tags, then
// any recorded raw tags, then one view per enabled extension. Extension
// views are looked up by id in a Views registry, so applications can swap
// the twitter card or favicon links for their own components.
package render

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/a-h/templ"
	"github.com/conneroisu/seo/internal/seo"
)

// View renders the markup of one extension.
type View func(m *seo.Manager) templ.Component

// Views maps view ids to extension views. It is safe for concurrent use.
type Views struct {
	mu    sync.RWMutex
	views map[string]View
}

// NewViews returns a registry with the twitter and favicon views registered
// under namespace.
func NewViews(namespace string) *Views {
	if namespace == "" {
		namespace = seo.DefaultNamespace
	}
	v := &Views{views: make(map[string]View)}
	v.Register(ViewID(namespace, seo.ExtensionTwitter), TwitterCard)
	v.Register(ViewID(namespace, seo.ExtensionFavicon), FaviconLinks)
	return v
}

// ViewID is the conventional id of an extension's view.
func ViewID(namespace, extension string) string {
	return namespace + "::extensions." + extension
}

// Register adds or replaces a view.
func (v *Views) Register(id string, view View) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.views[id] = view
}

// Lookup returns the view registered under id.
func (v *Views) Lookup(id string) (View, bool) {
	if v == nil {
		return nil, false
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	view, ok := v.views[id]
	return view, ok
}

// IDs lists registered view ids in sorted order.
func (v *Views) IDs() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	ids := make([]string, 0, len(v.views))
	for id := range v.views {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Missing lists the view ids of m's enabled extensions that have no view.
// Head skips them.
func (v *Views) Missing(m *seo.Manager) []string {
	var missing []string
	for _, ext := range m.Extensions() {
		if _, ok := v.Lookup(ext.View); !ok {
			missing = append(missing, ext.View)
		}
	}
	return missing
}

// Head renders every tag m resolves.
func Head(m *seo.Manager, views *Views) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		tw := &tagWriter{w: w}

		if title, ok := m.Get(seo.KeyTitle).Lookup(); ok {
			tw.printf("<title>%s</title>\n", templ.EscapeString(title))
		}

		ogType := "website"
		if t, ok := m.Get(seo.KeyType).Lookup(); ok {
			ogType = t
		}
		tw.meta("property", "og:type", ogType)
		tw.metaIf("property", "og:site_name", m.Get(seo.KeySite))
		tw.metaIf("property", "og:title", m.Get(seo.KeyTitle))
		tw.metaIf("property", "og:description", m.Get(seo.KeyDescription))
		tw.metaIf("name", "description", m.Get(seo.KeyDescription))
		tw.metaIf("property", "og:image", m.Get(seo.KeyImage))

		if url, ok := m.Get(seo.KeyURL).Lookup(); ok {
			tw.meta("property", "og:url", url)
			tw.printf("<link rel=\"canonical\" href=\"%s\" />\n", templ.EscapeString(url))
		}

		for _, tag := range m.Tags() {
			tw.printf("%s\n", tag.Markup)
		}

		if tw.err != nil {
			return tw.err
		}

		for _, ext := range m.Extensions() {
			view, ok := views.Lookup(ext.View)
			if !ok {
				continue
			}
			if err := view(m).Render(ctx, w); err != nil {
				return fmt.Errorf("rendering %s: %w", ext.View, err)
			}
		}

		return nil
	})
}

// TwitterCard renders the twitter extension.
func TwitterCard(m *seo.Manager) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		tw := &tagWriter{w: w}
		tw.meta("name", "twitter:card", "summary_large_image")
		tw.metaIf("name", "twitter:site", m.Get(seo.KeyTwitterSite))
		tw.metaIf("name", "twitter:creator", m.Get(seo.KeyTwitterCreator))
		tw.metaIf("name", "twitter:title", m.Get(seo.KeyTwitterTitle))
		tw.metaIf("name", "twitter:description", m.Get(seo.KeyTwitterDescription))
		tw.metaIf("name", "twitter:image", m.Get(seo.KeyTwitterImage))
		return tw.err
	})
}

// FaviconLinks renders the favicon extension. The files are the ones the
// favicon generator writes.
func FaviconLinks(_ *seo.Manager) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		tw := &tagWriter{w: w}
		tw.printf("<link rel=\"icon\" type=\"image/x-icon\" href=\"/favicon.ico\" />\n")
		tw.printf("<link rel=\"icon\" type=\"image/png\" href=\"/favicon.png\" />\n")
		tw.printf("<link rel=\"apple-touch-icon\" href=\"/apple-touch-icon.png\" />\n")
		return tw.err
	})
}

// tagWriter keeps the first write error so callers check once.
type tagWriter struct {
	w   io.Writer
	err error
}

func (t *tagWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *tagWriter) meta(attr, name, content string) {
	t.printf("<meta %s=\"%s\" content=\"%s\" />\n", attr, templ.EscapeString(name), templ.EscapeString(content))
}

func (t *tagWriter) metaIf(attr, name string, v seo.Value) {
	if content, ok := v.Lookup(); ok {
		t.meta(attr, name, content)
	}
}

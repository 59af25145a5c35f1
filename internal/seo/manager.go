package seo

import (
	"sort"

	"github.com/conneroisu/seo/internal/flipp"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultNamespace prefixes the conventional extension view identifiers.
const DefaultNamespace = "seo"

// Modifier transforms an explicitly set value at read time.
type Modifier func(string) string

// Pair is a key and value used for ordered batch assignment.
type Pair struct {
	Key   string
	Value Value
}

// ExtensionView names an enabled extension and the view that renders it.
type ExtensionView struct {
	Name string
	View string
}

// Manager holds the tag values of one page render. It is not safe for
// concurrent use; create one per request.
type Manager struct {
	values     *orderedmap.OrderedMap[string, Value]
	defaults   *orderedmap.OrderedMap[string, Value]
	modifiers  map[string]Modifier
	extensions *orderedmap.OrderedMap[string, bool]
	meta       *metaNode
	tags       *orderedmap.OrderedMap[string, string]

	namespace  string
	signer     *flipp.Signer
	requestURL func() string
}

// ManagerOption configures a Manager at construction.
type ManagerOption func(*Manager)

// WithNamespace sets the prefix of conventional extension view identifiers.
func WithNamespace(namespace string) ManagerOption {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSigner binds the signer used by Flipp.
func WithSigner(signer *flipp.Signer) ManagerOption {
	return func(m *Manager) {
		m.signer = signer
	}
}

// WithRequestURL binds the collaborator that reports the current page URL.
func WithRequestURL(fn func() string) ManagerOption {
	return func(m *Manager) {
		m.requestURL = fn
	}
}

// New creates an empty manager with the twitter extension registered but
// disabled.
func New(opts ...ManagerOption) *Manager {
	m := &Manager{
		values:     orderedmap.New[string, Value](),
		defaults:   orderedmap.New[string, Value](),
		modifiers:  make(map[string]Modifier),
		extensions: orderedmap.New[string, bool](),
		meta:       newMetaBranch(),
		tags:       orderedmap.New[string, string](),
		namespace:  DefaultNamespace,
	}
	m.extensions.Set(ExtensionTwitter, false)

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Namespace returns the view namespace.
func (m *Manager) Namespace() string {
	return m.namespace
}

// Set stores a value and returns it as Get would read it back. Setting a
// dotted key enables the extension named by its prefix.
func (m *Manager) Set(key string, v Value) Value {
	m.values.Set(key, v)

	if prefix, _, ok := splitExtension(key); ok && prefix != "" {
		m.Extension(prefix, true)
	}

	return m.Get(key)
}

// SetString is Set with a literal value.
func (m *Manager) SetString(key, value string) Value {
	return m.Set(key, Literal(value))
}

// SetMany stores several values in order and returns each key's resolved
// value in input order.
func (m *Manager) SetMany(pairs ...Pair) Snapshot {
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}

	snap := newSnapshot()
	for _, p := range pairs {
		snap.entries.Set(p.Key, m.Get(p.Key))
	}
	return snap
}

// SetMap stores literal values in sorted key order.
func (m *Manager) SetMap(values map[string]string) Snapshot {
	pairs := make([]Pair, 0, len(values))
	for _, key := range sortedKeys(values) {
		pairs = append(pairs, Pair{Key: key, Value: Literal(values[key])})
	}
	return m.SetMany(pairs...)
}

// Get resolves a key: the explicit value with its modifier applied, else the
// default, else the key after its first dot, else absent.
func (m *Manager) Get(key string) Value {
	if v, ok := m.values.Get(key); ok && v.Present() {
		return m.modify(key, v)
	}
	return m.fallback(key, m.Get)
}

// Raw resolves a key like Get but never applies a modifier.
func (m *Manager) Raw(key string) Value {
	if v, ok := m.values.Get(key); ok && v.Present() {
		return v.Resolve()
	}
	return m.fallback(key, m.Raw)
}

func (m *Manager) fallback(key string, next func(string) Value) Value {
	if d, ok := m.defaults.Get(key); ok && d.Present() {
		return d.Resolve()
	}
	if _, rest, ok := splitExtension(key); ok {
		return next(rest)
	}
	return Absent()
}

func (m *Manager) modify(key string, v Value) Value {
	resolved := v.Resolve()
	fn, ok := m.modifiers[key]
	if !ok || fn == nil {
		return resolved
	}
	s, _ := resolved.Lookup()
	return Literal(fn(s))
}

// Has reports whether a key has an explicit, non-absent value.
func (m *Manager) Has(key string) bool {
	v, ok := m.values.Get(key)
	return ok && v.Present()
}

// Extension enables or disables an extension. A non-empty view overrides the
// identifier Extensions reports for it.
func (m *Manager) Extension(name string, enabled bool, view ...string) *Manager {
	m.extensions.Set(name, enabled)

	if len(view) > 0 && view[0] != "" {
		m.SetMeta("extensions."+name+".view", view[0])
	}

	return m
}

// ExtensionEnabled reports whether the named extension is registered and on.
func (m *Manager) ExtensionEnabled(name string) bool {
	enabled, ok := m.extensions.Get(name)
	return ok && enabled
}

// Extensions lists enabled extensions in registration order with their view
// identifiers.
func (m *Manager) Extensions() []ExtensionView {
	var views []ExtensionView
	for pair := m.extensions.Oldest(); pair != nil; pair = pair.Next() {
		if !pair.Value {
			continue
		}
		view := m.MetaString("extensions." + pair.Key + ".view")
		if view == "" {
			view = m.namespace + "::extensions." + pair.Key
		}
		views = append(views, ExtensionView{Name: pair.Key, View: view})
	}
	return views
}

// Twitter toggles the twitter extension.
func (m *Manager) Twitter(enabled bool) *Manager {
	return m.Extension(ExtensionTwitter, enabled)
}

// Favicon enables the favicon extension.
func (m *Manager) Favicon() *Manager {
	return m.Extension(ExtensionFavicon, true)
}

// WithURL sets the url key to the current page URL when a request URL
// collaborator is bound.
func (m *Manager) WithURL() *Manager {
	if m.requestURL != nil {
		m.Set(KeyURL, Literal(m.requestURL()))
	}
	return m
}

// activeKeys returns the well-known keys, then default keys, then value keys,
// without duplicates. Dotted keys survive only while their extension is
// registered and enabled.
func (m *Manager) activeKeys() []string {
	seen := make(map[string]struct{})
	var keys []string

	add := func(key string) {
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}

		if prefix, _, ok := splitExtension(key); ok && !m.ExtensionEnabled(prefix) {
			return
		}
		keys = append(keys, key)
	}

	for _, key := range wellKnownKeys {
		add(key)
	}
	for pair := m.defaults.Oldest(); pair != nil; pair = pair.Next() {
		add(pair.Key)
	}
	for pair := m.values.Oldest(); pair != nil; pair = pair.Next() {
		add(pair.Key)
	}

	return keys
}

// All resolves every active key.
func (m *Manager) All() Snapshot {
	snap := newSnapshot()
	for _, key := range m.activeKeys() {
		snap.entries.Set(key, m.Get(key))
	}
	return snap
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

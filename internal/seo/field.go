package seo

// Field is a handle on one key of a Manager.
type Field struct {
	m   *Manager
	key string
}

// Field returns a handle for an accessor name. Camel-case names are turned
// into dotted keys, so Field("twitterTitle") addresses "twitter.title".
// Field always addresses a value: Field("favicon").Set stores a value under
// "favicon" and leaves the extension alone. Toggle extensions with
// Extension, Twitter or Favicon.
func (m *Manager) Field(name string) Field {
	return Field{m: m, key: KeyFromName(name)}
}

func (m *Manager) Title() Field              { return Field{m: m, key: KeyTitle} }
func (m *Manager) Description() Field        { return Field{m: m, key: KeyDescription} }
func (m *Manager) URL() Field                { return Field{m: m, key: KeyURL} }
func (m *Manager) Site() Field               { return Field{m: m, key: KeySite} }
func (m *Manager) Image() Field              { return Field{m: m, key: KeyImage} }
func (m *Manager) Type() Field               { return Field{m: m, key: KeyType} }
func (m *Manager) TwitterCreator() Field     { return Field{m: m, key: KeyTwitterCreator} }
func (m *Manager) TwitterSite() Field        { return Field{m: m, key: KeyTwitterSite} }
func (m *Manager) TwitterTitle() Field       { return Field{m: m, key: KeyTwitterTitle} }
func (m *Manager) TwitterDescription() Field { return Field{m: m, key: KeyTwitterDescription} }
func (m *Manager) TwitterImage() Field       { return Field{m: m, key: KeyTwitterImage} }

// Key returns the dotted key the field addresses.
func (f Field) Key() string {
	return f.key
}

// Set stores a literal value.
func (f Field) Set(value string) *Manager {
	f.m.Set(f.key, Literal(value))
	return f.m
}

// SetValue stores any Value, including deferred ones.
func (f Field) SetValue(v Value) *Manager {
	f.m.Set(f.key, v)
	return f.m
}

// Default registers the fallback used when no value is set.
func (f Field) Default(value string) Field {
	f.m.defaults.Set(f.key, Literal(value))
	return f
}

// DefaultValue registers a fallback Value.
func (f Field) DefaultValue(v Value) Field {
	f.m.defaults.Set(f.key, v)
	return f
}

// Modify registers the transform applied to explicitly set values.
func (f Field) Modify(fn Modifier) Field {
	f.m.modifiers[f.key] = fn
	return f
}

// Get resolves the field.
func (f Field) Get() Value {
	return f.m.Get(f.key)
}

// Raw resolves the field without its modifier.
func (f Field) Raw() Value {
	return f.m.Raw(f.key)
}

// Option configures a key through Configure.
type Option struct {
	apply   func(Field)
	isValue bool
}

// WithDefault registers a literal default.
func WithDefault(value string) Option {
	return Option{apply: func(f Field) { f.Default(value) }}
}

// WithDeferredDefault registers a default computed at read time.
func WithDeferredDefault(fn func() string) Option {
	return Option{apply: func(f Field) { f.DefaultValue(Deferred(fn)) }}
}

// WithModifier registers a modifier.
func WithModifier(fn Modifier) Option {
	return Option{apply: func(f Field) { f.Modify(fn) }}
}

// WithModify is an alias of WithModifier.
func WithModify(fn Modifier) Option {
	return WithModifier(fn)
}

// WithValue sets the key's value.
func WithValue(v Value) Option {
	return Option{apply: func(f Field) { f.SetValue(v) }, isValue: true}
}

// Configure applies options to an arbitrary key. Defaults and modifiers are
// registered before any value is stored, so a value given in the same call
// is read back through its modifier.
func (m *Manager) Configure(key string, opts ...Option) *Manager {
	f := Field{m: m, key: key}

	for _, opt := range opts {
		if opt.apply != nil && !opt.isValue {
			opt.apply(f)
		}
	}
	for _, opt := range opts {
		if opt.apply != nil && opt.isValue {
			opt.apply(f)
		}
	}

	return m
}

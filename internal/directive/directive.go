// Package directive exposes a Manager to html/template as a single variadic
// "seo" function.
//
//	{{ seo "title" }}                      read
//	{{ seo "title" "Hello" }}              write, emits the resolved value
//	{{ seo .Values }}                      batch write, emits nothing
//	{{ seo "flipp" "blog" "tmpl_123" }}    configure a Flipp template
//	{{ seo "flipp" "blog" }}               emit a signed Flipp image URL
package directive

import (
	"fmt"
	"html/template"
	"sort"

	seoerrors "github.com/conneroisu/seo/internal/errors"
	"github.com/conneroisu/seo/internal/seo"
)

// FlippKeyword routes the remaining arguments to the Flipp integration.
const FlippKeyword = "flipp"

// Directive dispatches on the shape of args.
func Directive(m *seo.Manager, args ...any) (string, error) {
	if len(args) > 0 {
		if first, ok := args[0].(string); ok && first == FlippKeyword {
			return flippDirective(m, args[1:])
		}
	}

	switch len(args) {
	case 2:
		key, err := keyArg(args[0])
		if err != nil {
			return "", err
		}
		return m.Set(key, valueArg(args[1])).String(), nil
	case 1:
		if pairs, ok := mapArg(args[0]); ok {
			m.SetMany(pairs...)
			return "", nil
		}
		key, err := keyArg(args[0])
		if err != nil {
			return "", err
		}
		return m.Get(key).String(), nil
	default:
		return "", argsError("expected 1 or 2 arguments, got %d", len(args))
	}
}

func flippDirective(m *seo.Manager, args []any) (string, error) {
	if len(args) == 0 || len(args) > 2 {
		return "", argsError("flipp expects an alias and an optional template id or payload, got %d arguments", len(args))
	}

	alias, err := keyArg(args[0])
	if err != nil {
		return "", err
	}

	if len(args) == 2 {
		if templateID, ok := args[1].(string); ok {
			m.FlippTemplate(alias, templateID)
			return "", nil
		}
	}

	var data any
	if len(args) == 2 {
		data = args[1]
	}

	v, err := m.Flipp(alias, data)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// FuncMap returns the functions to register with html/template.
func FuncMap(m *seo.Manager) template.FuncMap {
	return template.FuncMap{
		"seo": func(args ...any) (string, error) {
			return Directive(m, args...)
		},
	}
}

func keyArg(arg any) (string, error) {
	switch v := arg.(type) {
	case string:
		if v == "" {
			return "", argsError("key cannot be empty")
		}
		return v, nil
	case fmt.Stringer:
		return keyArg(v.String())
	default:
		return "", argsError("key must be a string, got %T", arg)
	}
}

func valueArg(arg any) seo.Value {
	switch v := arg.(type) {
	case nil:
		return seo.Absent()
	case seo.Value:
		return v
	case string:
		return seo.Literal(v)
	case func() string:
		return seo.Deferred(v)
	default:
		return seo.Literal(fmt.Sprint(v))
	}
}

// mapArg accepts the map shapes templates usually carry and returns pairs
// in key order.
func mapArg(arg any) ([]seo.Pair, bool) {
	var values map[string]seo.Value

	switch m := arg.(type) {
	case map[string]string:
		values = make(map[string]seo.Value, len(m))
		for k, v := range m {
			values[k] = seo.Literal(v)
		}
	case map[string]any:
		values = make(map[string]seo.Value, len(m))
		for k, v := range m {
			values[k] = valueArg(v)
		}
	default:
		return nil, false
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]seo.Pair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, seo.Pair{Key: k, Value: values[k]})
	}
	return pairs, true
}

func argsError(format string, args ...any) error {
	return seoerrors.NewValidationError(seoerrors.ErrCodeDirectiveArgs, fmt.Sprintf(format, args...)).
		WithComponent("directive")
}

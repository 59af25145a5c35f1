package seo

import (
	"strings"

	seoerrors "github.com/conneroisu/seo/internal/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func flippTemplatePath(alias string) string {
	return "flipp.templates." + alias
}

// FlippTemplate associates an alias with a Flipp template identifier.
// Aliases are single path segments: an empty or dotted alias is not
// registered, and Flipp reports it as missing.
func (m *Manager) FlippTemplate(alias, templateID string) *Manager {
	if !validAlias(alias) {
		return m
	}
	return m.SetMeta(flippTemplatePath(alias), templateID)
}

func validAlias(alias string) bool {
	return alias != "" && !strings.Contains(alias, ".")
}

// FlippTemplateID returns the template identifier registered for alias.
func (m *Manager) FlippTemplateID(alias string) (string, bool) {
	if !validAlias(alias) {
		return "", false
	}
	id := m.MetaString(flippTemplatePath(alias))
	return id, id != ""
}

// FlippPayload is the payload Flipp receives when none is given: the raw
// title and description, in that order, null when absent.
func (m *Manager) FlippPayload() *orderedmap.OrderedMap[string, any] {
	payload := orderedmap.New[string, any]()
	payload.Set("title", m.Raw(KeyTitle).Interface())
	payload.Set("description", m.Raw(KeyDescription).Interface())
	return payload
}

// Flipp signs an image URL for the template registered under alias and sets
// it as the image value. A nil data payload uses FlippPayload.
func (m *Manager) Flipp(alias string, data any) (Value, error) {
	templateID, ok := m.FlippTemplateID(alias)
	if !ok {
		return Absent(), seoerrors.ErrFlippTemplateMissing(alias)
	}
	if m.signer == nil {
		return Absent(), seoerrors.ErrFlippKeyMissing()
	}

	if data == nil {
		data = m.FlippPayload()
	}

	url, err := m.signer.URL(templateID, data)
	if err != nil {
		return Absent(), err
	}

	return m.Set(KeyImage, Literal(url)), nil
}

package seo

import "strings"

// metaNode is one segment of the metadata tree. A node is either a leaf
// holding a string or a branch holding children, never both.
type metaNode struct {
	value    string
	leaf     bool
	children map[string]*metaNode
}

func newMetaBranch() *metaNode {
	return &metaNode{children: make(map[string]*metaNode)}
}

// set stores value at the dotted path, replacing any leaf or branch that is
// in the way.
func (n *metaNode) set(path, value string) {
	node := n
	segments := strings.Split(path, ".")
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node.children[segment]
		if !ok || child.leaf {
			child = newMetaBranch()
			node.children[segment] = child
		}
		node = child
	}
	node.children[segments[len(segments)-1]] = &metaNode{value: value, leaf: true}
}

// get walks the dotted path. Leaves come back as string, branches as a
// freshly built map[string]any.
func (n *metaNode) get(path string) (any, bool) {
	node := n
	for _, segment := range strings.Split(path, ".") {
		if node.leaf {
			return nil, false
		}
		child, ok := node.children[segment]
		if !ok {
			return nil, false
		}
		node = child
	}
	return node.export(), true
}

func (n *metaNode) export() any {
	if n.leaf {
		return n.value
	}
	out := make(map[string]any, len(n.children))
	for k, child := range n.children {
		out[k] = child.export()
	}
	return out
}

// Meta reads the metadata tree at a dotted path. Leaves are returned as
// string and intermediate nodes as map[string]any.
func (m *Manager) Meta(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	return m.meta.get(path)
}

// MetaString reads a leaf of the metadata tree, returning "" when the path is
// missing or names a branch.
func (m *Manager) MetaString(path string) string {
	v, ok := m.Meta(path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// SetMeta writes a leaf of the metadata tree.
func (m *Manager) SetMeta(path, value string) *Manager {
	if path == "" {
		return m
	}
	m.meta.set(path, value)
	return m
}

// SetMetaMany writes several leaves of the metadata tree.
func (m *Manager) SetMetaMany(values map[string]string) *Manager {
	for _, path := range sortedKeys(values) {
		m.SetMeta(path, values[path])
	}
	return m
}

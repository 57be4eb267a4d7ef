package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/regjson/pkg/types"
)

// Entry is one named member of a Node. Value is a normalized scalar
// (string, int64, []string) or a *Node for a child key.
type Entry struct {
	Name  string
	Value any
}

// Node is the exported form of one registry key: an insertion-ordered
// mapping from name to value or child node.
//
// Order follows the store's enumeration (values first, then children) and
// carries no meaning; two nodes with the same entries in a different order
// describe the same key.
type Node struct {
	entries []Entry
	index   map[string]int
}

// NewNode returns an empty node.
func NewNode() *Node {
	return &Node{index: make(map[string]int)}
}

// Set appends an entry. Names are unique within a node; a second Set with
// the same name returns ErrDuplicateName and leaves the node unchanged.
func (n *Node) Set(name string, value any) error {
	if n.index == nil {
		n.index = make(map[string]int)
	}
	if _, ok := n.index[name]; ok {
		return types.ErrDuplicateName.Wrap(fmt.Errorf("name %q", name))
	}
	n.index[name] = len(n.entries)
	n.entries = append(n.entries, Entry{Name: name, Value: value})
	return nil
}

// Get returns the value stored under name.
func (n *Node) Get(name string) (any, bool) {
	if n == nil {
		return nil, false
	}
	i, ok := n.index[name]
	if !ok {
		return nil, false
	}
	return n.entries[i].Value, true
}

// Child returns the child node stored under name, or nil.
func (n *Node) Child(name string) *Node {
	v, _ := n.Get(name)
	child, _ := v.(*Node)
	return child
}

// Len returns the number of entries.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.entries)
}

// Entries returns the entries in insertion order. The slice is shared with
// the node and must not be modified.
func (n *Node) Entries() []Entry {
	if n == nil {
		return nil
	}
	return n.entries
}

// Map converts the node into plain nested maps, dropping order.
func (n *Node) Map() map[string]any {
	out := make(map[string]any, n.Len())
	for _, e := range n.Entries() {
		if child, ok := e.Value.(*Node); ok {
			out[e.Name] = child.Map()
			continue
		}
		out[e.Name] = e.Value
	}
	return out
}

// MarshalJSON writes the entries as a JSON object in insertion order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range n.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML builds a mapping node so the YAML output keeps insertion
// order too.
func (n *Node) MarshalYAML() (any, error) {
	return n.yamlNode()
}

func (n *Node) yamlNode() (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range n.Entries() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Name}
		var val *yaml.Node
		if child, ok := e.Value.(*Node); ok {
			cn, err := child.yamlNode()
			if err != nil {
				return nil, err
			}
			val = cn
		} else {
			val = &yaml.Node{}
			if err := val.Encode(e.Value); err != nil {
				return nil, fmt.Errorf("entry %q: %w", e.Name, err)
			}
		}
		m.Content = append(m.Content, key, val)
	}
	return m, nil
}

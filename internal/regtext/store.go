package regtext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/joshuapare/regjson/internal/rootpath"
	"github.com/joshuapare/regjson/pkg/types"
)

// Document is a parsed .reg file. It implements types.Store and is
// read-only once Parse returns, so handles may be used from several
// goroutines.
type Document struct {
	roots map[types.RootKey]*keyNode

	// Warnings lists sections that were skipped while parsing.
	Warnings []string
}

var _ types.Store = (*Document)(nil)

// Open reads and parses the .reg file at path.
func Open(fs afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("regtext: read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("regtext: %s: %w", path, err)
	}
	return doc, nil
}

func newDocument() *Document {
	return &Document{roots: make(map[types.RootKey]*keyNode)}
}

// OpenRoot returns a handle to root, or types.ErrNotFound when the file
// never mentions it.
func (d *Document) OpenRoot(root types.RootKey) (types.Key, error) {
	node := d.roots[root]
	if node == nil {
		return nil, types.ErrNotFound.Wrap(fmt.Errorf("%s not present in file", root))
	}
	return &keyHandle{node: node}, nil
}

// Counts returns the number of keys (roots included) and values in the
// document.
func (d *Document) Counts() (keys, values int) {
	var walk func(n *keyNode)
	walk = func(n *keyNode) {
		keys++
		values += len(n.values)
		for _, c := range n.children {
			walk(c)
		}
	}
	for _, r := range types.Roots {
		if n := d.roots[r]; n != nil {
			walk(n)
		}
	}
	return keys, values
}

func (d *Document) ensureKey(p rootpath.Path) *keyNode {
	node := d.roots[p.Root]
	if node == nil {
		node = newKeyNode(p.Root.String())
		d.roots[p.Root] = node
	}
	for _, part := range splitPath(p.Subpath) {
		child := node.child(part)
		if child == nil {
			child = newKeyNode(part)
			node.addChild(child)
		}
		node = child
	}
	return node
}

func (d *Document) deleteKey(p rootpath.Path) {
	parts := splitPath(p.Subpath)
	if len(parts) == 0 {
		delete(d.roots, p.Root)
		return
	}
	node := d.roots[p.Root]
	for _, part := range parts[:len(parts)-1] {
		if node == nil {
			return
		}
		node = node.child(part)
	}
	if node != nil {
		node.removeChild(parts[len(parts)-1])
	}
}

func splitPath(path string) []string {
	var out []string
	for _, part := range strings.Split(path, Backslash) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

type namedValue struct {
	name  string
	value types.Payload
}

type keyNode struct {
	name     string
	values   []namedValue
	children []*keyNode
}

func newKeyNode(name string) *keyNode {
	return &keyNode{name: name}
}

func (n *keyNode) child(name string) *keyNode {
	for _, c := range n.children {
		if strings.EqualFold(c.name, name) {
			return c
		}
	}
	return nil
}

func (n *keyNode) addChild(c *keyNode) {
	n.children = append(n.children, c)
}

func (n *keyNode) removeChild(name string) {
	for i, c := range n.children {
		if strings.EqualFold(c.name, name) {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

func (n *keyNode) setValue(name string, v types.Payload) {
	for i := range n.values {
		if strings.EqualFold(n.values[i].name, name) {
			n.values[i].value = v
			return
		}
	}
	n.values = append(n.values, namedValue{name: name, value: v})
}

func (n *keyNode) deleteValue(name string) {
	for i := range n.values {
		if strings.EqualFold(n.values[i].name, name) {
			n.values = append(n.values[:i], n.values[i+1:]...)
			return
		}
	}
}

// keyHandle is an open key in a Document.
type keyHandle struct {
	node   *keyNode
	closed bool
}

var errClosed = errors.New("regtext: key handle is closed")

func (h *keyHandle) ValueNames() ([]string, error) {
	if h.closed {
		return nil, errClosed
	}
	names := make([]string, len(h.node.values))
	for i, v := range h.node.values {
		names[i] = v.name
	}
	return names, nil
}

// Value returns an absent payload for names the key does not hold.
func (h *keyHandle) Value(name string) (types.Payload, error) {
	if h.closed {
		return types.Payload{}, errClosed
	}
	for _, v := range h.node.values {
		if strings.EqualFold(v.name, name) {
			return v.value, nil
		}
	}
	return types.Absent(), nil
}

func (h *keyHandle) SubkeyNames() ([]string, error) {
	if h.closed {
		return nil, errClosed
	}
	names := make([]string, len(h.node.children))
	for i, c := range h.node.children {
		names[i] = c.name
	}
	return names, nil
}

func (h *keyHandle) OpenSubkey(path string) (types.Key, error) {
	if h.closed {
		return nil, errClosed
	}
	node := h.node
	for _, part := range splitPath(path) {
		node = node.child(part)
		if node == nil {
			return nil, types.ErrNotFound.Wrap(fmt.Errorf("subkey %q", path))
		}
	}
	return &keyHandle{node: node}, nil
}

func (h *keyHandle) Close() error {
	if h.closed {
		return errClosed
	}
	h.closed = true
	return nil
}

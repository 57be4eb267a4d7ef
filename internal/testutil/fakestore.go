package testutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joshuapare/regjson/pkg/types"
)

// ErrAccessDenied is returned by fake keys marked Denied.
var ErrAccessDenied = errors.New("access is denied")

// FakeKey is one node of a scripted registry tree.
//
// Build trees with K, With and Add:
//
//	root := testutil.K("Test").
//	    With("Name", types.TextPayload(types.REG_SZ, "abc")).
//	    Add(testutil.K("Sub").With("Count", types.IntPayload(types.REG_DWORD, 5)))
type FakeKey struct {
	Name     string
	Values   []FakeValue
	Subkeys  []*FakeKey
	Denied   bool  // OpenSubkey on this key fails
	NilOpen  bool  // OpenSubkey on this key returns (nil, nil)
	ValueErr error // ValueNames fails
	KeysErr  error // SubkeyNames fails
}

// FakeValue is a scripted value. A non-nil Err makes Value fail.
type FakeValue struct {
	Name    string
	Payload types.Payload
	Err     error
}

// K creates an empty fake key.
func K(name string) *FakeKey {
	return &FakeKey{Name: name}
}

// With appends a value and returns k.
func (k *FakeKey) With(name string, p types.Payload) *FakeKey {
	k.Values = append(k.Values, FakeValue{Name: name, Payload: p})
	return k
}

// WithBroken appends a value whose read fails with err.
func (k *FakeKey) WithBroken(name string, err error) *FakeKey {
	k.Values = append(k.Values, FakeValue{Name: name, Err: err})
	return k
}

// Add appends child keys and returns k.
func (k *FakeKey) Add(children ...*FakeKey) *FakeKey {
	k.Subkeys = append(k.Subkeys, children...)
	return k
}

// Deny marks k as unopenable and returns it.
func (k *FakeKey) Deny() *FakeKey {
	k.Denied = true
	return k
}

func (k *FakeKey) child(name string) *FakeKey {
	for _, c := range k.Subkeys {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// FakeStore serves FakeKey trees as a types.Store and counts handle
// opens and closes.
type FakeStore struct {
	Roots map[types.RootKey]*FakeKey

	opens  int
	closes int
}

// NewFakeStore creates a store with no roots.
func NewFakeStore() *FakeStore {
	return &FakeStore{Roots: make(map[types.RootKey]*FakeKey)}
}

// SetRoot installs the tree for root and returns it.
func (s *FakeStore) SetRoot(root types.RootKey, k *FakeKey) *FakeKey {
	s.Roots[root] = k
	return k
}

// Opens returns the number of handles handed out.
func (s *FakeStore) Opens() int { return s.opens }

// Closes returns the number of handles released.
func (s *FakeStore) Closes() int { return s.closes }

// Leaked returns the number of handles still open.
func (s *FakeStore) Leaked() int { return s.opens - s.closes }

// OpenRoot implements types.Store.
func (s *FakeStore) OpenRoot(root types.RootKey) (types.Key, error) {
	k, ok := s.Roots[root]
	if !ok {
		return nil, types.ErrNotFound.Wrap(fmt.Errorf("root %s", root))
	}
	return s.handle(k), nil
}

func (s *FakeStore) handle(k *FakeKey) *FakeHandle {
	s.opens++
	return &FakeHandle{store: s, key: k}
}

// FakeHandle is an open FakeKey.
type FakeHandle struct {
	store  *FakeStore
	key    *FakeKey
	closed bool
}

// ValueNames implements types.Key.
func (h *FakeHandle) ValueNames() ([]string, error) {
	if h.key.ValueErr != nil {
		return nil, h.key.ValueErr
	}
	names := make([]string, 0, len(h.key.Values))
	for _, v := range h.key.Values {
		names = append(names, v.Name)
	}
	return names, nil
}

// Value implements types.Key.
func (h *FakeHandle) Value(name string) (types.Payload, error) {
	for _, v := range h.key.Values {
		if v.Name != name {
			continue
		}
		if v.Err != nil {
			return types.Payload{}, v.Err
		}
		return v.Payload, nil
	}
	return types.Absent(), nil
}

// SubkeyNames implements types.Key.
func (h *FakeHandle) SubkeyNames() ([]string, error) {
	if h.key.KeysErr != nil {
		return nil, h.key.KeysErr
	}
	names := make([]string, 0, len(h.key.Subkeys))
	for _, c := range h.key.Subkeys {
		names = append(names, c.Name)
	}
	return names, nil
}

// OpenSubkey implements types.Key.
func (h *FakeHandle) OpenSubkey(path string) (types.Key, error) {
	cur := h.key
	for _, part := range strings.Split(path, `\`) {
		if part == "" {
			continue
		}
		next := cur.child(part)
		if next == nil {
			return nil, types.ErrNotFound.Wrap(fmt.Errorf("key %q", path))
		}
		cur = next
	}
	if cur.Denied {
		return nil, ErrAccessDenied
	}
	if cur.NilOpen {
		return nil, nil
	}
	return h.store.handle(cur), nil
}

// Close implements types.Key.
func (h *FakeHandle) Close() error {
	if h.closed {
		return fmt.Errorf("handle %q closed twice", h.key.Name)
	}
	h.closed = true
	h.store.closes++
	return nil
}

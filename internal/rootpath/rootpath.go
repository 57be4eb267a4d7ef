// Package rootpath resolves user-supplied registry paths such as
// `Computer\HKEY_LOCAL_MACHINE\System` to a root key and a subpath.
package rootpath

import (
	"fmt"
	"strings"

	"github.com/joshuapare/regjson/pkg/types"
)

const (
	separator  = `\`
	hkeyPrefix = "HKEY_"
)

// Path is a parsed registry path.
type Path struct {
	Root    types.RootKey
	Subpath string // backslash-delimited, relative to Root; "" for the root itself
}

func (p Path) String() string {
	if p.Subpath == "" {
		return p.Root.String()
	}
	return p.Root.String() + separator + p.Subpath
}

// Parse finds the first segment naming a root key and returns it together
// with everything after it.
//
// Matching is case-insensitive. Anything before the root segment is
// discarded, including text glued to the front of "HKEY_" within the same
// segment. The abbreviations HKCR, HKCU, HKLM, HKU and HKCC are accepted
// when they make up a whole segment.
//
// Example:
//
//	p, _ := rootpath.Parse(`C:\garbage\HKEY_LOCAL_MACHINE\System`)
//	// p.Root == types.LocalMachine, p.Subpath == "System"
func Parse(s string) (Path, error) {
	segments := strings.Split(s, separator)
	for i, seg := range segments {
		root, ok := matchSegment(seg)
		if !ok {
			continue
		}
		rest := make([]string, 0, len(segments)-i-1)
		for _, part := range segments[i+1:] {
			if part != "" {
				rest = append(rest, part)
			}
		}
		return Path{Root: root, Subpath: strings.Join(rest, separator)}, nil
	}
	return Path{}, types.ErrNoRoot.Wrap(fmt.Errorf("%q", s))
}

func matchSegment(seg string) (types.RootKey, bool) {
	seg = strings.TrimSpace(seg)
	for _, r := range types.Roots {
		if strings.EqualFold(seg, r.String()) || strings.EqualFold(seg, r.Short()) {
			return r, true
		}
	}
	idx := strings.Index(strings.ToUpper(seg), hkeyPrefix)
	if idx <= 0 {
		return types.RootUnknown, false
	}
	tail := seg[idx:]
	for _, r := range types.Roots {
		if strings.EqualFold(tail, r.String()) {
			return r, true
		}
	}
	return types.RootUnknown, false
}

// Open parses s and opens the key it names. The caller must Close the
// returned key.
func Open(store types.Store, s string) (types.Key, error) {
	p, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return OpenPath(store, p)
}

// OpenPath opens the key named by p. The caller must Close the returned key.
func OpenPath(store types.Store, p Path) (types.Key, error) {
	root, err := store.OpenRoot(p.Root)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", p.Root, err)
	}
	if root == nil {
		return nil, types.ErrNotFound.Wrap(fmt.Errorf("root %s", p.Root))
	}
	if p.Subpath == "" {
		return root, nil
	}
	defer root.Close()

	key, err := root.OpenSubkey(p.Subpath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", p, err)
	}
	if key == nil {
		return nil, types.ErrNotFound.Wrap(fmt.Errorf("key %s", p))
	}
	return key, nil
}

//go:build windows

package winreg

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"golang.org/x/sys/windows/registry"

	"github.com/joshuapare/regjson/internal/rawvalue"
	"github.com/joshuapare/regjson/pkg/types"
)

// maxValueReadAttempts bounds the retries when a value grows between the
// size query and the read.
const maxValueReadAttempts = 4

var predefined = map[types.RootKey]registry.Key{
	types.ClassesRoot:   registry.CLASSES_ROOT,
	types.CurrentUser:   registry.CURRENT_USER,
	types.LocalMachine:  registry.LOCAL_MACHINE,
	types.Users:         registry.USERS,
	types.CurrentConfig: registry.CURRENT_CONFIG,
}

// Open returns the live registry of this machine.
func Open() (*Store, error) {
	return &Store{}, nil
}

// OpenRoot returns a handle on one of the predefined keys. Predefined keys
// are never closed; Close on the handle only marks it released.
func (s *Store) OpenRoot(root types.RootKey) (types.Key, error) {
	k, ok := predefined[root]
	if !ok {
		return nil, types.ErrNotFound.Wrap(fmt.Errorf("root %s", root))
	}
	return &key{k: k, name: root.String(), predefined: true}, nil
}

type key struct {
	k          registry.Key
	name       string
	predefined bool
	closed     bool
}

func (h *key) ValueNames() ([]string, error) {
	return h.k.ReadValueNames(0)
}

func (h *key) SubkeyNames() ([]string, error) {
	return h.k.ReadSubKeyNames(0)
}

// Value reads the raw data of name and decodes it. A value deleted since
// enumeration yields an absent payload.
func (h *key) Value(name string) (types.Payload, error) {
	size, typ, err := h.k.GetValue(name, nil)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return types.Absent(), nil
		}
		return types.Payload{}, fmt.Errorf("winreg: %s\\%s: %w", h.name, name, err)
	}

	var buf []byte
	for attempt := 0; ; attempt++ {
		buf = make([]byte, size)
		size, typ, err = h.k.GetValue(name, buf)
		if err == nil {
			buf = buf[:size]
			break
		}
		if errors.Is(err, registry.ErrNotExist) {
			return types.Absent(), nil
		}
		if !errors.Is(err, syscall.ERROR_MORE_DATA) || attempt+1 >= maxValueReadAttempts {
			return types.Payload{}, fmt.Errorf("winreg: %s\\%s: %w", h.name, name, err)
		}
	}

	p := rawvalue.Decode(types.RegType(typ), buf)
	if typ == registry.EXPAND_SZ {
		if expanded, err := registry.ExpandString(p.Text); err == nil {
			p.Text = expanded
		}
	}
	return p, nil
}

func (h *key) OpenSubkey(path string) (types.Key, error) {
	path = strings.Trim(path, `\`)
	k, err := registry.OpenKey(h.k, path, registry.READ)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil, types.ErrNotFound.Wrap(fmt.Errorf("%s\\%s: %w", h.name, path, err))
		}
		return nil, fmt.Errorf("winreg: open %s\\%s: %w", h.name, path, err)
	}
	return &key{k: k, name: h.name + `\` + path}, nil
}

func (h *key) Close() error {
	if h.closed {
		return fmt.Errorf("winreg: %s already closed", h.name)
	}
	h.closed = true
	if h.predefined {
		return nil
	}
	return h.k.Close()
}

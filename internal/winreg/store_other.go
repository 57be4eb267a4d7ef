//go:build !windows

package winreg

import (
	"errors"
	"runtime"

	"github.com/joshuapare/regjson/pkg/types"
)

// Open fails on this platform.
func Open() (*Store, error) {
	return nil, types.ErrUnsupported.Wrap(errors.New("live registry requires windows, running on " + runtime.GOOS))
}

// OpenRoot fails on this platform.
func (s *Store) OpenRoot(types.RootKey) (types.Key, error) {
	return nil, types.ErrUnsupported.Wrap(errors.New("live registry requires windows"))
}

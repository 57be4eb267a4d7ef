// Package winreg exposes the live Windows registry as a types.Store.
//
// Keys are opened read-only. On platforms other than Windows, Open
// returns types.ErrUnsupported; use an offline .reg file instead.
package winreg

import "github.com/joshuapare/regjson/pkg/types"

// Store is the registry of the running machine.
type Store struct{}

var _ types.Store = (*Store)(nil)

package types

import (
	"fmt"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindFormat      ErrKind = iota // malformed input (e.g., bad .reg header)
	ErrKindUnsupported                // valid feature we don't support (yet)
	ErrKindNotFound                   // missing key/value/path/root
	ErrKindState                      // invariant violated by the store or caller
)

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind and message, so a wrapped copy of a
// sentinel (same Kind and Msg, extra cause) still satisfies errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind && e.Msg == t.Msg
}

// Wrap returns a copy of the sentinel carrying cause.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Msg: e.Msg, Err: cause}
}

// Sentinels commonly returned by implementations.
var (
	// ErrNotFound indicates a missing key/value/path.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrNoRoot indicates a path that names none of the predefined root keys.
	ErrNoRoot = &Error{Kind: ErrKindNotFound, Msg: "no registry root key in path"}
	// ErrUnsupported indicates a recognized but unsupported feature/variant.
	ErrUnsupported = &Error{Kind: ErrKindUnsupported, Msg: "unsupported"}
	// ErrFormat indicates input that cannot be parsed.
	ErrFormat = &Error{Kind: ErrKindFormat, Msg: "malformed input"}
	// ErrDuplicateName indicates a store that reported the same name twice
	// under one key.
	ErrDuplicateName = &Error{Kind: ErrKindState, Msg: "duplicate entry name"}
)

// -----------------------------------------------------------------------------
// Registry value types
// -----------------------------------------------------------------------------

// RegType enumerates Windows registry value types commonly encountered.
// (The numbers align with Windows definitions.)
type RegType uint32

const (
	REG_NONE                       RegType = 0
	REG_SZ                         RegType = 1
	REG_EXPAND_SZ                  RegType = 2
	REG_BINARY                     RegType = 3
	REG_DWORD                      RegType = 4
	REG_DWORD_LE                   RegType = 4 // alias for clarity
	REG_DWORD_BE                   RegType = 5
	REG_LINK                       RegType = 6
	REG_MULTI_SZ                   RegType = 7
	REG_RESOURCE_LIST              RegType = 8
	REG_FULL_RESOURCE_DESCRIPTOR   RegType = 9
	REG_RESOURCE_REQUIREMENTS_LIST RegType = 10
	REG_QWORD                      RegType = 11
)

// String implements the Stringer interface for RegType
func (t RegType) String() string {
	switch t {
	case REG_NONE:
		return "REG_NONE"
	case REG_SZ:
		return "REG_SZ"
	case REG_EXPAND_SZ:
		return "REG_EXPAND_SZ"
	case REG_BINARY:
		return "REG_BINARY"
	case REG_DWORD:
		return "REG_DWORD"
	case REG_DWORD_BE:
		return "REG_DWORD_BE"
	case REG_LINK:
		return "REG_LINK"
	case REG_MULTI_SZ:
		return "REG_MULTI_SZ"
	case REG_RESOURCE_LIST:
		return "REG_RESOURCE_LIST"
	case REG_FULL_RESOURCE_DESCRIPTOR:
		return "REG_FULL_RESOURCE_DESCRIPTOR"
	case REG_RESOURCE_REQUIREMENTS_LIST:
		return "REG_RESOURCE_REQUIREMENTS_LIST"
	case REG_QWORD:
		return "REG_QWORD"
	default:
		return fmt.Sprintf("UNKNOWN_TYPE_%d", int32(t))
	}
}

// -----------------------------------------------------------------------------
// Store access
// -----------------------------------------------------------------------------

// Key is a borrowed handle to one node of a registry store.
//
// Enumeration order is whatever the store reports; callers must not rely
// on it being stable between calls. Every Key obtained from OpenSubkey or
// Store.OpenRoot must be released with Close.
type Key interface {
	// ValueNames lists the names of the values directly under this key.
	// The default (unnamed) value is reported as "".
	ValueNames() ([]string, error)

	// Value reads one value. A value that disappeared since enumeration
	// is reported as an absent payload, not an error.
	Value(name string) (Payload, error)

	// SubkeyNames lists the names of the direct child keys.
	SubkeyNames() ([]string, error)

	// OpenSubkey opens a descendant by backslash-delimited relative path.
	// An empty path opens another handle to the same key.
	OpenSubkey(path string) (Key, error)

	// Close releases the handle.
	Close() error
}

// Store resolves predefined root keys.
type Store interface {
	OpenRoot(root RootKey) (Key, error)
}

// RootKey identifies one of the predefined top-level registry keys.
type RootKey int

const (
	RootUnknown RootKey = iota
	ClassesRoot
	CurrentUser
	LocalMachine
	Users
	CurrentConfig
)

// Canonical root key names.
const (
	HKEYClassesRoot   = "HKEY_CLASSES_ROOT"
	HKEYCurrentUser   = "HKEY_CURRENT_USER"
	HKEYLocalMachine  = "HKEY_LOCAL_MACHINE"
	HKEYUsers         = "HKEY_USERS"
	HKEYCurrentConfig = "HKEY_CURRENT_CONFIG"
)

// Roots lists the predefined root keys in declaration order.
var Roots = []RootKey{ClassesRoot, CurrentUser, LocalMachine, Users, CurrentConfig}

func (r RootKey) String() string {
	switch r {
	case ClassesRoot:
		return HKEYClassesRoot
	case CurrentUser:
		return HKEYCurrentUser
	case LocalMachine:
		return HKEYLocalMachine
	case Users:
		return HKEYUsers
	case CurrentConfig:
		return HKEYCurrentConfig
	default:
		return fmt.Sprintf("RootKey(%d)", int(r))
	}
}

// Short returns the conventional abbreviation (HKLM, HKCU, ...).
func (r RootKey) Short() string {
	switch r {
	case ClassesRoot:
		return "HKCR"
	case CurrentUser:
		return "HKCU"
	case LocalMachine:
		return "HKLM"
	case Users:
		return "HKU"
	case CurrentConfig:
		return "HKCC"
	default:
		return ""
	}
}

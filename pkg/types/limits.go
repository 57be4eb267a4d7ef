package types

// ============================================================================
// Windows Registry Limits Constants
// ============================================================================
// Windows rejects names and paths beyond these limits, so input that
// exceeds them cannot have come from a real registry.

const (
	// WindowsMaxKeyNameLen is the hard limit for registry key names
	// in Windows (measured in characters, not bytes).
	WindowsMaxKeyNameLen = 255

	// WindowsMaxValueNameLen is the hard limit for registry value names
	// in Windows (measured in characters, not bytes).
	WindowsMaxValueNameLen = 16383

	// WindowsMaxTreeDepth is the deepest key nesting Windows allows.
	WindowsMaxTreeDepth = 512
)

// Limits bounds the names and nesting an offline source accepts.
// A zero field disables that check.
type Limits struct {
	// MaxKeyNameLen is the maximum length of one key path segment in characters.
	MaxKeyNameLen int

	// MaxValueNameLen is the maximum length of a value name in characters.
	MaxValueNameLen int

	// MaxTreeDepth is the maximum number of key levels below a root.
	MaxTreeDepth int
}

// DefaultLimits returns the Windows registry limits.
func DefaultLimits() Limits {
	return Limits{
		MaxKeyNameLen:   WindowsMaxKeyNameLen,
		MaxValueNameLen: WindowsMaxValueNameLen,
		MaxTreeDepth:    WindowsMaxTreeDepth,
	}
}

// NoLimits disables every check.
func NoLimits() Limits { return Limits{} }

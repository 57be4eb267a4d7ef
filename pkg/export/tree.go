package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshuapare/regjson/internal/logger"
	"github.com/joshuapare/regjson/pkg/types"
)

// Options controls a tree export.
type Options struct {
	// MaxDepth limits how many levels of child keys are descended
	// (0 = unlimited). The starting key is depth 0.
	MaxDepth int

	// Logger receives per-entry diagnostics. Default: logger.L
	Logger *slog.Logger
}

// Stats summarizes the last export.
type Stats struct {
	Keys          int // keys exported, including the starting key
	Values        int // values exported
	SkippedKeys   int // child keys that could not be opened
	SkippedValues int // values that could not be read
}

// Exporter walks a key and everything beneath it into a Node.
//
// An Exporter is not safe for concurrent use; Stats belongs to the most
// recent Export call.
type Exporter struct {
	opts  Options
	log   *slog.Logger
	stats Stats
}

// New creates an Exporter.
func New(opts Options) *Exporter {
	l := opts.Logger
	if l == nil {
		l = logger.L
	}
	return &Exporter{opts: opts, log: l}
}

// Tree exports key with default options.
func Tree(ctx context.Context, key types.Key) (*Node, error) {
	return New(Options{}).Export(ctx, key)
}

// Stats returns counters for the most recent Export.
func (e *Exporter) Stats() Stats { return e.stats }

// Export builds the node for key and all of its descendants.
//
// Values that cannot be read and child keys that cannot be opened are left
// out; their siblings and parents are still exported. Enumeration failures
// count as an empty list. The caller keeps ownership of key; every handle
// opened during the walk is closed before Export returns.
//
// Only two conditions abort the export: ctx being cancelled, and the store
// reporting the same name twice under one key (ErrDuplicateName).
func (e *Exporter) Export(ctx context.Context, key types.Key) (*Node, error) {
	e.stats = Stats{}
	return e.exportKey(ctx, key, "", 0)
}

func (e *Exporter) exportKey(ctx context.Context, key types.Key, path string, depth int) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.stats.Keys++
	node := NewNode()

	valueNames, err := key.ValueNames()
	if err != nil {
		e.log.Debug("enumerate values failed", "key", path, "error", err)
		valueNames = nil
	}
	for _, name := range valueNames {
		payload, readErr := key.Value(name)
		if readErr != nil {
			e.stats.SkippedValues++
			e.log.Debug("read value failed", "key", path, "value", name, "error", readErr)
			continue
		}
		if setErr := node.Set(name, Normalize(payload)); setErr != nil {
			return nil, fmt.Errorf("key %q: value: %w", path, setErr)
		}
		e.stats.Values++
	}

	if e.opts.MaxDepth > 0 && depth >= e.opts.MaxDepth {
		return node, nil
	}

	subkeyNames, err := key.SubkeyNames()
	if err != nil {
		e.log.Debug("enumerate subkeys failed", "key", path, "error", err)
		subkeyNames = nil
	}
	for _, name := range subkeyNames {
		childPath := name
		if path != "" {
			childPath = path + "\\" + name
		}
		child, childErr := e.exportChild(ctx, key, name, childPath, depth+1)
		if childErr != nil {
			return nil, childErr
		}
		if child == nil {
			continue
		}
		if setErr := node.Set(name, child); setErr != nil {
			return nil, fmt.Errorf("key %q: subkey: %w", path, setErr)
		}
	}

	return node, nil
}

// exportChild opens one child, exports it and releases the handle on every
// path out. A nil node with a nil error means the child was skipped.
func (e *Exporter) exportChild(ctx context.Context, parent types.Key, name, path string, depth int) (*Node, error) {
	sub, err := parent.OpenSubkey(name)
	if err != nil || sub == nil {
		e.stats.SkippedKeys++
		e.log.Debug("open subkey failed", "key", path, "error", err)
		return nil, nil
	}
	defer func() {
		if closeErr := sub.Close(); closeErr != nil {
			e.log.Debug("close subkey failed", "key", path, "error", closeErr)
		}
	}()
	return e.exportKey(ctx, sub, path, depth)
}

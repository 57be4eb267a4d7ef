package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshuapare/regjson/internal/config"
	"github.com/joshuapare/regjson/internal/logger"
	"github.com/joshuapare/regjson/internal/regtext"
	"github.com/joshuapare/regjson/internal/rootpath"
	"github.com/joshuapare/regjson/internal/watch"
	"github.com/joshuapare/regjson/internal/winreg"
	"github.com/joshuapare/regjson/internal/writer"
	"github.com/joshuapare/regjson/pkg/export"
	"github.com/joshuapare/regjson/pkg/types"
)

// exporter performs one registry-to-file export per call.
type exporter struct {
	env  env
	cfg  *config.Config
	sink writer.Sink
	enc  export.EncodeOptions
}

func newExporter(e env, cfg *config.Config) *exporter {
	var sink writer.Sink
	if e.newSink != nil {
		sink = e.newSink(e.fs, cfg.OutputPath)
	} else {
		sink = writer.NewFileWriter(e.fs, cfg.OutputPath)
	}
	return &exporter{
		env:  e,
		cfg:  cfg,
		sink: sink,
		enc:  cfg.EncodeOptions(),
	}
}

func (x *exporter) openStore() (types.Store, error) {
	if x.cfg.FromReg == "" {
		store, err := winreg.Open()
		if err != nil {
			return nil, fmt.Errorf("%w (use --from-reg to read a .reg file)", err)
		}
		return store, nil
	}
	doc, err := regtext.Open(x.env.fs, x.cfg.FromReg)
	if err != nil {
		return nil, err
	}
	for _, w := range doc.Warnings {
		logger.Warn("skipped .reg section", "file", x.cfg.FromReg, "detail", w)
	}
	return doc, nil
}

// exportOnce writes the document for the configured key. Nothing is
// written when the key cannot be resolved.
func (x *exporter) exportOnce(ctx context.Context) error {
	store, err := x.openStore()
	if err != nil {
		return err
	}
	key, err := rootpath.Open(store, x.cfg.RegistryPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := key.Close(); closeErr != nil {
			logger.Debug("close key", "path", x.cfg.RegistryPath, "error", closeErr)
		}
	}()

	ex := export.New(export.Options{})
	tree, err := ex.Export(ctx, key)
	if err != nil {
		return err
	}
	data, err := export.Marshal(tree, x.enc)
	if err != nil {
		return err
	}
	if err := x.sink.Write(data); err != nil {
		return err
	}

	stats := ex.Stats()
	logger.Debug("exported",
		"path", x.cfg.RegistryPath,
		"output", x.cfg.OutputPath,
		"keys", stats.Keys,
		"values", stats.Values,
		"skipped_keys", stats.SkippedKeys,
		"skipped_values", stats.SkippedValues,
		"bytes", len(data),
	)
	return nil
}

func execute(ctx context.Context, e env, cfg *config.Config) error {
	x := newExporter(e, cfg)

	if !cfg.Watch {
		if err := x.exportOnce(ctx); err != nil {
			fmt.Fprintf(e.stderr, "An error occurred while exporting the registry: %v\n", err)
			return &exitCodeError{code: exitError, err: err}
		}
		if !cfg.Quiet {
			fmt.Fprintf(e.stdout, "Successfully exported the registry to %s\n", cfg.OutputPath)
		}
		return nil
	}

	logger.Info("watching", "path", cfg.RegistryPath, "output", cfg.OutputPath, "interval", cfg.Interval)
	loop := &watch.Loop{
		Cycle:    x.exportOnce,
		Interval: cfg.Interval,
		Clock:    e.clock,
	}
	res, err := loop.Run(ctx)
	logger.Info("stopped watching", "cycles", res.Cycles, "failed", res.Failed)
	if err != nil && !errors.Is(err, context.Canceled) {
		return &exitCodeError{code: exitError, err: err}
	}
	return nil
}

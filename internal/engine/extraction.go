package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/shaderpatch/shaderpatch/internal/cli/config"
	"github.com/shaderpatch/shaderpatch/internal/extract"
	"github.com/shaderpatch/shaderpatch/internal/inject"
	"github.com/shaderpatch/shaderpatch/internal/pipeline"
)

// Extraction is a feature module that copies a function out of a patched
// shader file into the generated-value store, so other shaders can pull it in
// with "#generated <key>".
type Extraction struct {
	// File is the source shader, relative to the shader directory.
	File string
	// Function is the name of the function to extract.
	Function string
	// Key is the generated-value store key written.
	Key string

	dir    string
	store  *inject.Store
	logger *zap.Logger
}

func newExtraction(ec config.ExtractConfig, dir string, store *inject.Store, logger *zap.Logger) *Extraction {
	return &Extraction{
		File:     ec.File,
		Function: ec.Function,
		Key:      ec.Key,
		dir:      dir,
		store:    store,
		logger:   logger,
	}
}

// OnReload is registered as a pipeline reload listener. It runs after the
// patch list has been repopulated, so the extracted text reflects the
// current patches. A function that can no longer be found removes the key,
// which turns every consumer into a missing-key error instead of stale code.
func (x *Extraction) OnReload(p *pipeline.Pipeline) error {
	data, err := os.ReadFile(filepath.Join(x.dir, filepath.FromSlash(x.File)))
	if err != nil {
		return fmt.Errorf("extract %s from %s: %w", x.Function, x.File, err)
	}

	patched, err := p.Patch(x.File, string(data), true)
	if err != nil {
		return fmt.Errorf("extract %s from %s: %w", x.Function, x.File, err)
	}

	text, found, err := extract.Extract(patched, x.Function)
	if err != nil {
		return fmt.Errorf("extract %s from %s: %w", x.Function, x.File, err)
	}
	if !found {
		x.logger.Warn("function not found, generated value removed",
			zap.String("file", x.File),
			zap.String("function", x.Function),
			zap.String("key", x.Key),
		)
		x.store.Delete(x.Key)
		return nil
	}

	x.store.Set(x.Key, text)
	x.logger.Debug("extracted function",
		zap.String("file", x.File),
		zap.String("function", x.Function),
		zap.String("key", x.Key),
	)
	return nil
}

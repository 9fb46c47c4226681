// Package engine wires the patch pipeline, the directive injector and the
// project configuration into the single object the CLI drives.
//
// Shader names handed to an Engine are relative to the configured shader
// directory and use forward slashes, e.g. "post/bloom.frag". The same name is
// what patch targets are matched against.
package engine

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/shaderpatch/shaderpatch/internal/assets"
	"github.com/shaderpatch/shaderpatch/internal/cli/config"
	perrors "github.com/shaderpatch/shaderpatch/internal/errors"
	"github.com/shaderpatch/shaderpatch/internal/inject"
	"github.com/shaderpatch/shaderpatch/internal/patchlist"
	"github.com/shaderpatch/shaderpatch/internal/pipeline"
	"github.com/shaderpatch/shaderpatch/internal/utils"
)

// Engine owns one pipeline and one injector built from a Config.
//
// Thread Safety: Engine is NOT thread-safe. Reload, ApplyConfig and Load must
// be called from one goroutine.
type Engine struct {
	cfg         *config.Config
	assets      assets.Store
	store       *inject.Store
	pipeline    *pipeline.Pipeline
	injector    *inject.Injector
	extractions []*Extraction
	loaded      bool
	logger      *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger handed to every component
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithAssets replaces the snippet directory with the given asset store
func WithAssets(store assets.Store) Option {
	return func(e *Engine) {
		e.assets = store
	}
}

// New creates an engine for cfg. Patches are not read until the first Reload
// or Load.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg,
		store:  inject.NewStore(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.assets == nil {
		e.assets = assets.NewDirStore(cfg.Snippets.Dir, cfg.Snippets.Extension)
	}

	e.pipeline = pipeline.New(&patchlist.FileSource{
		Path:   cfg.Patches.File,
		Assets: e.assets,
		Logger: e.logger,
	}, pipeline.WithLogger(e.logger))

	// Generated values from the config are re-seeded first on every reload so
	// extraction producers can overwrite them.
	e.pipeline.OnReload(func(*pipeline.Pipeline) error {
		e.seed()
		return nil
	})
	for _, ec := range cfg.Extract {
		x := newExtraction(ec, cfg.Shaders.Dir, e.store, e.logger)
		e.extractions = append(e.extractions, x)
		e.pipeline.OnReload(x.OnReload)
	}

	e.buildInjector()
	return e, nil
}

// Config returns the active configuration
func (e *Engine) Config() *config.Config { return e.cfg }

// Pipeline returns the patch pipeline
func (e *Engine) Pipeline() *pipeline.Pipeline { return e.pipeline }

// Injector returns the directive injector
func (e *Engine) Injector() *inject.Injector { return e.injector }

// Store returns the generated-value store
func (e *Engine) Store() *inject.Store { return e.store }

// Extractions returns the function-extraction producers in registration order
func (e *Engine) Extractions() []*Extraction { return e.extractions }

// Reload re-reads the patch list and re-runs every producer. Producers always
// run before the next Load reads the store.
func (e *Engine) Reload() error {
	if err := e.pipeline.Reload(); err != nil {
		return err
	}
	e.loaded = true
	e.logger.Info("patches loaded",
		zap.Int("patches", e.pipeline.Len()),
		zap.Int("generated", e.store.Len()),
	)
	return nil
}

// ApplyConfig swaps in new define values. The set of defines, the patch list
// location and the producers are fixed at construction; changing those needs
// a new Engine.
func (e *Engine) ApplyConfig(cfg *config.Config) error {
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if len(cfg.Defines) != len(e.cfg.Defines) {
		return perrors.NewInvalidConfig("the set of defines changed; restart to apply")
	}
	for i, d := range cfg.Defines {
		if d.Name != e.cfg.Defines[i].Name || d.Type != e.cfg.Defines[i].Type {
			return perrors.NewInvalidConfig(fmt.Sprintf("define %s changed name or type; restart to apply", d.Name))
		}
	}

	for key := range e.cfg.Generated {
		if _, ok := cfg.Generated[key]; !ok {
			e.store.Delete(key)
		}
	}
	e.cfg.Defines = cfg.Defines
	e.cfg.Generated = cfg.Generated
	e.seed()
	return nil
}

// SetDefine changes the value of one define. The new value is used by the
// next Load.
func (e *Engine) SetDefine(name, value string) error {
	for i := range e.cfg.Defines {
		if e.cfg.Defines[i].Name != name {
			continue
		}
		d := e.cfg.Defines[i]
		if kind, _ := d.Kind(); kind == inject.KindStatic {
			return perrors.NewInvalidConfig(fmt.Sprintf("define %s is static", name))
		}
		d.Value = value
		if err := config.Validate(&config.Config{Defines: []config.DefineConfig{d}}); err != nil {
			return err
		}
		e.cfg.Defines[i] = d
		return nil
	}
	return perrors.NewInvalidConfig(fmt.Sprintf("unknown define %q", name))
}

// Source reads the unmodified text of a shader
func (e *Engine) Source(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(e.cfg.Shaders.Dir, filepath.FromSlash(name)))
	if err != nil {
		return "", perrors.NewSourceUnreadable(name, err)
	}
	return string(data), nil
}

// Patched runs the pipeline over a shader without resolving directives
func (e *Engine) Patched(name string) (string, error) {
	if err := e.ensureLoaded(); err != nil {
		return "", err
	}
	code, err := e.Source(name)
	if err != nil {
		return "", err
	}
	return e.pipeline.Patch(name, code, false)
}

// Load reads, patches and injects one shader stage.
func (e *Engine) Load(name string) (*inject.StageSource, error) {
	stage, ok := inject.StageFromFilename(name)
	if !ok {
		return nil, fmt.Errorf("%s: unknown shader stage", name)
	}
	if err := e.ensureLoaded(); err != nil {
		return nil, err
	}

	code, err := e.Source(name)
	if err != nil {
		return nil, err
	}

	patched, err := e.pipeline.Patch(name, code, true)
	if err != nil {
		return nil, perrors.Wrap(err, perrors.CategoryPatch, name)
	}

	pass := name[:len(name)-len(path.Ext(name))]
	return e.injector.OnShaderLoaded(pass, stage, patched)
}

// Invalidate drops the cached patch result of one shader
func (e *Engine) Invalidate(name string) {
	e.pipeline.Invalidate(name)
}

// BuildResult summarizes a Build
type BuildResult struct {
	Written []string
	Skipped []string
	Errors  perrors.ErrorList
}

// Build processes the named shaders, or every shader stage under the shader
// directory when names is empty, and writes the combined source to outDir.
// A failing shader does not stop the others; its error is collected.
func (e *Engine) Build(outDir string, names ...string) (*BuildResult, error) {
	if len(names) == 0 {
		files, err := utils.FindShaderFiles(e.cfg.Shaders.Dir, e.cfg.IsShader)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", e.cfg.Shaders.Dir, err)
		}
		names = files
	}

	if err := e.ensureLoaded(); err != nil {
		return nil, err
	}

	result := &BuildResult{}
	for _, name := range names {
		if _, ok := inject.StageFromFilename(name); !ok {
			result.Skipped = append(result.Skipped, name)
			continue
		}

		ss, err := e.Load(name)
		if err != nil {
			result.Errors = append(result.Errors, perrors.Wrap(err, perrors.CategoryIO, name))
			continue
		}

		out := filepath.Join(outDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return result, err
		}
		if err := os.WriteFile(out, []byte(ss.Combined()), 0644); err != nil {
			return result, err
		}
		result.Written = append(result.Written, name)
		e.logger.Debug("wrote shader", zap.String("path", out))
	}

	return result, result.Errors.ErrOrNil()
}

func (e *Engine) ensureLoaded() error {
	if e.loaded {
		return nil
	}
	return e.Reload()
}

func (e *Engine) seed() {
	for key, value := range e.cfg.Generated {
		e.store.Set(key, value)
	}
}

func (e *Engine) buildInjector() {
	opts := []inject.Option{inject.WithLogger(e.logger)}
	if e.cfg.Debug.Enabled {
		opts = append(opts, inject.WithDebugDir(e.cfg.Debug.Dir))
	}
	e.injector = inject.New(e.store, e.assets, opts...)

	for _, d := range e.cfg.Defines {
		e.injector.RegisterProperty(e.property(d))
	}
}

// property turns a define into a value property whose generator looks the
// value up in the current config on every call.
func (e *Engine) property(d config.DefineConfig) inject.Property {
	name := d.Name
	current := func() config.DefineConfig {
		cur, _ := e.cfg.DefineByName(name)
		return cur
	}

	kind, _ := d.Kind()
	switch kind {
	case inject.KindBool:
		return inject.Bool(name, func() bool {
			v, _ := current().Bool()
			return v
		})
	case inject.KindInt:
		return inject.Int(name, func() int {
			v, _ := current().Int()
			return v
		})
	case inject.KindFloat:
		return inject.Float(name, func() float64 {
			v, _ := current().Float()
			return v
		})
	default:
		return inject.Static(name, d.Value)
	}
}

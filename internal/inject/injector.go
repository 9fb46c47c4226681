// Package inject prefixes shader stages with #define lines computed from
// registered properties and resolves the #generated and #snippet directives
// embedded in shader source.
//
// Directives occupy a whole line:
//
//	#generated <key>   replaced by the Store value for key (missing key is an error)
//	#snippet <name>    replaced by the text of the named asset
//
// Both are matched case-insensitively and may have whitespace after the '#'.
// A trailing // or /* comment is allowed and dropped with the directive; any
// other text after the argument fails with INJ002. The line ending is kept.
package inject

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/shaderpatch/shaderpatch/internal/assets"
	perrors "github.com/shaderpatch/shaderpatch/internal/errors"
	"github.com/shaderpatch/shaderpatch/internal/patch"
)

var errNoAssetStore = errors.New("no asset store configured")

var (
	generatedDirective = regexp.MustCompile(`(?im)^[^\S\r\n]*#[^\S\r\n]*generated[^\S\r\n]+(\S+)([^\r\n]*)`)
	snippetDirective   = regexp.MustCompile(`(?im)^[^\S\r\n]*#[^\S\r\n]*snippet[^\S\r\n]+(\S+)([^\r\n]*)`)
)

// StageSource is a loaded shader stage. The define prefix is kept apart from
// the body so line numbers in compiler diagnostics match the body as written.
type StageSource struct {
	Pass   string
	Stage  Stage
	Prefix string
	Body   string
}

// Combined returns the source handed to the compiler: the body with the
// prefix inserted after its #version / #extension header.
func (s *StageSource) Combined() string {
	if s.Prefix == "" {
		return s.Body
	}
	return patch.InsertAfterHeader(s.Body, strings.TrimSuffix(s.Prefix, "\n"))
}

// Filename returns the pass name with the stage extension, e.g. "bloom.frag"
func (s *StageSource) Filename() string {
	return s.Pass + s.Stage.Extension()
}

// Injector holds the registered properties and the generated-value store.
//
// Thread Safety: Injector is NOT thread-safe. Property registration and store
// writes must be serialized with OnShaderLoaded.
type Injector struct {
	properties []Property
	store      *Store
	assets     assets.Store
	debugDir   string
	logger     *zap.Logger
}

// Option configures an Injector
type Option func(*Injector)

// WithLogger sets the logger used for debug output
func WithLogger(logger *zap.Logger) Option {
	return func(i *Injector) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithDebugDir enables writing every resolved stage to dir
func WithDebugDir(dir string) Option {
	return func(i *Injector) {
		i.debugDir = dir
	}
}

// New creates an injector reading generated values from store and snippets
// from assets. A nil store gets a fresh empty one; a nil asset store makes
// every #snippet directive fail.
func New(store *Store, assetStore assets.Store, opts ...Option) *Injector {
	if store == nil {
		store = NewStore()
	}
	i := &Injector{
		store:  store,
		assets: assetStore,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// RegisterProperty appends a property. Properties are emitted in registration order.
func (i *Injector) RegisterProperty(p Property) {
	i.properties = append(i.properties, p)
}

// Properties returns a copy of the registered properties
func (i *Injector) Properties() []Property {
	out := make([]Property, len(i.properties))
	copy(out, i.properties)
	return out
}

// Store returns the generated-value store
func (i *Injector) Store() *Store {
	return i.store
}

// Defines renders every property as a #define line using current values
func (i *Injector) Defines() string {
	var b strings.Builder
	for _, p := range i.properties {
		b.WriteString(p.Define())
		b.WriteByte('\n')
	}
	return b.String()
}

// Resolve substitutes #generated directives, then #snippet directives.
// Each is a single pass; substituted text is not rescanned by the same pass.
func (i *Injector) Resolve(source string) (string, error) {
	out, err := replaceDirective(generatedDirective, source, func(key string) (string, error) {
		v, ok := i.store.Get(key)
		if !ok {
			return "", perrors.NewMissingGeneratedKey(key)
		}
		i.logger.Debug("resolved generated value", zap.String("key", key))
		return v, nil
	})
	if err != nil {
		return "", err
	}

	return replaceDirective(snippetDirective, out, func(name string) (string, error) {
		if i.assets == nil {
			return "", perrors.NewAssetMissing(name, errNoAssetStore)
		}
		text, err := i.assets.Load(name)
		if err != nil {
			var ee *perrors.EngineError
			if !errors.As(err, &ee) {
				err = perrors.NewAssetMissing(name, err)
			}
			return "", err
		}
		i.logger.Debug("resolved snippet", zap.String("name", name))
		return text, nil
	})
}

// OnShaderLoaded resolves directives in the (already patched) stage source and
// pairs the body with the current define prefix. In debug mode the combined
// source is also written to <debug dir>/<pass><stage extension>; a failed
// write is logged and otherwise ignored.
func (i *Injector) OnShaderLoaded(pass string, stage Stage, source string) (*StageSource, error) {
	body, err := i.Resolve(source)
	if err != nil {
		return nil, perrors.Wrap(err, perrors.CategoryInject, pass+stage.Extension())
	}

	ss := &StageSource{
		Pass:   pass,
		Stage:  stage,
		Prefix: i.Defines(),
		Body:   body,
	}

	if i.debugDir != "" {
		i.writeDebug(ss)
	}
	return ss, nil
}

func (i *Injector) writeDebug(ss *StageSource) {
	path := filepath.Join(i.debugDir, ss.Filename())
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		i.logger.Warn("failed to create debug directory", zap.String("dir", filepath.Dir(path)), zap.Error(err))
		return
	}
	if err := os.WriteFile(path, []byte(ss.Combined()), 0644); err != nil {
		i.logger.Warn("failed to write debug shader", zap.String("path", path), zap.Error(err))
		return
	}
	i.logger.Debug("wrote debug shader", zap.String("path", path))
}

// replaceDirective replaces every line matching re with lookup(first capture).
// The first lookup error stops substitution and is returned.
func replaceDirective(re *regexp.Regexp, source string, lookup func(string) (string, error)) (string, error) {
	var firstErr error
	out := re.ReplaceAllStringFunc(source, func(line string) string {
		if firstErr != nil {
			return line
		}
		groups := re.FindStringSubmatch(line)
		if !trailingAllowed(groups[2]) {
			firstErr = perrors.NewMalformedDirective(strings.TrimSpace(line))
			return line
		}
		v, err := lookup(groups[1])
		if err != nil {
			firstErr = err
			return line
		}
		return v
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// trailingAllowed reports whether rest, the text after a directive argument,
// is blank or a comment.
func trailingAllowed(rest string) bool {
	rest = strings.TrimSpace(rest)
	return rest == "" || strings.HasPrefix(rest, "//") || strings.HasPrefix(rest, "/*")
}

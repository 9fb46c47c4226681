// Package patchlist reads declarative patch lists from YAML and builds the
// corresponding patch primitives.
//
// A patch list looks like:
//
//	patches:
//	  - type: start            # start | end | regex | token
//	    filename: water        # optional; omitted applies to every file
//	    content: "#define WATER 1"
//	  - type: token
//	    tokens: "float dropletnoise(in vec2 x)"
//	    snippet: dropletnoise  # content loaded from the snippet store
//	    optional: true
package patchlist

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/shaderpatch/shaderpatch/internal/assets"
	perrors "github.com/shaderpatch/shaderpatch/internal/errors"
	"github.com/shaderpatch/shaderpatch/internal/patch"
)

// Patch types
const (
	TypeStart = "start"
	TypeEnd   = "end"
	TypeRegex = "regex"
	TypeToken = "token"
)

// Descriptor is one entry of a patch list
type Descriptor struct {
	Type     string `yaml:"type"`
	Filename string `yaml:"filename,omitempty"`
	Exact    bool   `yaml:"exact,omitempty"`
	Content  string `yaml:"content,omitempty"`
	Snippet  string `yaml:"snippet,omitempty"`
	Tokens   string `yaml:"tokens,omitempty"`
	Regex    string `yaml:"regex,omitempty"`
	Multiple bool   `yaml:"multiple,omitempty"`
	Optional bool   `yaml:"optional,omitempty"`
}

// document is the top-level YAML shape
type document struct {
	Patches []Descriptor `yaml:"patches"`
}

// Parse decodes a YAML patch list
func Parse(data []byte) ([]Descriptor, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, perrors.NewInvalidPatch("failed to parse patch list", err)
	}
	return doc.Patches, nil
}

// Load reads and decodes the patch list at path
func Load(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	descs, err := Parse(data)
	if err != nil {
		return nil, perrors.Wrap(err, perrors.CategoryPatch, path)
	}
	return descs, nil
}

// Marshal encodes descriptors as a YAML patch list
func Marshal(descs []Descriptor) ([]byte, error) {
	return yaml.Marshal(document{Patches: descs})
}

// Build constructs patches for descs in order. Snippet content is loaded from
// store. The first invalid descriptor aborts the build.
func Build(descs []Descriptor, store assets.Store) ([]patch.Patch, error) {
	patches := make([]patch.Patch, 0, len(descs))
	for i, d := range descs {
		p, err := d.Build(store)
		if err != nil {
			return nil, fmt.Errorf("patch #%d (%s): %w", i+1, d.Type, err)
		}
		patches = append(patches, p)
	}
	return patches, nil
}

// Build constructs the patch described by d
func (d Descriptor) Build(store assets.Store) (patch.Patch, error) {
	content, err := d.content(store)
	if err != nil {
		return nil, err
	}

	opts := d.options()

	switch strings.ToLower(strings.TrimSpace(d.Type)) {
	case TypeStart:
		if content == "" {
			return nil, perrors.NewInvalidPatch("start patch needs content or snippet", nil)
		}
		return patch.NewStartPatch(content, opts...), nil

	case TypeEnd:
		if content == "" {
			return nil, perrors.NewInvalidPatch("end patch needs content or snippet", nil)
		}
		return patch.NewEndPatch(content, opts...), nil

	case TypeRegex:
		if d.Regex == "" {
			return nil, perrors.NewInvalidPatch("regex patch needs a regex", nil)
		}
		p, err := patch.NewRegexPatch(d.Regex, content, opts...)
		if err != nil {
			return nil, err
		}
		return p, nil

	case TypeToken:
		if strings.TrimSpace(d.Tokens) == "" {
			return nil, perrors.NewInvalidPatch("token patch needs tokens", nil)
		}
		p, err := patch.NewTokenPatch(d.Tokens, content, opts...)
		if err != nil {
			return nil, err
		}
		return p, nil

	default:
		return nil, perrors.NewInvalidPatch(fmt.Sprintf("unknown patch type %q", d.Type), nil)
	}
}

func (d Descriptor) content(store assets.Store) (string, error) {
	if d.Snippet == "" {
		return d.Content, nil
	}
	if d.Content != "" {
		return "", perrors.NewInvalidPatch("content and snippet are mutually exclusive", nil)
	}
	if store == nil {
		return "", perrors.NewAssetMissing(d.Snippet, fmt.Errorf("no snippet store configured"))
	}
	return store.Load(d.Snippet)
}

func (d Descriptor) options() []patch.Option {
	var opts []patch.Option
	if d.Filename != "" {
		if d.Exact {
			opts = append(opts, patch.ForExactFile(d.Filename))
		} else {
			opts = append(opts, patch.ForFile(d.Filename))
		}
	}
	if d.Optional {
		opts = append(opts, patch.Optional())
	}
	if d.Multiple {
		opts = append(opts, patch.Multiple())
	}
	return opts
}

// FileSource reads a patch list file on every reload. It satisfies pipeline.Source.
// A missing file yields an empty list.
type FileSource struct {
	Path   string
	Assets assets.Store
	Logger *zap.Logger
}

// Patches implements pipeline.Source
func (s *FileSource) Patches() ([]patch.Patch, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		logger.Debug("no patch list, continuing without patches", zap.String("path", s.Path))
		return nil, nil
	}

	descs, err := Load(s.Path)
	if err != nil {
		return nil, err
	}

	patches, err := Build(descs, s.Assets)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}

	logger.Debug("loaded patch list", zap.String("path", s.Path), zap.Int("patches", len(patches)))
	return patches, nil
}

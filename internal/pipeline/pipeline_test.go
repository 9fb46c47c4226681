package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/shaderpatch/shaderpatch/internal/errors"
	"github.com/shaderpatch/shaderpatch/internal/patch"
)

// countingPatch appends a marker and records how often it ran
type countingPatch struct {
	patch.Target
	marker string
	calls  *int
}

func (c countingPatch) Apply(filename, code string) (string, error) {
	*c.calls++
	return code + c.marker, nil
}

func TestPipeline_AppliesInOrder(t *testing.T) {
	calls := 0
	p := New(nil)
	p.AddPatch(countingPatch{marker: "a", calls: &calls})
	p.AddPatch(countingPatch{marker: "b", calls: &calls})
	p.AddPatch(countingPatch{Target: patch.Target{Filename: "sky"}, marker: "c", calls: &calls})

	out, err := p.Patch("water.frag", "x", false)
	require.NoError(t, err)
	assert.Equal(t, "xab", out)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 3, p.Len())
}

func TestPipeline_ShouldPatchSeesCurrentCode(t *testing.T) {
	p := New(nil)

	first, err := patch.NewRegexPatch(`void main`, "#define MARK\nvoid main")
	require.NoError(t, err)
	p.AddPatch(first)

	second, err := patch.NewRegexPatch(`MARK`, "MARKED")
	require.NoError(t, err)
	p.AddPatch(gatedPatch{Patch: second, needle: "#define MARK"})

	out, err := p.Patch("a.frag", "void main(){}", false)
	require.NoError(t, err)
	assert.Equal(t, "#define MARKED\nvoid main(){}", out)
}

type gatedPatch struct {
	patch.Patch
	needle string
}

func (g gatedPatch) ShouldPatch(filename, code string) bool {
	return strings.Contains(code, g.needle)
}

func TestPipeline_CacheSkipsPatches(t *testing.T) {
	calls := 0
	p := New(nil)
	p.AddPatch(countingPatch{marker: "!", calls: &calls})

	first, err := p.Patch("a.frag", "x", true)
	require.NoError(t, err)
	second, err := p.Patch("a.frag", "x", true)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, p.CacheSize())

	// Uncached calls always recompute and never store
	_, err = p.Patch("b.frag", "y", false)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, p.CacheSize())
}

func TestPipeline_ReloadRederives(t *testing.T) {
	calls := 0
	marker := "1"
	source := SourceFunc(func() ([]patch.Patch, error) {
		return []patch.Patch{countingPatch{marker: marker, calls: &calls}}, nil
	})

	p := New(source)
	require.NoError(t, p.Reload())

	out, err := p.Patch("a.frag", "x", true)
	require.NoError(t, err)
	assert.Equal(t, "x1", out)

	marker = "2"
	require.NoError(t, p.Reload())
	assert.Equal(t, 0, p.CacheSize())
	assert.Equal(t, 1, p.Len())

	out, err = p.Patch("a.frag", "x", true)
	require.NoError(t, err)
	assert.Equal(t, "x2", out)
	assert.Equal(t, 2, calls)
}

func TestPipeline_ReloadDropsManualPatches(t *testing.T) {
	calls := 0
	p := New(nil)
	p.AddPatch(countingPatch{marker: "!", calls: &calls})

	require.NoError(t, p.Reload())
	assert.Equal(t, 0, p.Len())
}

func TestPipeline_ReloadNotifiesListeners(t *testing.T) {
	var order []string
	p := New(SourceFunc(func() ([]patch.Patch, error) {
		return []patch.Patch{patch.NewEndPatch("// tail")}, nil
	}))

	p.OnReload(func(p *Pipeline) error {
		out, err := p.Patch("a.frag", "x", false)
		order = append(order, "first:"+out)
		return err
	})
	p.OnReload(func(p *Pipeline) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, p.Reload())
	assert.Equal(t, []string{"first:x\n// tail\n", "second"}, order)
}

func TestPipeline_ReloadErrors(t *testing.T) {
	p := New(SourceFunc(func() ([]patch.Patch, error) {
		return nil, errors.New("bad list")
	}))
	err := p.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad list")

	p = New(nil)
	p.OnReload(func(*Pipeline) error { return errors.New("listener failed") })
	assert.EqualError(t, p.Reload(), "listener failed")
}

func TestPipeline_PatchErrorPropagates(t *testing.T) {
	p := New(nil)
	rp, err := patch.NewRegexPatch(`absent`, "x")
	require.NoError(t, err)
	p.AddPatch(rp)

	_, err = p.Patch("a.frag", "void main(){}", true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, perrors.ErrPatchNotFound))
	assert.Equal(t, 0, p.CacheSize())
}

func TestPipeline_Invalidate(t *testing.T) {
	calls := 0
	p := New(nil)
	p.AddPatch(countingPatch{marker: "!", calls: &calls})

	_, err := p.Patch("a.frag", "x", true)
	require.NoError(t, err)
	_, err = p.Patch("a.frag", "x", true)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	p.Invalidate("a.frag")
	out, err := p.Patch("a.frag", "y", true)
	require.NoError(t, err)
	assert.Equal(t, "y!", out)
	assert.Equal(t, 2, calls)
}

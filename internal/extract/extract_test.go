package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/shaderpatch/shaderpatch/internal/errors"
)

const lookalikes = `#version 330
// foo() { not real }
/* vec3 foo(float x) { { {
   unbalanced } */
uniform float time;
vec3 foo(float x) { return vec3(x); }
void main() {
  gl_FragColor = vec4(foo(time), 1.0);
}
`

func TestExtract_IgnoresCommentedLookalikes(t *testing.T) {
	text, found, err := Extract(lookalikes, "foo")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "vec3 foo(float x) { return vec3(x); }\n", text)
}

func TestExtract_NotFound(t *testing.T) {
	text, found, err := Extract(lookalikes, "bar")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, text)
}

func TestExtract_NestedBlocks(t *testing.T) {
	src := `float helper(float a);
struct Light { vec3 pos; };
float helper(float a)
{
    if (a > 0.0) {
        for (int i = 0; i < 4; i++) { a *= 0.5; }
    }
    return a;
}
`
	text, found, err := Extract(src, "helper")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `float helper(float a)
{
    if (a > 0.0) {
        for (int i = 0; i < 4; i++) { a *= 0.5; }
    }
    return a;
}
`, text)
}

func TestExtract_SkipsDirectivesAndComments(t *testing.T) {
	src := "#define WRAP(x) \\\n  { x }\n" +
		"highp vec2 warp(vec2 uv) {\n" +
		"  // inner comment }\n" +
		"#ifdef FANCY\n" +
		"  uv *= 2.0;\n" +
		"#endif\n" +
		"  return uv/*half*/ / 2.0;\n" +
		"}\n"

	text, found, err := Extract(src, "warp")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "highp vec2 warp(vec2 uv) {\n  \n\n  uv *= 2.0;\n\n  return uv  / 2.0;\n}\n", text)
}

func TestExtract_MatchesExactName(t *testing.T) {
	src := "float noise2(vec2 p) { return 2.0; }\nfloat noise(vec2 p) { return 1.0; }\n"

	text, found, err := Extract(src, "noise")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "float noise(vec2 p) { return 1.0; }\n", text)
}

func TestExtract_MalformedSource(t *testing.T) {
	_, _, err := Extract("void main() { } }\nfloat f() { return 1.0; }", "f")
	require.Error(t, err)
	assert.True(t, errors.Is(err, perrors.ErrMalformedSource))
}

func TestExtractAll(t *testing.T) {
	src := "float a() { return 1.0; }\nfloat b() { return a(); }\n"

	result, err := ExtractAll(src, "a", "b", "c")
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "float a() { return 1.0; }\n", result["a"])
	assert.Equal(t, "float b() { return a(); }\n", result["b"])
}

func TestScanner_Reusable(t *testing.T) {
	s := NewScanner(lookalikes)

	_, found, err := s.Find("main")
	require.NoError(t, err)
	assert.True(t, found)

	text, found, err := s.Find("foo")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "vec3 foo(float x) { return vec3(x); }\n", text)
}

func TestScanner_Functions(t *testing.T) {
	src := "#define F(x) { x }\n" +
		"uniform float t;\n" +
		"// void commented() {}\n" +
		"float a() { return 1.0; }\n" +
		"struct Light { vec3 pos; };\n" +
		"highp vec2 b(vec2 uv) { if (uv.x > 0.0) { uv.y = 1.0; } return uv; }\n" +
		"void main() { a(); }\n"

	names, err := NewScanner(src).Functions()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "main"}, names)

	_, err = NewScanner("}").Functions()
	assert.True(t, errors.Is(err, perrors.ErrMalformedSource))
}

func TestExtract_ArrayReturnType(t *testing.T) {
	src := "uniform float t;\n" +
		"float[2] pair() { return float[2](0.0, 1.0); }\n" +
		"highp vec3 [ 3 ] corners(float s) { return vec3[3](vec3(s), vec3(0.0), vec3(1.0)); }\n" +
		"void main() {}\n"

	text, found, err := Extract(src, "pair")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "float[2] pair() { return float[2](0.0, 1.0); }\n", text)

	text, found, err = Extract(src, "corners")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "highp vec3 [ 3 ] corners(float s) { return vec3[3](vec3(s), vec3(0.0), vec3(1.0)); }\n", text)
}

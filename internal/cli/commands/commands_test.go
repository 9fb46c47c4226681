package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaderpatch/shaderpatch/internal/cli/config"
)

const testConfig = `shaders:
  dir: shaders
  output: out
patches:
  file: patches.yml
snippets:
  dir: snippets
defines:
  - name: QUALITY
    type: int
    value: 2
extract:
  - file: water.frag
    function: dropletNoise
    key: droplets
`

const testPatches = `patches:
  - type: token
    filename: water
    tokens: "* 43758.5453"
    content: "* 1000.0"
  - type: end
    filename: sky
    snippet: fog
`

// project creates a shader project in a temp dir and changes into it
func project(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"shaderpatch.yml":     testConfig,
		"patches.yml":         testPatches,
		"snippets/fog.glsl":   "// fog",
		"shaders/water.frag":  "#version 330\nfloat dropletNoise(vec2 uv) {\n  return fract(uv.x * 43758.5453);\n}\nvoid main() {}\n",
		"shaders/puddle.frag": "#version 330\n#generated droplets\nvoid main() {}\n",
		"shaders/sky.vert":    "void main() {}\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })
	return dir
}

// run executes the root command with args and returns stdout and stderr
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "shaderpatch version: dev")
	assert.Contains(t, out, "Go version:")
}

func TestBuildCommand(t *testing.T) {
	project(t)

	out, _, err := run(t, "build")
	require.NoError(t, err)
	assert.Contains(t, out, "Built 3 shader(s) into out")

	puddle, err := os.ReadFile(filepath.Join("out", "puddle.frag"))
	require.NoError(t, err)
	// the extracted text carries its own newline, the directive line keeps its one
	assert.Equal(t, "#version 330\n#define QUALITY 2\nfloat dropletNoise(vec2 uv) {\n  return fract(uv.x * 1000.0);\n}\n\nvoid main() {}\n", string(puddle))

	sky, err := os.ReadFile(filepath.Join("out", "sky.vert"))
	require.NoError(t, err)
	assert.Equal(t, "#define QUALITY 2\nvoid main() {}\n// fog\n", string(sky))
}

func TestBuildCommand_Files(t *testing.T) {
	project(t)

	out, _, err := run(t, "build", filepath.Join("shaders", "sky.vert"), "-o", "dist")
	require.NoError(t, err)
	assert.Contains(t, out, "Built 1 shader(s) into dist")

	_, err = os.Stat(filepath.Join("dist", "sky.vert"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join("dist", "water.frag"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuildCommand_Failure(t *testing.T) {
	project(t)
	require.NoError(t, os.WriteFile(filepath.Join("shaders", "bad.frag"), []byte("#generated nope\n"), 0644))

	_, stderr, err := run(t, "build")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 shader(s) failed, 3 built")
	assert.Contains(t, stderr, "INJ001")
	assert.Contains(t, stderr, "bad.frag")

	out, _, err := run(t, "build", "--json")
	require.Error(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "INJ001", decoded[0]["code"])
	assert.Equal(t, "nope", decoded[0]["key"])
}

func TestDiffCommand(t *testing.T) {
	project(t)

	out, _, err := run(t, "diff", "--stat")
	require.NoError(t, err)
	assert.Contains(t, out, "water.frag: 1 lines changed, 1 added, 0 removed")

	out, _, err = run(t, "diff", "--unified", "--patched", filepath.Join("shaders", "water.frag"))
	require.NoError(t, err)
	assert.Contains(t, out, "--- a/water.frag")
	assert.Contains(t, out, "-  return fract(uv.x * 43758.5453);")
	assert.Contains(t, out, "+  return fract(uv.x * 1000.0);")
	assert.NotContains(t, out, "QUALITY")
}

func TestExtractCommand(t *testing.T) {
	project(t)

	out, _, err := run(t, "extract", "shaders/water.frag", "dropletNoise")
	require.NoError(t, err)
	assert.Equal(t, "float dropletNoise(vec2 uv) {\n  return fract(uv.x * 1000.0);\n}\n", out)

	out, _, err = run(t, "extract", "shaders/water.frag", "dropletNoise", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "43758.5453")

	out, _, err = run(t, "extract", "shaders/water.frag", "--list")
	require.NoError(t, err)
	assert.Equal(t, "dropletNoise\nmain\n", out)
}

func TestExtractCommand_NotFound(t *testing.T) {
	project(t)

	_, stderr, err := run(t, "extract", "shaders/water.frag", "dropletNose")
	require.Error(t, err)
	assert.ErrorIs(t, err, errFunctionNotFound)
	assert.Contains(t, stderr, "Did you mean: dropletNoise?")

	_, _, err = run(t, "extract", "shaders/water.frag")
	assert.Error(t, err)
}

func TestListCommand(t *testing.T) {
	project(t)

	out, _, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Patches (patches.yml)")
	assert.Contains(t, out, "token")
	assert.Contains(t, out, "*water*")
	assert.Contains(t, out, "end")
	assert.Contains(t, out, "QUALITY: 2 (int)")
	assert.Contains(t, out, "dropletNoise() from water.frag")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	out, _, err := run(t, "init", dir, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	for _, name := range []string{"shaderpatch.yml", "patches.yml", "shaders", "snippets"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	cfg, err := config.Load(filepath.Join(dir, "shaderpatch.yml"))
	require.NoError(t, err)
	assert.Equal(t, "shaders", cfg.Shaders.Dir)

	_, _, err = run(t, "init", dir, "--yes")
	assert.Error(t, err)

	_, _, err = run(t, "init", dir, "--yes", "--force")
	assert.NoError(t, err)
}

func TestInitCommand_Prompts(t *testing.T) {
	answers := map[string]any{
		"Shader directory:":                     "glsl",
		"Build output directory:":               "bin/glsl",
		"Patch list file:":                      "rules.yml",
		"Snippet directory:":                    "lib",
		"Write resolved stages for debugging?": true,
	}
	old := askOne
	askOne = func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
		var message string
		switch q := p.(type) {
		case *survey.Input:
			message = q.Message
		case *survey.Confirm:
			message = q.Message
		}
		switch r := response.(type) {
		case *string:
			*r = answers[message].(string)
		case *bool:
			*r = answers[message].(bool)
		}
		return nil
	}
	t.Cleanup(func() { askOne = old })

	dir := t.TempDir()
	_, _, err := run(t, "init", dir)
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, "shaderpatch.yml"))
	require.NoError(t, err)
	assert.Equal(t, "glsl", cfg.Shaders.Dir)
	assert.Equal(t, "bin/glsl", cfg.Shaders.Output)
	assert.Equal(t, "rules.yml", cfg.Patches.File)
	assert.Equal(t, "lib", cfg.Snippets.Dir)
	assert.True(t, cfg.Debug.Enabled)

	_, err = os.Stat(filepath.Join(dir, "rules.yml"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "lib"))
	assert.NoError(t, err)
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "shaderpatch")
}

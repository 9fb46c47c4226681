package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var (
	testBinary     string
	testBinaryOnce sync.Once
	testBinaryErr  error
)

// buildTestBinary builds the shaderpatch binary once for all tests
func buildTestBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}

	testBinaryOnce.Do(func() {
		tmpBinary := filepath.Join(os.TempDir(), "shaderpatch-test")
		cmd := exec.Command("go", "build", "-o", tmpBinary, ".")
		if out, err := cmd.CombinedOutput(); err != nil {
			testBinaryErr = err
			testBinary = string(out)
			return
		}
		testBinary = tmpBinary
	})

	if testBinaryErr != nil {
		t.Fatalf("failed to build test binary: %v\n%s", testBinaryErr, testBinary)
	}
	return testBinary
}

func TestVersionCommand(t *testing.T) {
	binary := buildTestBinary(t)

	output, err := exec.Command(binary, "version", "--no-color").CombinedOutput()
	if err != nil {
		t.Fatalf("version command failed: %v\nOutput: %s", err, output)
	}

	for _, exp := range []string{"shaderpatch version", "Git commit", "Build date", "Go version"} {
		if !strings.Contains(string(output), exp) {
			t.Errorf("version output missing %q\nGot: %s", exp, output)
		}
	}
}

func TestInitThenBuild(t *testing.T) {
	binary := buildTestBinary(t)
	tmpDir := t.TempDir()

	cmd := exec.Command(binary, "init", "--yes", "--no-color")
	cmd.Dir = tmpDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("init failed: %v\nOutput: %s", err, output)
	}

	for _, file := range []string{"shaderpatch.yml", "patches.yml"} {
		if _, err := os.Stat(filepath.Join(tmpDir, file)); os.IsNotExist(err) {
			t.Errorf("init did not create %s", file)
		}
	}

	shader := "#version 330\nvoid main() {}\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "shaders", "fill.frag"), []byte(shader), 0644); err != nil {
		t.Fatal(err)
	}

	cmd = exec.Command(binary, "build", "--no-color", "-o", "out")
	cmd.Dir = tmpDir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build failed: %v\nOutput: %s", err, output)
	}

	built, err := os.ReadFile(filepath.Join(tmpDir, "out", "fill.frag"))
	if err != nil {
		t.Fatalf("build output missing: %v", err)
	}
	if !strings.HasPrefix(string(built), "#version 330\n") {
		t.Errorf("unexpected build output:\n%s", built)
	}
}

func TestUnknownCommandFails(t *testing.T) {
	binary := buildTestBinary(t)

	output, err := exec.Command(binary, "frobnicate").CombinedOutput()
	if err == nil {
		t.Fatalf("expected unknown command to fail, got: %s", output)
	}
	if !strings.Contains(string(output), "unknown command") {
		t.Errorf("expected unknown command error, got: %s", output)
	}
}

package compiler

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/oj-lab/judger/internal/langspec"
)

func TestBuildCommandExpandsPlaceholders(t *testing.T) {
	argv, err := buildCommand("g++ -O2 -std=c++17 -o {bin} {src}", "/tmp/a.cpp", "/tmp/a")
	if err != nil {
		t.Fatalf("buildCommand: %v", err)
	}
	want := []string{"g++", "-O2", "-std=c++17", "-o", "/tmp/a", "/tmp/a.cpp"}
	if len(argv) != len(want) {
		t.Fatalf("argv = %v, want %v", argv, want)
	}
	for i := range want {
		if argv[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, argv[i], want[i])
		}
	}
}

func TestBuildCommandRejectsEmptyTemplate(t *testing.T) {
	if _, err := buildCommand("   ", "/tmp/a.cpp", "/tmp/a"); err == nil {
		t.Fatal("expected an error for an empty command template")
	}
}

func TestCompileWithUsesOverrideTemplate(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 is required for this test")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "solution.py")
	if err := os.WriteFile(src, []byte("print('hi')\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	target := filepath.Join(dir, "solution")

	overrides := map[langspec.Language]Template{
		langspec.Python: {Language: langspec.Python, Cmd: "cp {src} {bin}"},
	}
	if _, err := CompileWith(context.Background(), overrides, langspec.Python, src, target); err != nil {
		t.Fatalf("CompileWith: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("override template should still produce a target file: %v", err)
	}
}

func TestCompileRejectsUnknownLanguage(t *testing.T) {
	if _, err := Compile(context.Background(), langspec.Language("haskell"), "a.hs", "a"); err == nil {
		t.Fatal("expected an error for an unsupported language")
	}
}

func TestCompilePython(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 is required for this test")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "solution.py")
	if err := os.WriteFile(src, []byte("print('hi')\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	target := filepath.Join(dir, "solution")
	if _, err := Compile(context.Background(), langspec.Python, src, target); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Python compile must leave a runnable copy at target: %v", err)
	}
	if string(got) != "print('hi')\n" {
		t.Errorf("copied target content = %q, want source content", got)
	}
}

func TestCompileReportsCompileErrorOnSyntaxFailure(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 is required for this test")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "bad.py")
	if err := os.WriteFile(src, []byte("def broken(:\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := Compile(context.Background(), langspec.Python, src, filepath.Join(dir, "bad"))
	if err == nil {
		t.Fatal("expected a compile error for invalid syntax")
	}
}

package langspec

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLanguageValid(t *testing.T) {
	cases := []struct {
		lang Language
		want bool
	}{
		{Rust, true},
		{Cpp, true},
		{Python, true},
		{Language("haskell"), false},
		{Language(""), false},
	}
	for _, c := range cases {
		if got := c.lang.Valid(); got != c.want {
			t.Errorf("Language(%q).Valid() = %v, want %v", c.lang, got, c.want)
		}
	}
}

func TestNewExecutorRejectsMissingPath(t *testing.T) {
	_, err := NewExecutor(Cpp, filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected an error for a missing executable path")
	}
}

func TestNewExecutorRejectsUnknownLanguage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bin")
	if err := os.WriteFile(path, []byte("x"), 0o755); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := NewExecutor(Language("haskell"), path); err == nil {
		t.Fatal("expected an error for an unsupported language")
	}
}

func TestResolveCompiledLanguageExecsArtifactDirectly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "program")
	if err := os.WriteFile(path, []byte("x"), 0o755); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	e, err := NewExecutor(Cpp, path)
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	e.SetAdditionalArgs([]string{"--fast"})

	program, argv := e.Resolve()
	if program != path {
		t.Errorf("program = %q, want %q", program, path)
	}
	want := []string{path, "--fast"}
	if len(argv) != len(want) || argv[0] != want[0] || argv[1] != want[1] {
		t.Errorf("argv = %v, want %v", argv, want)
	}
}

func TestResolvePythonExecsFixedInterpreter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solution.py")
	if err := os.WriteFile(path, []byte("print(1)"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	e, err := NewExecutor(Python, path)
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}

	program, argv := e.Resolve()
	if program != pythonInterpreter {
		t.Errorf("program = %q, want %q", program, pythonInterpreter)
	}
	if len(argv) != 2 || argv[0] != pythonInterpreter || argv[1] != path {
		t.Errorf("argv = %v, want [%q %q]", argv, pythonInterpreter, path)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checker")
	if err := os.WriteFile(path, []byte("x"), 0o755); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	orig, err := NewExecutor(Cpp, path)
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	orig.SetAdditionalArgs([]string{"input", "output", "answer"})

	clone := orig.Clone()
	clone.SetAdditionalArgs([]string{"different"})

	if len(orig.AdditionalArgs) != 3 {
		t.Errorf("mutating the clone's args leaked into the original: %v", orig.AdditionalArgs)
	}
}

func TestCloneOfNilIsNil(t *testing.T) {
	var e *Executor
	if e.Clone() != nil {
		t.Error("Clone of a nil Executor should return nil")
	}
}

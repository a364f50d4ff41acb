// Package langspec describes the closed set of supported languages and how
// each one resolves to a concrete (program, argv) exec tuple.
package langspec

import (
	"os"

	"github.com/oj-lab/judger/internal/judgeerr"
)

// Language is the closed set of source-language tags this judge supports.
// Stable string form for serialization and problem-package metadata.
type Language string

const (
	Rust   Language = "rust"
	Cpp    Language = "cpp"
	Python Language = "python"
)

// pythonInterpreter is the fixed interpreter path the original source execs
// for scripted languages; not resolved via PATH lookup so the sandbox
// whitelist's openat/execve targets stay predictable.
const pythonInterpreter = "/usr/bin/python3"

// Valid reports whether l is one of the supported language tags.
func (l Language) Valid() bool {
	switch l {
	case Rust, Cpp, Python:
		return true
	}
	return false
}

// Executor is the recipe that, given a language and a compiled/copied
// artifact path, resolves to the program and argv unix.Exec should run. The
// path must exist before Resolve is called; additional args are appended by
// callers that splat checker/interactor parameters (see judgecfg.CheckerConfig).
type Executor struct {
	Language       Language
	Path           string
	AdditionalArgs []string
}

// NewExecutor validates that path exists and returns an Executor for it.
func NewExecutor(language Language, path string) (*Executor, error) {
	if !language.Valid() {
		return nil, judgeerr.Newf(judgeerr.LanguageUnknown, "unsupported language %q", language)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, judgeerr.Wrapf(err, judgeerr.SourceNotExist, "executor path %q does not exist", path)
	}
	return &Executor{Language: language, Path: path}, nil
}

// SetAdditionalArgs replaces the argv tail appended after the program's own
// arguments (checker/interactor parameters, typically).
func (e *Executor) SetAdditionalArgs(args []string) {
	e.AdditionalArgs = args
}

// Clone returns an independent copy of e. The Aggregator clones a fresh
// Executor per test case before a checker mutates AdditionalArgs, so one
// case's argv splat never leaks into the next.
func (e *Executor) Clone() *Executor {
	if e == nil {
		return nil
	}
	args := make([]string, len(e.AdditionalArgs))
	copy(args, e.AdditionalArgs)
	return &Executor{Language: e.Language, Path: e.Path, AdditionalArgs: args}
}

// Resolve returns the (program, argv) tuple for this executor, following the
// per-language exec recipe: compiled languages exec the artifact directly,
// scripted languages exec a fixed interpreter with the script as argv[1].
func (e *Executor) Resolve() (program string, argv []string) {
	switch e.Language {
	case Python:
		program = pythonInterpreter
		argv = append([]string{pythonInterpreter, e.Path}, e.AdditionalArgs...)
	default: // Rust, Cpp
		program = e.Path
		argv = append([]string{e.Path}, e.AdditionalArgs...)
	}
	return program, argv
}

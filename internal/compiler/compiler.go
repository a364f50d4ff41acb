// Package compiler builds a submitted source file into a runnable program.
// Command templates are expanded then tokenized with shlex, the same
// two-step approach the sandbox runner's buildCommand uses for run/compile
// commands.
package compiler

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"

	"github.com/oj-lab/judger/internal/judgeerr"
	"github.com/oj-lab/judger/internal/langspec"
)

// Template describes how to turn a source file into a binary for one
// language. Cmd may contain {src} and {bin} placeholders, expanded before
// the whole string is shlex-tokenized into argv.
type Template struct {
	Language langspec.Language
	Cmd      string
}

// DefaultTemplates is the built-in table covering the three languages
// langspec knows about. A Config loaded from YAML may extend or override
// these per internal/config's LanguageEntry.
var DefaultTemplates = map[langspec.Language]Template{
	langspec.Cpp: {
		Language: langspec.Cpp,
		// -static keeps the contestant binary's syscall surface inside the
		// seccomp whitelist: no ld.so dynamic-section work at exec time.
		Cmd: "g++ {src} -o {bin} -O2 -static",
	},
	langspec.Rust: {
		Language: langspec.Rust,
		Cmd:      "rustc {src} -o {bin}",
	},
	langspec.Python: {
		Language: langspec.Python,
		// No compilation: the "executable" is a copy of the script, run
		// later under the python3 interpreter.
		Cmd: "cp {src} {bin}",
	},
}

// pythonSyntaxCheck runs before the copy template, Python only, so a
// submission with a parse error is rejected up front as a CompileError
// rather than surfacing as a RuntimeError on the first test case. This is
// additive to the spec's literal "cp {src} {target}" template, not a
// replacement for it.
const pythonSyntaxCheck = "python3 -m py_compile {src}"

// Compile expands language's template against srcPath/targetPath, runs it,
// and returns the combined stdout+stderr for CompileError reporting. It uses
// DefaultTemplates; callers that loaded config.Config.Languages overrides
// should call CompileWith instead.
func Compile(ctx context.Context, language langspec.Language, srcPath, targetPath string) (string, error) {
	return CompileWith(ctx, DefaultTemplates, language, srcPath, targetPath)
}

// CompileWith is Compile with an explicit template table, so a caller that
// loaded per-language overrides from config (internal/config's
// LanguageEntry.CompileTpl) can substitute its own recipe for a language
// without touching DefaultTemplates.
func CompileWith(ctx context.Context, templates map[langspec.Language]Template, language langspec.Language, srcPath, targetPath string) (string, error) {
	tpl, ok := templates[language]
	if !ok {
		return "", judgeerr.New(judgeerr.LanguageUnknown).WithDetail("language", string(language))
	}

	var combined bytes.Buffer

	if language == langspec.Python {
		out, err := runTemplate(ctx, pythonSyntaxCheck, srcPath, targetPath)
		combined.WriteString(out)
		if err != nil {
			return combined.String(), judgeerr.Wrapf(err, judgeerr.CompileFailed, "compile %s", srcPath)
		}
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return combined.String(), judgeerr.Wrapf(err, judgeerr.Internal, "create target directory for %s", targetPath)
	}
	os.Remove(targetPath)

	out, err := runTemplate(ctx, tpl.Cmd, srcPath, targetPath)
	combined.WriteString(out)
	if err != nil {
		return combined.String(), judgeerr.Wrapf(err, judgeerr.CompileFailed, "compile %s", srcPath)
	}

	if language == langspec.Python {
		if err := os.Chmod(targetPath, 0o755); err != nil {
			return combined.String(), judgeerr.Wrapf(err, judgeerr.Internal, "make %s executable", targetPath)
		}
	}

	return combined.String(), nil
}

func runTemplate(ctx context.Context, tplCmd, srcPath, targetPath string) (string, error) {
	argv, err := buildCommand(tplCmd, srcPath, targetPath)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return out.String(), err
	}
	return out.String(), nil
}

func buildCommand(tpl, src, bin string) ([]string, error) {
	expanded := strings.ReplaceAll(tpl, "{src}", src)
	expanded = strings.ReplaceAll(expanded, "{bin}", bin)

	argv, err := shlex.Split(expanded)
	if err != nil {
		return nil, judgeerr.Wrapf(err, judgeerr.CompileFailed, "parse compile command template")
	}
	if len(argv) == 0 {
		return nil, judgeerr.New(judgeerr.CompileFailed).WithDetail("reason", "command empty after expansion")
	}
	return argv, nil
}

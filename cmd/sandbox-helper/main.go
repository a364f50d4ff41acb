//go:build linux

// Command sandbox-helper is the thin privileged process the Sandbox
// Primitive launches for every sandboxed run. It reads a single JSON request
// from stdin, rewires its own stdio, applies resource limits, loads a
// seccomp filter, and execs the target program — never returning on
// success. It exists as a separate process because Go's runtime cannot
// safely bare-fork() without execing immediately: every sandboxed run execs
// a fresh copy of this binary instead of forking the long-lived judger.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/oj-lab/judger/internal/sandboxproto"
	"github.com/oj-lab/judger/internal/seccomp"
)

func main() {
	// Saved before redirectIO can close or repoint fd 2: a setup failure
	// detected after that point (a bad rlimit, a seccomp load error) would
	// otherwise have nowhere safe to report to, since the original stderr
	// pipe the Sandbox Primitive reads from may already be gone. F_DUPFD_CLOEXEC
	// means this extra descriptor is invisible to, and auto-closed by, a
	// successful exec — the target program never sees it.
	diag := saveDiagnosticStderr()

	if err := run(); err != nil {
		emitFailure(diag, err)
		os.Exit(1)
	}
}

func run() error {
	req, err := decodeRequest(os.Stdin)
	if err != nil {
		return err
	}
	if err := validateRequest(req); err != nil {
		return err
	}

	if err := redirectIO(req); err != nil {
		return err
	}

	if err := req.Limits.ApplyToSelf(); err != nil {
		return err
	}

	// Every executor (internal/langspec) resolves to an absolute program
	// path - the compiled binary, or the fixed /usr/bin/python3 interpreter
	// path - so no PATH lookup is needed here. That matters more than it
	// sounds: exec.LookPath's findExecutable stats the candidate path via
	// faccessat/faccessat2, a syscall the restricted whitelist does not
	// carry, so doing a lookup after the filter loads gets the helper
	// SIGSYS-killed before it ever reaches exec.
	if req.Program == "" || req.Program[0] != '/' {
		return fmt.Errorf("program %q is not an absolute path", req.Program)
	}

	mode := seccomp.Unrestricted
	if req.Restricted {
		mode = seccomp.Restricted
	}
	if err := seccomp.Load(mode); err != nil {
		return err
	}

	env := req.Env
	if len(env) == 0 {
		env = []string{"PATH=/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"}
	}

	return unix.Exec(req.Program, req.Argv, env)
}

func decodeRequest(r *os.File) (sandboxproto.Request, error) {
	var req sandboxproto.Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return req, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

func validateRequest(req sandboxproto.Request) error {
	if req.Program == "" {
		return fmt.Errorf("program is required")
	}
	if len(req.Argv) == 0 {
		return fmt.Errorf("argv is required")
	}
	return nil
}

// redirectIO wires this process's stdin/stdout/stderr from whichever source
// the request names, closing whichever stream has no redirect. An *FD field
// (an fd inherited via exec.Cmd.ExtraFiles, e.g. an interactive judge's
// anonymous proxy pipe) takes precedence over the matching *Path field (a
// file the helper opens itself, e.g. a testdata input file). stderr follows
// the stdout target when StderrToStdout is set, otherwise it is closed like
// any other unredirected stream.
func redirectIO(req sandboxproto.Request) error {
	stdoutFD := -1

	switch {
	case req.StdinFD != 0:
		if err := unix.Dup2(req.StdinFD, unix.Stdin); err != nil {
			return fmt.Errorf("dup2 inherited stdin fd %d: %w", req.StdinFD, err)
		}
	case req.StdinPath != "":
		f, err := os.Open(req.StdinPath)
		if err != nil {
			return fmt.Errorf("open stdin redirect: %w", err)
		}
		defer f.Close()
		if err := unix.Dup2(int(f.Fd()), unix.Stdin); err != nil {
			return fmt.Errorf("dup2 stdin: %w", err)
		}
	default:
		_ = unix.Close(unix.Stdin)
	}

	switch {
	case req.StdoutFD != 0:
		if err := unix.Dup2(req.StdoutFD, unix.Stdout); err != nil {
			return fmt.Errorf("dup2 inherited stdout fd %d: %w", req.StdoutFD, err)
		}
		stdoutFD = unix.Stdout
	case req.StdoutPath != "":
		f, err := os.OpenFile(req.StdoutPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("open stdout redirect: %w", err)
		}
		defer f.Close()
		if err := unix.Dup2(int(f.Fd()), unix.Stdout); err != nil {
			return fmt.Errorf("dup2 stdout: %w", err)
		}
		stdoutFD = int(f.Fd())
	default:
		_ = unix.Close(unix.Stdout)
	}

	switch {
	case req.StderrToStdout && stdoutFD >= 0:
		if err := unix.Dup2(unix.Stdout, unix.Stderr); err != nil {
			return fmt.Errorf("dup2 stderr: %w", err)
		}
	default:
		_ = unix.Close(unix.Stderr)
	}
	return nil
}

// saveDiagnosticStderr dup's the helper's original stderr to a fresh,
// close-on-exec descriptor before redirectIO gets a chance to close or
// repoint fd 2. Returns nil if the dup fails, in which case emitFailure
// falls back to writing fd 2 directly (correct only for failures that
// happen before redirectIO runs).
func saveDiagnosticStderr() *os.File {
	fd, err := unix.FcntlInt(os.Stderr.Fd(), unix.F_DUPFD_CLOEXEC, 3)
	if err != nil {
		return nil
	}
	return os.NewFile(uintptr(fd), "sandbox-helper-diagnostic-stderr")
}

// emitFailure writes a diagnostic to diag (the helper's original stderr,
// saved before any redirection could touch fd 2) so the Sandbox Primitive
// can surface setup failures distinctly from the target program's own
// output. It is the only thing this process ever prints, and only on a path
// that never reaches exec.
func emitFailure(diag *os.File, err error) {
	msg := strings.TrimSpace(err.Error())
	if diag != nil {
		fmt.Fprintln(diag, msg)
		diag.Close()
		return
	}
	fmt.Fprintln(os.Stderr, msg)
}

// Package sandbox implements the Sandbox Primitive: one sandboxed run of an
// Executor under a resource-limit Set, backed by the sandbox-helper binary
// rather than a bare fork, since Go cannot safely fork a multi-threaded
// runtime without execing right away. A Sandbox value is single-use: New,
// then Spawn, then Wait, in that order.
package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/oj-lab/judger/internal/judgeerr"
	"github.com/oj-lab/judger/internal/langspec"
	"github.com/oj-lab/judger/internal/rlimit"
	"github.com/oj-lab/judger/internal/sandboxproto"
)

// Rusage mirrors the subset of struct rusage the judge core reports per run.
type Rusage struct {
	UserTime                time.Duration
	SystemTime              time.Duration
	MaxRSSKB                int64
	PageFaults              int64
	InvoluntaryCtxSwitches  int64
	VoluntaryCtxSwitches    int64
}

// ExitInfo is what Wait returns once the sandboxed program (or the helper
// process standing in for it) has terminated.
type ExitInfo struct {
	ExitStatus int
	ExitSignal int
	ExitCode   int
	WallTime   time.Duration
	Usage      Rusage
}

// StdioRedirect names where a Sandbox wires a stream: at most one of Path or
// File should be set. File is an open file inherited by the helper through
// ExtraFiles (see Sandbox.Spawn); Path is a file the helper opens itself.
type StdioRedirect struct {
	Path string
	File *os.File
}

// Sandbox is one configured, not-yet-run sandboxed execution.
type Sandbox struct {
	helperPath string
	executor   *langspec.Executor
	limits     rlimit.Set
	restricted bool
	stdin      StdioRedirect
	stdout     StdioRedirect
	stderrToStdout bool

	cmd          *exec.Cmd
	spawnedAt    time.Time
	helperStderr *bytes.Buffer
}

// New configures a Sandbox. helperPath is the path to the sandbox-helper
// binary; executor and limits are as resolved by the caller (a language
// executor plus, typically, a package's testdata-derived limit Set).
func New(helperPath string, executor *langspec.Executor, limits rlimit.Set, restricted bool) *Sandbox {
	return &Sandbox{
		helperPath: helperPath,
		executor:   executor,
		limits:     limits,
		restricted: restricted,
	}
}

// WithStdin routes the sandboxed program's stdin from the open file f, or,
// when f is nil, from path (opened by the helper). An empty path with a nil
// f leaves stdin closed.
func (s *Sandbox) WithStdin(path string, f *os.File) *Sandbox {
	s.stdin = StdioRedirect{Path: path, File: f}
	return s
}

// WithStdout routes the sandboxed program's stdout to the open file f, or,
// when f is nil, to path (created or truncated by the helper). An empty path
// with a nil f leaves stdout closed.
func (s *Sandbox) WithStdout(path string, f *os.File) *Sandbox {
	s.stdout = StdioRedirect{Path: path, File: f}
	return s
}

// WithStderrToStdout requests stderr be merged onto whatever stdout is
// wired to.
func (s *Sandbox) WithStderrToStdout(v bool) *Sandbox {
	s.stderrToStdout = v
	return s
}

// Spawn launches the sandbox-helper process and hands it the run request.
// The helper performs stdio redirection, rlimit, and seccomp setup on its
// own before exec'ing the target program, so by the time Spawn returns the
// untrusted program may already be running.
func (s *Sandbox) Spawn(ctx context.Context) error {
	program, argv := s.executor.Resolve()

	req := sandboxproto.Request{
		Program:        program,
		Argv:           argv,
		Limits:         s.limits,
		Restricted:     s.restricted,
		StdinPath:      s.stdin.Path,
		StdoutPath:     s.stdout.Path,
		StderrToStdout: s.stderrToStdout,
	}

	cmd := exec.CommandContext(ctx, s.helperPath)
	if s.stdin.File != nil {
		cmd.ExtraFiles = append(cmd.ExtraFiles, s.stdin.File)
		req.StdinFD = 2 + len(cmd.ExtraFiles)
	}
	if s.stdout.File != nil {
		cmd.ExtraFiles = append(cmd.ExtraFiles, s.stdout.File)
		req.StdoutFD = 2 + len(cmd.ExtraFiles)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return judgeerr.Wrapf(err, judgeerr.SandboxSetupFailed, "marshal sandbox request")
	}
	cmd.Stdin = bytes.NewReader(body)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	s.spawnedAt = time.Now()
	if err := cmd.Start(); err != nil {
		return judgeerr.Wrapf(err, judgeerr.SandboxSetupFailed, "start sandbox-helper")
	}
	s.cmd = cmd
	s.helperStderr = &stderr
	return nil
}

// Wait blocks until the sandboxed program exits and reports how it did.
func (s *Sandbox) Wait() (*ExitInfo, error) {
	if s.cmd == nil {
		return nil, judgeerr.New(judgeerr.SandboxSetupFailed).WithDetail("reason", "wait called before spawn")
	}

	err := s.cmd.Wait()
	wall := time.Since(s.spawnedAt)

	state := s.cmd.ProcessState
	if state == nil {
		return nil, judgeerr.Wrapf(err, judgeerr.HelperProcessFailed, "sandbox-helper produced no process state")
	}

	info := &ExitInfo{WallTime: wall}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok {
		info.ExitStatus = int(ws)
		if ws.Signaled() {
			info.ExitSignal = int(ws.Signal())
		}
		if ws.Exited() {
			info.ExitCode = ws.ExitStatus()
		}
	}
	if ru, ok := state.SysUsage().(*syscall.Rusage); ok {
		info.Usage = fromSyscallRusage(ru)
	}

	if info.ExitSignal == 0 && info.ExitCode != 0 && s.helperStderr != nil && s.helperStderr.Len() > 0 {
		// The helper only ever writes to stderr on a setup failure it hit
		// before exec; a nonzero exit with helper diagnostics present means
		// the sandboxed program never actually ran.
		return info, judgeerr.New(judgeerr.SandboxSetupFailed).WithDetail("helper_stderr", s.helperStderr.String())
	}
	return info, nil
}

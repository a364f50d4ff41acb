// Package sandboxproto defines the JSON protocol spoken between the
// Sandbox Primitive (internal/sandbox, running in the judge process) and the
// sandbox-helper binary (cmd/sandbox-helper) it launches for every sandboxed
// run. A helper process stands in for a bare fork because Go's runtime
// cannot safely fork without execing immediately.
package sandboxproto

import "github.com/oj-lab/judger/internal/rlimit"

// Request is written as one JSON document to the helper's stdin. The helper
// decodes it, performs stdio redirection, applies Limits, loads the seccomp
// filter if Restricted, then execs Program/Argv — in that order, never
// logging anything in between (a log write is itself a syscall that may not
// be in the filter's whitelist once it's loaded).
type Request struct {
	Program    string
	Argv       []string
	Env        []string
	Limits     rlimit.Set
	Restricted bool

	// StdinPath/StdoutPath name files the helper opens and dup2's onto its
	// own stdin/stdout before exec. Empty means "close the stream": reads
	// from a closed stdin yield EOF, writes to a closed stdout fail, which
	// is the intended behavior when no redirect file is given. Ignored when
	// the matching *FD field is set.
	StdinPath  string
	StdoutPath string

	// StdinFD/StdoutFD name an already-open file descriptor inherited by the
	// helper process (via exec.Cmd.ExtraFiles) that should be dup2'd onto
	// stdin/stdout instead of opening a path. This is how the Interactive
	// Judge wires a sandboxed program's stdio to an anonymous proxy pipe,
	// which has no filesystem path to hand the helper. 0 means "not set"
	// since fd 0 is stdin itself and never a sensible inherited slot here.
	StdinFD  int
	StdoutFD int

	// StderrToStdout requests stderr be dup2'd onto the same target as
	// stdout, for symmetry when a caller only supplied one capture file
	// (interactive mode's proxy pipes, for instance). When false and no
	// stdout redirect is given, stderr is closed like any other
	// unredirected stream.
	StderrToStdout bool
}

// Response is a JSON shape for a helper diagnostic; cmd/sandbox-helper does
// not write it. On a setup failure that never reaches exec, the helper writes
// a plain-text line to its original stderr and exits 1; on success it writes
// nothing. The judge process learns the outcome from the OS process exit
// status and rusage via Wait.
type Response struct {
	Error string
}

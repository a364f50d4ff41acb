// Package interactive implements the Interactive Judge: a contestant
// program and an interactor run as peers connected by two proxied pipe
// pairs, with the judge process shuttling bytes between them over epoll,
// tee-ing the full transcript, and classifying the result once both sides
// have exited.
package interactive

import (
	"context"
	"os"
	"time"

	"github.com/oj-lab/judger/internal/judgecfg"
	"github.com/oj-lab/judger/internal/judgeerr"
	"github.com/oj-lab/judger/internal/langspec"
	"github.com/oj-lab/judger/internal/listener"
	"github.com/oj-lab/judger/internal/rlimit"
	"github.com/oj-lab/judger/internal/sandbox"
	"github.com/oj-lab/judger/internal/verdict"
)

// Result is the outcome of one interactive test case.
type Result struct {
	Verdict        verdict.Verdict
	ProgramExit    *sandbox.ExitInfo
	InteractorExit *sandbox.ExitInfo
	Checker        *sandbox.ExitInfo
}

// Runner drives interactive test cases, launching both peers through the
// same sandbox-helper binary the Common Judge uses.
type Runner struct {
	HelperPath string
}

// New returns a Runner that launches sandbox-helper at helperPath.
func New(helperPath string) *Runner {
	return &Runner{HelperPath: helperPath}
}

// pipeQuad is the four proxy pipes connecting the program and interactor,
// named for which peer's stdio each end is wired to.
type pipeQuad struct {
	// program's stdout -> proxy
	programOut *os.File // read end, owned by proxy
	programOutWrite *os.File // write end, given to program's sandbox as stdout

	// interactor's stdout -> proxy
	interactorOut      *os.File
	interactorOutWrite *os.File

	// proxy -> program's stdin
	programIn      *os.File // read end, given to program's sandbox as stdin
	programInWrite *os.File // write end, owned by proxy

	// proxy -> interactor's stdin
	interactorIn      *os.File
	interactorInWrite *os.File
}

func newPipeQuad() (*pipeQuad, error) {
	mk := func() (r, w *os.File, err error) {
		r, w, err = os.Pipe()
		if err != nil {
			err = judgeerr.Wrapf(err, judgeerr.SandboxSetupFailed, "create proxy pipe")
		}
		return
	}

	q := &pipeQuad{}
	var err error
	if q.programOut, q.programOutWrite, err = mk(); err != nil {
		return nil, err
	}
	if q.interactorOut, q.interactorOutWrite, err = mk(); err != nil {
		return nil, err
	}
	if q.programIn, q.programInWrite, err = mk(); err != nil {
		return nil, err
	}
	if q.interactorIn, q.interactorInWrite, err = mk(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *pipeQuad) closeAll() {
	for _, f := range []*os.File{
		q.programOut, q.programOutWrite,
		q.interactorOut, q.interactorOutWrite,
		q.programIn, q.programInWrite,
		q.interactorIn, q.interactorInWrite,
	} {
		if f != nil {
			_ = f.Close()
		}
	}
}

// RunInteract launches cfg.Program and interactorExecutor as peers over the
// proxy topology above, shuttling bytes via the platform event loop
// (epoll on Linux; see interactive_linux.go / interactive_stub.go), tee-ing
// every byte observed to teePath, and returning once both peers have
// exited. ctx, if it carries a deadline, lets a caller bound an otherwise
// unbounded interactive run — on cancellation both children are killed and
// the verdict is synthesized as IdlenessLimitExceeded.
func (r *Runner) RunInteract(ctx context.Context, cfg judgecfg.JudgeConfig, interactorExecutor *langspec.Executor, teePath string) (*Result, error) {
	quad, err := newPipeQuad()
	if err != nil {
		return nil, err
	}
	defer quad.closeAll()

	tee, err := os.OpenFile(teePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, judgeerr.Wrapf(err, judgeerr.SandboxSetupFailed, "open tee log %s", teePath)
	}
	defer tee.Close()

	exitReadProgram, exitWriteProgram, err := os.Pipe()
	if err != nil {
		return nil, judgeerr.Wrapf(err, judgeerr.SandboxSetupFailed, "create program exit pipe")
	}
	defer exitReadProgram.Close()

	exitReadInteractor, exitWriteInteractor, err := os.Pipe()
	if err != nil {
		return nil, judgeerr.Wrapf(err, judgeerr.SandboxSetupFailed, "create interactor exit pipe")
	}
	defer exitReadInteractor.Close()

	programSandbox := sandbox.New(r.HelperPath, cfg.Program.Executor, cfg.Runtime.Limits, true).
		WithStdin("", quad.programIn).
		WithStdout("", quad.programOutWrite)
	interactorSandbox := sandbox.New(r.HelperPath, interactorExecutor, rlimit.ScriptSet(), false).
		WithStdin("", quad.interactorIn).
		WithStdout("", quad.interactorOutWrite)

	listenerA := listener.New(exitWriteProgram)
	listenerB := listener.New(exitWriteInteractor)

	go func() {
		defer exitWriteProgram.Close()
		_ = listenerA.Run(ctx, programSandbox)
	}()
	go func() {
		defer exitWriteInteractor.Close()
		_ = listenerB.Run(ctx, interactorSandbox)
	}()

	// These ends belong to the children now; the proxy only ever touches
	// its own read/write halves below.
	_ = quad.programIn.Close()
	_ = quad.programOutWrite.Close()
	_ = quad.interactorIn.Close()
	_ = quad.interactorOutWrite.Close()
	quad.programIn = nil
	quad.programOutWrite = nil
	quad.interactorIn = nil
	quad.interactorOutWrite = nil

	loopResult, err := runEventLoop(ctx, eventLoopIO{
		proxyReadProgram:     quad.programOut,
		proxyWriteProgram:    quad.programInWrite,
		proxyReadInteractor:  quad.interactorOut,
		proxyWriteInteractor: quad.interactorInWrite,
		exitReadProgram:      exitReadProgram,
		exitReadInteractor:   exitReadInteractor,
		tee:                  tee,
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		ProgramExit:    loopResult.programExit,
		InteractorExit: loopResult.interactorExit,
	}

	if loopResult.programExit == nil || loopResult.interactorExit == nil {
		res.Verdict = verdict.IdlenessLimitExceeded
		return res, nil
	}

	cpuLimit := cfg.Runtime.Limits.CPUSeconds.Soft
	programVerdict := verdict.ClassifyUser(loopResult.programExit, cpuLimit)
	if programVerdict != verdict.Accepted {
		res.Verdict = programVerdict
		return res, nil
	}

	if cfg.Checker.Executor != nil {
		checkerExit, err := r.runChecker(ctx, cfg, teePath)
		if err != nil {
			return nil, err
		}
		res.Checker = checkerExit
		res.Verdict = verdict.ClassifyChecker(checkerExit.ExitStatus)
		return res, nil
	}

	res.Verdict = verdict.Accepted
	return res, nil
}

// runChecker runs cfg's checker against the tee-captured exchange, exactly
// as the Common Judge does for non-interactive cases: argv is
// [input, program_output, answer, checker_log], run
// unrestricted under the script resource set. Interactive problems that
// configure a checker use the tee log as the checker's "program output"
// argument, since there is no single captured stdout file in this mode.
func (r *Runner) runChecker(ctx context.Context, cfg judgecfg.JudgeConfig, programOutputPath string) (*sandbox.ExitInfo, error) {
	cfg.Checker.Executor.SetAdditionalArgs([]string{
		cfg.TestData.InputFilePath,
		programOutputPath,
		cfg.TestData.AnswerFilePath,
		cfg.Checker.OutputFilePath,
	})

	sb := sandbox.New(r.HelperPath, cfg.Checker.Executor, rlimit.ScriptSet(), false).
		WithStdout(cfg.Checker.OutputFilePath, nil)
	if err := sb.Spawn(ctx); err != nil {
		return nil, err
	}
	return sb.Wait()
}

// loopResult is what the platform event loop hands back once both peers
// have exited (or the context was cancelled).
type loopResult struct {
	programExit    *sandbox.ExitInfo
	interactorExit *sandbox.ExitInfo
}

// eventLoopIO names every fd/sink the platform event loop touches. Proxy
// read fds are drained and forwarded to the *other* peer's write fd plus
// the tee; exit read fds are drained and JSON-decoded into an ExitMessage.
type eventLoopIO struct {
	proxyReadProgram     *os.File
	proxyWriteProgram    *os.File
	proxyReadInteractor  *os.File
	proxyWriteInteractor *os.File
	exitReadProgram      *os.File
	exitReadInteractor   *os.File
	tee                  *os.File
}

// pollTimeout bounds how long one epoll_wait call blocks, so the event loop
// can still observe ctx cancellation promptly even with no fd activity.
const pollTimeout = 200 * time.Millisecond

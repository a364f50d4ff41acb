// Package verdict classifies a finished sandboxed run into the fixed set of
// outcomes a judge reports, following the classification rules ported from
// the upstream check_user_result and check_checker_result functions.
package verdict

import "github.com/oj-lab/judger/internal/sandbox"

// Verdict is the final classification of one test case.
type Verdict string

const (
	Accepted              Verdict = "Accepted"
	WrongAnswer           Verdict = "WrongAnswer"
	TimeLimitExceeded     Verdict = "TimeLimitExceeded"
	IdlenessLimitExceeded Verdict = "IdlenessLimitExceeded"
	RuntimeError          Verdict = "RuntimeError"
	PartialScore          Verdict = "PartialScore"
	SystemError           Verdict = "SystemError"
	CompileError          Verdict = "CompileError"
)

// checkerWrongAnswerStatus is the raw wait status a checker process reports
// for "wrong answer" — the literal 16-bit encoding (exit code 1 shifted into
// the high byte), not the plain exit code 1. Preserved verbatim from the
// source this was ported from.
const checkerWrongAnswerStatus = 256

// ClassifyUser turns a user program's sandbox exit info into a verdict,
// treating it as a candidate Accepted pending the checker's own verdict (or
// RuntimeError/TimeLimitExceeded when the run itself failed). It does not
// and cannot determine WrongAnswer: only the checker can do that.
func ClassifyUser(info *sandbox.ExitInfo, cpuLimitSeconds uint64) Verdict {
	if info == nil {
		return SystemError
	}
	cpuTime := info.Usage.UserTime + info.Usage.SystemTime
	if cpuTime.Seconds() > float64(cpuLimitSeconds) || info.WallTime.Seconds() > float64(cpuLimitSeconds) {
		return TimeLimitExceeded
	}
	if info.ExitSignal != 0 || info.ExitCode != 0 {
		return RuntimeError
	}
	return Accepted
}

// ClassifyChecker turns a checker process's raw wait status into a verdict.
func ClassifyChecker(waitStatus int) Verdict {
	switch {
	case waitStatus == 0:
		return Accepted
	case waitStatus == checkerWrongAnswerStatus:
		return WrongAnswer
	default:
		return SystemError
	}
}

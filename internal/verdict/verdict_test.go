package verdict

import (
	"testing"
	"time"

	"github.com/oj-lab/judger/internal/sandbox"
)

func TestClassifyUser(t *testing.T) {
	cases := []struct {
		name string
		info *sandbox.ExitInfo
		cpu  uint64
		want Verdict
	}{
		{
			name: "nil exit info is a system error",
			info: nil,
			cpu:  1,
			want: SystemError,
		},
		{
			name: "clean exit within cpu limit is accepted",
			info: &sandbox.ExitInfo{Usage: sandbox.Rusage{UserTime: 500 * time.Millisecond}},
			cpu:  1,
			want: Accepted,
		},
		{
			name: "user time over cpu limit is tle even with clean exit",
			info: &sandbox.ExitInfo{Usage: sandbox.Rusage{UserTime: 2 * time.Second}},
			cpu:  1,
			want: TimeLimitExceeded,
		},
		{
			name: "system time added to user time can push a syscall-heavy program over the cpu limit",
			info: &sandbox.ExitInfo{Usage: sandbox.Rusage{UserTime: 400 * time.Millisecond, SystemTime: 700 * time.Millisecond}},
			cpu:  1,
			want: TimeLimitExceeded,
		},
		{
			name: "nonzero exit code is a runtime error",
			info: &sandbox.ExitInfo{ExitCode: 1, Usage: sandbox.Rusage{UserTime: 10 * time.Millisecond}},
			cpu:  1,
			want: RuntimeError,
		},
		{
			name: "killed by signal is a runtime error",
			info: &sandbox.ExitInfo{ExitSignal: 11},
			cpu:  1,
			want: RuntimeError,
		},
		{
			name: "tle classification wins over signal",
			info: &sandbox.ExitInfo{ExitSignal: 9, Usage: sandbox.Rusage{UserTime: 5 * time.Second}},
			cpu:  1,
			want: TimeLimitExceeded,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ClassifyUser(c.info, c.cpu); got != c.want {
				t.Errorf("ClassifyUser() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestClassifyChecker(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   Verdict
	}{
		{"zero status is accepted", 0, Accepted},
		{"256 is the raw wait-status for wrong answer, not exit code 1", 256, WrongAnswer},
		{"exit code 1 alone does not mean wrong answer", 1, SystemError},
		{"any other status is a system error", 512, SystemError},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ClassifyChecker(c.status); got != c.want {
				t.Errorf("ClassifyChecker(%d) = %v, want %v", c.status, got, c.want)
			}
		})
	}
}

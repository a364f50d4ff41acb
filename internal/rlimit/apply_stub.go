//go:build !linux

package rlimit

import "github.com/oj-lab/judger/internal/judgeerr"

// ApplyToSelf is unsupported outside Linux; the sandbox core as a whole only
// runs on Linux (seccomp, epoll, rusage via wait4 are all Linux-specific).
func (s Set) ApplyToSelf() error {
	return judgeerr.New(judgeerr.SandboxSetupFailed).WithDetail("reason", "rlimit.ApplyToSelf requires linux")
}

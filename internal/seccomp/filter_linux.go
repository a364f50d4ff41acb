//go:build linux

package seccomp

import (
	seccomp "github.com/seccomp/libseccomp-golang"
	"golang.org/x/sys/unix"

	"github.com/oj-lab/judger/internal/judgeerr"
)

// Load builds and installs a filter for mode in the calling process. It must
// run after rlimits are applied and immediately before exec: loading the
// filter first would make the rlimit syscalls themselves subject to it, and
// installing it any later would let the untrusted program run even one
// instruction unguarded.
func Load(mode Mode) error {
	defaultAction := seccomp.ActAllow
	if mode == Restricted {
		defaultAction = seccomp.ActKillProcess
	}

	filter, err := seccomp.NewFilter(defaultAction)
	if err != nil {
		return judgeerr.Wrapf(err, judgeerr.SeccompFailed, "create filter")
	}

	if mode == Restricted {
		for _, name := range Whitelist {
			call, err := seccomp.GetSyscallFromName(name)
			if err != nil {
				// A syscall name in the whitelist that the running kernel's
				// libseccomp doesn't recognize is a configuration bug, not a
				// runtime condition to tolerate silently.
				return judgeerr.Wrapf(err, judgeerr.SeccompFailed, "unknown syscall %q", name)
			}
			if err := filter.AddRuleExact(call, seccomp.ActAllow); err != nil {
				return judgeerr.Wrapf(err, judgeerr.SeccompFailed, "allow syscall %q", name)
			}
		}
	}

	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		return judgeerr.Wrapf(err, judgeerr.SeccompFailed, "set no_new_privs")
	}
	if err := filter.Load(); err != nil {
		return judgeerr.Wrapf(err, judgeerr.SeccompFailed, "load filter")
	}
	return nil
}

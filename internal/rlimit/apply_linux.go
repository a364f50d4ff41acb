//go:build linux

package rlimit

import (
	"golang.org/x/sys/unix"

	"github.com/oj-lab/judger/internal/judgeerr"
)

// ApplyToSelf sets each present dimension's soft/hard ceiling on the calling
// process, in address-space, stack, CPU order. This must only ever be called
// inside the sandbox helper process before it execs the target program —
// never in the judge process itself, which runs unsandboxed and multi-
// threaded. Failure to set any limit is returned as-is so the caller can
// treat it as fatal.
//
// The CPU dimension gets +1 second added to both soft and hard before being
// loaded: the kernel delivers SIGXCPU/SIGKILL with a few milliseconds of
// jitter around the limit, and the verdict layer classifies TLE by comparing
// measured time against the original (unpadded) limit, so the padding only
// buys the kernel's enforcement a margin it needs anyway.
func (s Set) ApplyToSelf() error {
	if s.AddressSpace.Set {
		if err := setrlimit(unix.RLIMIT_AS, s.AddressSpace.Soft, s.AddressSpace.Hard); err != nil {
			return judgeerr.Wrapf(err, judgeerr.SandboxSetupFailed, "set RLIMIT_AS")
		}
	}
	if s.Stack.Set {
		if err := setrlimit(unix.RLIMIT_STACK, s.Stack.Soft, s.Stack.Hard); err != nil {
			return judgeerr.Wrapf(err, judgeerr.SandboxSetupFailed, "set RLIMIT_STACK")
		}
	}
	if s.CPUSeconds.Set {
		if err := setrlimit(unix.RLIMIT_CPU, s.CPUSeconds.Soft+1, s.CPUSeconds.Hard+1); err != nil {
			return judgeerr.Wrapf(err, judgeerr.SandboxSetupFailed, "set RLIMIT_CPU")
		}
	}
	return nil
}

func setrlimit(resource int, soft, hard uint64) error {
	return unix.Setrlimit(resource, &unix.Rlimit{Cur: soft, Max: hard})
}

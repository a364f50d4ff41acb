// Package rlimit holds the resource-ceiling configuration applied to a
// sandboxed child before it execs, and the two predefined presets the rest
// of the judge core reuses (a tight default for contestant programs, a
// looser one for operator-trusted checkers and interactors).
package rlimit

// Dim is one resource dimension: an optional (soft, hard) pair. Set is false
// when the dimension is absent and should be left at its inherited value.
type Dim struct {
	Soft uint64
	Hard uint64
	Set  bool
}

// Of returns a set Dim with equal soft and hard ceilings.
func Of(limit uint64) Dim { return Dim{Soft: limit, Hard: limit, Set: true} }

// Range returns a set Dim with distinct soft and hard ceilings.
func Range(soft, hard uint64) Dim { return Dim{Soft: soft, Hard: hard, Set: true} }

// Set is the full resource-limit configuration for one sandboxed run. It is
// a plain value type: freely copyable, comparable, and safe to marshal as
// JSON for the helper-process request (see sandboxproto).
type Set struct {
	AddressSpace Dim `json:"addressSpace,omitempty" yaml:"addressSpace,omitempty"`
	Stack        Dim `json:"stack,omitempty" yaml:"stack,omitempty"`
	CPUSeconds   Dim `json:"cpuSeconds,omitempty" yaml:"cpuSeconds,omitempty"`
	// NProc and FSize are recorded in the data model (and, for FSize,
	// populated by problem.yaml's limits.output) but are never applied by
	// ApplyToSelf. This mirrors the upstream implementation's final shape,
	// which only ever loads RLIMIT_AS/STACK/CPU; preserved here rather than
	// "fixed" to stay behavior-compatible with it.
	NProc Dim `json:"nproc,omitempty" yaml:"nproc,omitempty"`
	FSize Dim `json:"fsize,omitempty" yaml:"fsize,omitempty"`
}

const (
	mib = 1024 * 1024
	gib = 1024 * mib
)

// DefaultProgramSet is the tight limit set applied to untrusted contestant
// programs before package metadata (problem.yaml, .timelimit) overrides it.
func DefaultProgramSet() Set {
	return Set{
		AddressSpace: Of(64 * mib),
		Stack:        Of(64 * mib),
		CPUSeconds:   Range(1, 2),
		NProc:        Of(1),
		FSize:        Of(1024),
	}
}

// ScriptSet is the looser limit set for operator-trusted checkers and
// interactors, which need headroom the contestant program is never given.
func ScriptSet() Set {
	return Set{
		AddressSpace: Of(1 * gib),
		Stack:        Of(16 * mib),
		CPUSeconds:   Range(60, 90),
		NProc:        Of(1),
		FSize:        Of(1024),
	}
}

// WithCPUSecondsLimit returns a copy of s with the CPU dimension overwritten
// to a single value used as both soft and hard ceiling, as read from a
// package's .timelimit file.
func (s Set) WithCPUSecondsLimit(seconds uint64) Set {
	s.CPUSeconds = Of(seconds)
	return s
}

// WithAddressSpaceBytes returns a copy of s with the address-space ceiling
// overwritten, as read from problem.yaml's limits.memory (already converted
// to bytes by the caller).
func (s Set) WithAddressSpaceBytes(bytes uint64) Set {
	s.AddressSpace = Of(bytes)
	return s
}

// WithFSizeBytes returns a copy of s with the file-size ceiling overwritten,
// as read from problem.yaml's limits.output. Recorded for completeness; see
// the doc comment on Set.FSize for why this is never actually enforced.
func (s Set) WithFSizeBytes(bytes uint64) Set {
	s.FSize = Of(bytes)
	return s
}

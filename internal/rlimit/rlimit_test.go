package rlimit

import "testing"

func TestDefaultProgramSet(t *testing.T) {
	s := DefaultProgramSet()

	if s.AddressSpace.Soft != 64*mib || !s.AddressSpace.Set {
		t.Errorf("AddressSpace = %+v, want 64MiB set", s.AddressSpace)
	}
	if s.CPUSeconds.Soft != 1 || s.CPUSeconds.Hard != 2 {
		t.Errorf("CPUSeconds = %+v, want soft=1 hard=2", s.CPUSeconds)
	}
	if s.NProc.Soft != 1 {
		t.Errorf("NProc = %+v, want 1", s.NProc)
	}
}

func TestScriptSetIsLooserThanProgramSet(t *testing.T) {
	program := DefaultProgramSet()
	script := ScriptSet()

	if script.AddressSpace.Soft <= program.AddressSpace.Soft {
		t.Errorf("script address space %d should exceed program's %d", script.AddressSpace.Soft, program.AddressSpace.Soft)
	}
	if script.CPUSeconds.Soft <= program.CPUSeconds.Hard {
		t.Errorf("script cpu soft %d should exceed program's cpu hard %d", script.CPUSeconds.Soft, program.CPUSeconds.Hard)
	}
}

func TestWithCPUSecondsLimitOverridesBothBounds(t *testing.T) {
	s := DefaultProgramSet().WithCPUSecondsLimit(7)
	if s.CPUSeconds.Soft != 7 || s.CPUSeconds.Hard != 7 {
		t.Errorf("CPUSeconds = %+v, want soft=hard=7", s.CPUSeconds)
	}
}

func TestWithAddressSpaceBytes(t *testing.T) {
	s := DefaultProgramSet().WithAddressSpaceBytes(256 * mib)
	if s.AddressSpace.Soft != 256*mib || s.AddressSpace.Hard != 256*mib {
		t.Errorf("AddressSpace = %+v, want 256MiB both bounds", s.AddressSpace)
	}
}

func TestWithFSizeBytesRecordedButUnenforced(t *testing.T) {
	s := DefaultProgramSet().WithFSizeBytes(4096)
	if s.FSize.Soft != 4096 {
		t.Errorf("FSize.Soft = %d, want 4096", s.FSize.Soft)
	}
}

func TestOfSetsEqualBounds(t *testing.T) {
	d := Of(42)
	if !d.Set || d.Soft != 42 || d.Hard != 42 {
		t.Errorf("Of(42) = %+v, want Set soft=hard=42", d)
	}
}

func TestRangeSetsDistinctBounds(t *testing.T) {
	d := Range(1, 2)
	if !d.Set || d.Soft != 1 || d.Hard != 2 {
		t.Errorf("Range(1,2) = %+v, want Set soft=1 hard=2", d)
	}
}

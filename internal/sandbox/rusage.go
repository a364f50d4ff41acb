package sandbox

import (
	"syscall"
	"time"
)

// fromSyscallRusage adapts the OS-reported rusage struct into the judge
// core's own Rusage shape. Fields are those POSIX guarantees across the
// unix family; Go's syscall.Rusage differs cosmetically by platform but
// carries the same data.
func fromSyscallRusage(ru *syscall.Rusage) Rusage {
	return Rusage{
		UserTime:               timevalToDuration(ru.Utime),
		SystemTime:             timevalToDuration(ru.Stime),
		MaxRSSKB:               int64(ru.Maxrss),
		PageFaults:             int64(ru.Majflt),
		InvoluntaryCtxSwitches: int64(ru.Nivcsw),
		VoluntaryCtxSwitches:   int64(ru.Nvcsw),
	}
}

func timevalToDuration(tv syscall.Timeval) time.Duration {
	return time.Duration(tv.Sec)*time.Second + time.Duration(tv.Usec)*time.Microsecond
}

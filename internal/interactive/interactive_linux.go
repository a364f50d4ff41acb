//go:build linux

package interactive

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"golang.org/x/sys/unix"

	"github.com/oj-lab/judger/internal/judgeerr"
	"github.com/oj-lab/judger/internal/listener"
	"github.com/oj-lab/judger/internal/sandbox"
)

// runEventLoop shuttles bytes between the two peers with epoll: register
// both proxy-read fds and both exit-read fds, level-triggered/readable;
// shuttle proxy bytes to the peer's write fd and the tee; decode exit
// messages off the exit-read fds; stop once both peers have exited or ctx
// is done.
func runEventLoop(ctx context.Context, io eventLoopIO) (*loopResult, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, judgeerr.Wrapf(err, judgeerr.SandboxSetupFailed, "epoll_create1")
	}
	defer unix.Close(epfd)

	type watched struct {
		fd   int
		kind string // "program-out", "interactor-out", "program-exit", "interactor-exit"
	}
	fds := []watched{
		{int(io.proxyReadProgram.Fd()), "program-out"},
		{int(io.proxyReadInteractor.Fd()), "interactor-out"},
		{int(io.exitReadProgram.Fd()), "program-exit"},
		{int(io.exitReadInteractor.Fd()), "interactor-exit"},
	}
	for _, w := range fds {
		if err := unix.SetNonblock(w.fd, true); err != nil {
			return nil, judgeerr.Wrapf(err, judgeerr.SandboxSetupFailed, "set nonblocking fd %d", w.fd)
		}
		ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(w.fd)}
		if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, w.fd, &ev); err != nil {
			return nil, judgeerr.Wrapf(err, judgeerr.SandboxSetupFailed, "epoll_ctl add fd %d", w.fd)
		}
	}
	byFd := make(map[int]string, len(fds))
	for _, w := range fds {
		byFd[w.fd] = w.kind
	}

	result := &loopResult{}
	var programExitBuf, interactorExitBuf bytes.Buffer
	programDone := false
	interactorDone := false

	events := make([]unix.EpollEvent, len(fds))
	buf := make([]byte, 64*1024)

	for !(programDone && interactorDone) {
		if err := ctx.Err(); err != nil {
			return result, nil
		}

		n, err := unix.EpollWait(epfd, events, int(pollTimeout.Milliseconds()))
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return nil, judgeerr.Wrapf(err, judgeerr.SandboxSetupFailed, "epoll_wait")
		}

		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			switch byFd[fd] {
			case "program-out":
				drainAndForward(fd, int(io.proxyWriteInteractor.Fd()), io.tee, buf)
			case "interactor-out":
				drainAndForward(fd, int(io.proxyWriteProgram.Fd()), io.tee, buf)
			case "program-exit":
				if drainInto(fd, &programExitBuf, buf) {
					result.programExit = decodeExit(programExitBuf.Bytes())
					programDone = true
				}
			case "interactor-exit":
				if drainInto(fd, &interactorExitBuf, buf) {
					result.interactorExit = decodeExit(interactorExitBuf.Bytes())
					interactorDone = true
				}
			}
		}
	}

	return result, nil
}

// drainAndForward reads everything currently available on src, writing it
// to dst (the peer's stdin) and to tee (best-effort, errors ignored — a
// failed tee write must never abort the byte shuttle itself).
func drainAndForward(src, dst int, tee io.Writer, buf []byte) {
	for {
		n, err := unix.Read(src, buf)
		if n > 0 {
			chunk := buf[:n]
			_, _ = unix.Write(dst, chunk)
			_, _ = tee.Write(chunk)
		}
		if err != nil || n <= 0 {
			return
		}
	}
}

// drainInto reads everything currently available on src into acc and
// reports whether acc now holds a complete JSON document (the exit
// listener writes exactly one before closing its end, so EOF or a
// successful parse both mean "done").
func drainInto(src int, acc *bytes.Buffer, buf []byte) bool {
	eof := false
	for {
		n, err := unix.Read(src, buf)
		if n > 0 {
			acc.Write(buf[:n])
		}
		if n == 0 && err == nil {
			eof = true
		}
		if err != nil || n <= 0 {
			break
		}
	}
	if eof {
		return true
	}
	if acc.Len() == 0 {
		return false
	}
	return json.Valid(bytes.TrimSpace(acc.Bytes()))
}

func decodeExit(data []byte) *sandbox.ExitInfo {
	var msg listener.ExitMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &msg); err != nil {
		return nil
	}
	if msg.Err != "" {
		return nil
	}
	return msg.Result
}

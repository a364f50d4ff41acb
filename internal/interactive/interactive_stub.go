//go:build !linux

package interactive

import (
	"context"

	"github.com/oj-lab/judger/internal/judgeerr"
)

// runEventLoop has no non-Linux implementation: the epoll-based proxy
// shuttle in interactive_linux.go is the only platform this judge core
// targets.
func runEventLoop(_ context.Context, _ eventLoopIO) (*loopResult, error) {
	return nil, judgeerr.New(judgeerr.Internal).WithDetail("reason", "interactive judge requires linux (epoll)")
}

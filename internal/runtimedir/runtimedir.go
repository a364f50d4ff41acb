// Package runtimedir allocates the per-judge scratch directory the
// orchestrator owns and the sandbox core never garbage-collects: one fresh
// UUID-named directory under a caller-chosen root, holding the compiled
// program, per-case output captures, and the testdata copy.
package runtimedir

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/oj-lab/judger/internal/judgeerr"
)

// New creates and returns a fresh scratch directory under root, named by a
// new UUID.
func New(root string) (string, error) {
	path := filepath.Join(root, uuid.NewString())
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", judgeerr.Wrapf(err, judgeerr.Internal, "create runtime directory %s", path)
	}
	return path, nil
}

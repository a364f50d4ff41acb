// Package pkgagent defines the problem-package loader contract: one Agent
// implementation per package format, selected by Type. Kept as an interface
// even though ICPC is the only implementation today, mirroring the upstream
// package module's own PackageAgent trait, so a second format is a new
// Agent, not a rewrite of the Judge Builder.
package pkgagent

import (
	"context"

	"github.com/oj-lab/judger/internal/judgecfg"
	"github.com/oj-lab/judger/internal/rlimit"
)

// Type is a problem-package format tag.
type Type string

const (
	ICPC Type = "icpc"
)

// Valid reports whether t is a known package type.
func (t Type) Valid() bool {
	return t == ICPC
}

// Testdata names one input/answer pair as the package agent found it on
// disk, preserving the original source paths rather than a scratch copy.
type Testdata struct {
	Name           string
	InputFilePath  string
	AnswerFilePath string
}

// Agent loads one problem-package format from a directory on disk.
type Agent interface {
	// Validate reports whether packagePath looks like a well-formed package
	// of this agent's format.
	Validate(packagePath string) bool

	// RlimitConfigs reads the package's own limit overrides (a .timelimit
	// file, problem.yaml's limits.memory/limits.output) layered on top of
	// rlimit.DefaultProgramSet.
	RlimitConfigs(packagePath string) (rlimit.Set, error)

	// LoadTestdata enumerates the package's input/answer pairs.
	LoadTestdata(packagePath string) ([]Testdata, error)

	// CopyTestdata mirrors the input half of testdata into runtimePath,
	// preserving this format's directory structure. Populates the runtime
	// scratch directory for inspection; callers still read testdata from the
	// paths LoadTestdata returned, not from this copy.
	CopyTestdata(packagePath, runtimePath string, testdata []Testdata) error

	// LoadChecker resolves the package's checker/validator, if any. A nil
	// config (or a nil Executor) with a nil error means the package has no
	// loadable checker and the caller should fall back to a plain diff.
	LoadChecker(ctx context.Context, packagePath string) (*judgecfg.CheckerConfig, error)
}

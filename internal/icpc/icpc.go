// Package icpc implements the pkgagent.Agent contract for the ICPC problem
// package layout: a data/ directory of *.in/*.ans pairs, an optional
// .timelimit file, an optional problem.yaml, and an optional
// output_validators/ directory. This is the sole package format the Judge
// Builder supports today.
package icpc

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/oj-lab/judger/internal/judgecfg"
	"github.com/oj-lab/judger/internal/judgeerr"
	"github.com/oj-lab/judger/internal/logger"
	"github.com/oj-lab/judger/internal/pkgagent"
	"github.com/oj-lab/judger/internal/rlimit"
)

const (
	dataDirName             = "data"
	timeLimitFileName       = ".timelimit"
	problemYAMLName         = "problem.yaml"
	outputValidatorsDirName = "output_validators"

	bytesPerMiB = 1024 * 1024
)

// Agent is the ICPC package-format implementation of pkgagent.Agent.
type Agent struct{}

// New returns an ICPC package Agent.
func New() *Agent { return &Agent{} }

var _ pkgagent.Agent = (*Agent)(nil)

// Validate reports whether packagePath has a data/ directory, the minimum a
// package of this format needs.
func (a *Agent) Validate(packagePath string) bool {
	info, err := os.Stat(filepath.Join(packagePath, dataDirName))
	return err == nil && info.IsDir()
}

type problemYAML struct {
	Limits struct {
		Memory int64 `yaml:"memory"`
		Output int64 `yaml:"output"`
	} `yaml:"limits"`
}

// RlimitConfigs layers .timelimit and problem.yaml overrides on top of
// rlimit.DefaultProgramSet. Missing files, or missing fields within
// problem.yaml, leave the corresponding dimension at its default.
func (a *Agent) RlimitConfigs(packagePath string) (rlimit.Set, error) {
	limits := rlimit.DefaultProgramSet()

	if seconds, ok, err := readTimeLimit(packagePath); err != nil {
		return rlimit.Set{}, err
	} else if ok {
		limits = limits.WithCPUSecondsLimit(seconds)
	}

	yamlPath := filepath.Join(packagePath, problemYAMLName)
	if data, err := os.ReadFile(yamlPath); err == nil {
		var doc problemYAML
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return rlimit.Set{}, judgeerr.Wrapf(err, judgeerr.PackageInvalid, "parse %s", problemYAMLName)
		}
		if doc.Limits.Memory > 0 {
			limits = limits.WithAddressSpaceBytes(uint64(doc.Limits.Memory) * bytesPerMiB)
		}
		if doc.Limits.Output > 0 {
			limits = limits.WithFSizeBytes(uint64(doc.Limits.Output))
		}
	} else if !os.IsNotExist(err) {
		return rlimit.Set{}, judgeerr.Wrapf(err, judgeerr.PackageInvalid, "read %s", problemYAMLName)
	}

	return limits, nil
}

func readTimeLimit(packagePath string) (seconds uint64, ok bool, err error) {
	data, readErr := os.ReadFile(filepath.Join(packagePath, timeLimitFileName))
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return 0, false, nil
		}
		return 0, false, judgeerr.Wrapf(readErr, judgeerr.PackageInvalid, "read %s", timeLimitFileName)
	}
	n, parseErr := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if parseErr != nil {
		return 0, false, judgeerr.Wrapf(parseErr, judgeerr.PackageInvalid, "parse %s", timeLimitFileName)
	}
	return n, true, nil
}

// LoadTestdata recursively walks packagePath/data, pairing every *.in with a
// sibling *.ans and silently dropping unpaired inputs. The returned entries
// name the source package paths, not a runtime copy — CopyTestdata below
// performs the (semantically unused, but spec-preserved) copy separately.
func (a *Agent) LoadTestdata(packagePath string) ([]pkgagent.Testdata, error) {
	dataDir := filepath.Join(packagePath, dataDirName)
	var entries []pkgagent.Testdata

	err := filepath.WalkDir(dataDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".in" {
			return nil
		}
		ansPath := strings.TrimSuffix(path, ".in") + ".ans"
		if _, statErr := os.Stat(ansPath); statErr != nil {
			return nil
		}
		rel, relErr := filepath.Rel(dataDir, path)
		if relErr != nil {
			rel = filepath.Base(path)
		}
		entries = append(entries, pkgagent.Testdata{
			Name:           strings.TrimSuffix(rel, ".in"),
			InputFilePath:  path,
			AnswerFilePath: ansPath,
		})
		return nil
	})
	if err != nil {
		return nil, judgeerr.Wrapf(err, judgeerr.PackageInvalid, "walk %s", dataDir)
	}
	if len(entries) == 0 {
		return nil, judgeerr.New(judgeerr.NoTestdata).WithDetail("package_path", packagePath)
	}
	return entries, nil
}

// CopyTestdata mirrors every *.in file named by entries into
// runtimePath/data, preserving directory structure. The Builder calls this
// for its side effect (a populated, inspectable runtime scratch directory);
// the *returned* TestdataConfig still reads from the source paths, so this
// copy has no effect on what a judge actually reads.
func (a *Agent) CopyTestdata(packagePath, runtimePath string, entries []pkgagent.Testdata) error {
	dataDir := filepath.Join(packagePath, dataDirName)
	destDir := filepath.Join(runtimePath, dataDirName)
	for _, e := range entries {
		rel, err := filepath.Rel(dataDir, e.InputFilePath)
		if err != nil {
			rel = filepath.Base(e.InputFilePath)
		}
		dest := filepath.Join(destDir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return judgeerr.Wrapf(err, judgeerr.Internal, "create testdata scratch dir")
		}
		if err := copyFile(e.InputFilePath, dest); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return judgeerr.Wrapf(err, judgeerr.Internal, "open testdata source %s", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return judgeerr.Wrapf(err, judgeerr.Internal, "create testdata copy %s", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return judgeerr.Wrapf(err, judgeerr.Internal, "copy testdata to %s", dst)
	}
	return nil
}

// LoadChecker looks for output_validators/ and, if present, only logs that
// custom checkers are not yet loaded, falling back to the default
// line-compare checker. A real loader would pick a checker binary and
// language out of that directory; this implementation intentionally stops
// at detection.
func (a *Agent) LoadChecker(ctx context.Context, packagePath string) (*judgecfg.CheckerConfig, error) {
	info, err := os.Stat(filepath.Join(packagePath, outputValidatorsDirName))
	if err == nil && info.IsDir() {
		logger.Warn(ctx, "custom output validators not loaded, falling back to line-compare checker",
			zap.String("package_path", packagePath))
	} else if err != nil && !os.IsNotExist(err) {
		return nil, judgeerr.Wrapf(err, judgeerr.PackageInvalid, "stat %s", outputValidatorsDirName)
	}
	return nil, nil
}

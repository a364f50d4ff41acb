// Command judger is the thin CLI wrapper around the sandboxed execution
// core: a "compile" subcommand for a single source file, and a "judge"
// subcommand that builds and runs a full submission against a problem
// package, carried over in shape from the original judge-cli binary's
// compile/batch-judge/no-subcommand surface.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oj-lab/judger/internal/aggregate"
	"github.com/oj-lab/judger/internal/builder"
	"github.com/oj-lab/judger/internal/compiler"
	"github.com/oj-lab/judger/internal/config"
	"github.com/oj-lab/judger/internal/judgeerr"
	"github.com/oj-lab/judger/internal/langspec"
	"github.com/oj-lab/judger/internal/logger"
	"github.com/oj-lab/judger/internal/pkgagent"
	"github.com/oj-lab/judger/internal/runtimedir"
	"github.com/oj-lab/judger/internal/verdict"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "judger",
		Short: "Sandboxed compile-and-judge core",
		Long:  "judger compiles a contestant source file and runs it against a problem package inside a syscall-filtered sandbox.",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults applied if omitted)")
	root.AddCommand(compileCmd())
	root.AddCommand(judgeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func compileCmd() *cobra.Command {
	var source, target, language string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a single source file into an executable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Logger); err != nil {
				return err
			}
			defer logger.Sync()

			lang := langspec.Language(language)
			if !lang.Valid() {
				return judgeerr.Newf(judgeerr.LanguageUnknown, "unsupported language %q", language)
			}

			ctx := context.Background()
			out, err := compiler.CompileWith(ctx, mergeLanguageTemplates(cfg.Languages), lang, source, target)
			if out != "" {
				fmt.Println(out)
			}
			if err != nil {
				return err
			}
			fmt.Printf("compiled %s -> %s\n", source, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "path of the source file")
	cmd.Flags().StringVarP(&target, "target", "t", "", "path to place the compiled executable")
	cmd.Flags().StringVarP(&language, "language", "l", "", "source language: rust | cpp | python")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("target")
	cmd.MarkFlagRequired("language")
	return cmd
}

func judgeCmd() *cobra.Command {
	var (
		source       string
		language     string
		packagePath  string
		packageType  string
		runtimeRoot  string
	)

	cmd := &cobra.Command{
		Use:   "judge",
		Short: "Build and run a full submission against a problem package",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Logger); err != nil {
				return err
			}
			defer logger.Sync()

			lang := langspec.Language(language)
			if !lang.Valid() {
				return judgeerr.Newf(judgeerr.LanguageUnknown, "unsupported language %q", language)
			}
			pkgType := pkgagent.Type(packageType)
			if !pkgType.Valid() {
				return judgeerr.Newf(judgeerr.PackageInvalid, "unsupported package type %q", packageType)
			}

			root := runtimeRoot
			if root == "" {
				root = cfg.WorkRoot
			}
			runtimePath, err := runtimedir.New(root)
			if err != nil {
				return err
			}

			ctx := context.Background()
			b := builder.New(nil)
			built, err := b.Build(ctx, builder.Input{
				PackageType: pkgType,
				PackagePath: packagePath,
				RuntimePath: runtimePath,
				Language:    lang,
				SrcPath:     source,
				Templates:   mergeLanguageTemplates(cfg.Languages),
			})
			if err != nil {
				if judgeerr.Is(err, judgeerr.CompileFailed) {
					fmt.Printf("verdict: %s\n", verdict.CompileError)
					fmt.Printf("  %v\n", err)
					return nil
				}
				return err
			}

			helperPath := cfg.Sandbox.HelperPath
			agg := aggregate.New(helperPath)
			result, err := agg.RunOneSubmission(ctx, built)
			if err != nil {
				return err
			}

			logger.Info(ctx, "submission finished",
				zap.String("verdict", string(result.Verdict)),
				zap.Int("cases_run", len(result.Cases)),
			)
			fmt.Printf("verdict: %s\n", result.Verdict)
			for i, c := range result.Cases {
				fmt.Printf("  case %d: %s (%s, %d bytes)\n", i+1, c.Verdict, c.TimeUsage, c.MemoryUsageBytes)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "path of the testing source file")
	cmd.Flags().StringVarP(&language, "source-language", "l", "", "source language: rust | cpp | python")
	cmd.Flags().StringVarP(&packagePath, "package", "p", "", "path of the problem package")
	cmd.Flags().StringVarP(&packageType, "package-type", "t", "icpc", "problem package type: icpc")
	cmd.Flags().StringVarP(&runtimeRoot, "runtime-root", "r", "", "directory to create the per-submission runtime scratch dir under (defaults to config's workRoot)")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("source-language")
	cmd.MarkFlagRequired("package")
	return cmd
}

// mergeLanguageTemplates layers a config document's per-language overrides
// on top of compiler.DefaultTemplates: an entry with a non-empty
// CompileTpl replaces that language's command template (BinaryName and
// ExtraCompile are not consumed here). Languages absent from entries keep
// their default template untouched.
func mergeLanguageTemplates(entries []config.LanguageEntry) map[langspec.Language]compiler.Template {
	merged := make(map[langspec.Language]compiler.Template, len(compiler.DefaultTemplates))
	for lang, tpl := range compiler.DefaultTemplates {
		merged[lang] = tpl
	}
	for _, e := range entries {
		if e.CompileTpl == "" {
			continue
		}
		merged[e.Language] = compiler.Template{Language: e.Language, Cmd: e.CompileTpl}
	}
	return merged
}

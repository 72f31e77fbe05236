// Package validate checks that the project's Python sources parse and that
// the files a deployment depends on are present.
package validate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/afero"

	"github.com/sqve/shipit/internal/config"
	shiperrors "github.com/sqve/shipit/internal/errors"
	shipfs "github.com/sqve/shipit/internal/fs"
	"github.com/sqve/shipit/internal/logger"
)

var errFileNotFound = errors.New("file not found")

// Options selects what a Validator inspects. Paths are relative to Root.
type Options struct {
	Root        string
	Files       []string
	ConfigFiles []string
	Expect      []config.ExpectRule
	Env         []string
}

// OptionsFromConfig builds Options for root from the validate section.
func OptionsFromConfig(root string, cfg config.SourcesConfig) Options {
	return Options{
		Root:        root,
		Files:       cfg.Files,
		ConfigFiles: cfg.ConfigFiles,
		Expect:      cfg.Expect,
		Env:         cfg.Env,
	}
}

// Validator runs the syntax check followed by the presence checks.
type Validator struct {
	fs        afero.Fs
	opts      Options
	checker   *Checker
	lookupEnv func(string) (string, bool)
}

func New(fs afero.Fs, opts Options) *Validator {
	return &Validator{
		fs:        shipfs.Or(fs),
		opts:      opts,
		checker:   NewChecker(),
		lookupEnv: os.LookupEnv,
	}
}

// WithEnv replaces the environment lookup used for validate.env checks.
func (v *Validator) WithEnv(lookup func(string) (string, bool)) *Validator {
	v.lookupEnv = lookup
	return v
}

// Run parses each source file in order and stops at the first failure,
// returning a VALIDATION_FAILED error naming that file. The report holds
// every file checked so far. Presence checks run only after all sources
// parse and never fail the run.
func (v *Validator) Run(ctx context.Context) (*Report, error) {
	log := logger.WithComponent("validate")
	start := time.Now()
	defer func() {
		log.Performance("validate", time.Since(start), "files", len(v.opts.Files))
	}()

	report := &Report{}

	for _, file := range v.opts.Files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result := FileResult{Path: file}
		structure, err := v.checkFile(ctx, file)
		if err != nil {
			result.Err = err
			report.Files = append(report.Files, result)
			log.Debug("source check failed", "file", file, "error", err)
			return report, shiperrors.ErrValidationFailed(file, err)
		}

		result.Classes = structure.Classes
		result.Functions = structure.Functions
		report.Files = append(report.Files, result)
		log.Debug("source check passed", "file", file, "classes", len(result.Classes), "functions", len(result.Functions))
	}

	for _, file := range v.opts.ConfigFiles {
		if !shipfs.FileExists(v.fs, v.path(file)) {
			report.MissingConfig = append(report.MissingConfig, file)
		}
	}

	for _, rule := range v.opts.Expect {
		result := report.file(rule.File)
		if result == nil {
			continue
		}
		var missing []string
		for _, class := range rule.Classes {
			if !slices.Contains(result.Classes, class) {
				missing = append(missing, class)
			}
		}
		if len(missing) > 0 {
			report.MissingClasses = append(report.MissingClasses, MissingClasses{File: rule.File, Classes: missing})
		}
	}

	for _, name := range v.opts.Env {
		if value, ok := v.lookupEnv(name); !ok || value == "" {
			report.UnsetEnv = append(report.UnsetEnv, name)
		}
	}

	return report, nil
}

func (v *Validator) checkFile(ctx context.Context, file string) (*Structure, error) {
	content, err := afero.ReadFile(v.fs, v.path(file))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errFileNotFound
		}
		return nil, err
	}
	return v.checker.Check(ctx, content)
}

func (v *Validator) path(file string) string {
	if filepath.IsAbs(file) || v.opts.Root == "" {
		return file
	}
	return filepath.Join(v.opts.Root, file)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/sdboyer/fakerjen"
	"github.com/sdboyer/fakerjen/faker"
	"github.com/sdboyer/fakerjen/internal/config"
	"github.com/sdboyer/fakerjen/internal/discover"
)

// outcome is the result for one model file.
type outcome struct {
	// Path is the model file.
	Path string
	// Output is the generated file, relative to the output directory.
	Output string
	Err    error
}

type result struct {
	FS       *fakerjen.FS
	Outcomes []outcome
}

// build generates, in memory, a faker for every model file cfg selects.
//
// Per-file failures are recorded in the outcomes. The returned error is set
// only when the run as a whole cannot proceed.
func build(cfg *config.Config, log *zap.Logger) (*result, error) {
	paths, err := discover.ModelFiles(cfg.InputDir, cfg.Pattern, cfg.Recursive)
	if err != nil {
		if errors.Is(err, discover.ErrNotDir) {
			return nil, errors.Wrapf(err, "input path '%s' is not a valid directory", cfg.InputDir)
		}
		return nil, err
	}
	log.Debug("discovered model files", zap.String("dir", cfg.InputDir), zap.Int("count", len(paths)))

	// model files from different directories may share a base name
	res := &result{Outcomes: make([]outcome, len(paths))}
	owners := make(map[string]string, len(paths))
	inputs := make([]string, 0, len(paths))
	for i, path := range paths {
		name := faker.OutputName(path, cfg.Ext)
		res.Outcomes[i] = outcome{Path: path, Output: name}
		if first, has := owners[name]; has {
			res.Outcomes[i].Err = errors.Newf("output %s is already generated from %s", name, first)
			continue
		}
		owners[name] = path
		inputs = append(inputs, path)
	}

	jl := fakerjen.JennyListWithNamer(func(path string) string { return path })
	jl.AppendOneToOne(fakerjen.AdaptOneToOne[string, faker.Unit](
		&faker.Jenny{Namespace: cfg.Namespace, Ext: cfg.Ext},
		func(path string) faker.Unit { return faker.Unit{Path: path} },
	))
	jl.AddPostprocessors(fakerjen.NormalizeLineEndings(cfg.EOL()))
	jl.SetParallelism(cfg.Workers)

	jfs, err := jl.GenerateFS(inputs)
	failed, err := unitErrors(err)
	if err != nil {
		return nil, errors.Wrap(err, "code generation failed")
	}
	res.FS = jfs

	for i, o := range res.Outcomes {
		if o.Err != nil {
			continue
		}
		if ferr, has := failed[o.Path]; has {
			res.Outcomes[i].Err = ferr
			log.Debug("model file failed", zap.String("model", o.Path), zap.Error(ferr))
			continue
		}
		f, _ := jfs.Get(o.Output)
		log.Debug("generated faker", zap.String("model", o.Path), zap.String("output", o.Output), zap.Int("bytes", len(f.Data)))
	}
	return res, nil
}

// unitErrors splits the aggregate error of a generation run into per-file
// failures, keyed by model path. Any error not tied to a model file is
// returned as is.
func unitErrors(err error) (map[string]error, error) {
	failed := make(map[string]error)
	if err == nil {
		return failed, nil
	}

	errs := []error{err}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		errs = merr.Errors
	}
	for _, e := range errs {
		var uerr *faker.UnitError
		if !errors.As(e, &uerr) {
			return nil, e
		}
		failed[uerr.Path] = uerr.Err
	}
	return failed, nil
}

// generate writes a faker for every model file cfg selects and reports each
// file to out.
func generate(ctx context.Context, cfg *config.Config, log *zap.Logger, out io.Writer) (*result, error) {
	if err := os.MkdirAll(cfg.OutputDir, os.ModePerm); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", cfg.OutputDir)
	}

	res, err := build(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := res.FS.Write(ctx, cfg.OutputDir); err != nil {
		return nil, errors.Wrap(err, "failed to write generated files")
	}

	res.report(out, cfg.OutputDir)
	return res, nil
}

func (r *result) report(out io.Writer, outputDir string) {
	for _, o := range r.Outcomes {
		name := filepath.Base(o.Path)
		switch {
		case errors.Is(o.Err, faker.ErrInputNotFound):
			fmt.Fprintln(out, pterm.Error.Sprintf("Model file not found at '%s'.", o.Path))
		case o.Err != nil:
			fmt.Fprintln(out, pterm.Error.Sprintf("An error occurred while processing '%s': %s", name, o.Err))
		default:
			fmt.Fprintln(out, pterm.Success.Sprintf("Faker code generated successfully for '%s' and saved to: %s", name, filepath.Join(outputDir, o.Output)))
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, pterm.Info.Sprintf("Faker code generation completed for %d model file(s).", len(r.Outcomes)))
}

// check compares the fakers cfg would generate with the output directory.
func check(ctx context.Context, cfg *config.Config, log *zap.Logger, out io.Writer) error {
	res, err := build(cfg, log)
	if err != nil {
		return err
	}

	if err := res.FS.Verify(ctx, cfg.OutputDir); err != nil {
		fmt.Fprintln(out, pterm.Error.Sprint("Generated fakers are out of date."))
		return errors.WithHint(
			errors.Wrap(err, "generated fakers are out of date"),
			"run fakergen with the same arguments to update them",
		)
	}

	fmt.Fprintln(out, pterm.Success.Sprintf("Generated fakers are up to date for %d model file(s).", len(res.Outcomes)))
	return nil
}

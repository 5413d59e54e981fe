package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"dataplan/internal/config"
	"dataplan/internal/ctxlog"
	"dataplan/internal/declare"
	"dataplan/internal/diagnostic"
	"dataplan/internal/expand"
	"dataplan/internal/mapping"
	"dataplan/internal/plan"
	"dataplan/internal/policy"
	"dataplan/internal/prompt"
	"dataplan/internal/schema"
)

// Options holds all the settings of one run.
type Options struct {
	DeclarationsPath string
	// OutPath receives the artifact; empty means the App's output writer.
	OutPath        string
	SchemaPath     string
	SchemaDSN      string
	CyclePolicy    string
	Anchors        []string
	ExcludeObjects []string
	IncludeObjects []string
	Strict         bool
	LogLevel       string
	LogFormat      string
}

// OptionsFromConfig copies environment configuration into Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SchemaPath:     cfg.Schema.Path,
		SchemaDSN:      cfg.Schema.DSN,
		CyclePolicy:    cfg.Plan.CyclePolicy,
		Anchors:        cfg.Plan.Anchors,
		ExcludeObjects: cfg.Plan.ExcludeObjects,
		IncludeObjects: cfg.Plan.IncludeObjects,
		Strict:         cfg.Plan.Strict,
		LogLevel:       cfg.Log.Level,
		LogFormat:      cfg.Log.Format,
	}
}

// App runs the pipeline with its own logger.
type App struct {
	outW   io.Writer
	inR    io.Reader
	errW   io.Writer
	logger *slog.Logger
	opts   Options
}

// New creates an App. Logs and interactive prompts go to errW, artifacts
// to outW, operator answers are read from inR.
func New(outW, errW io.Writer, inR io.Reader, opts Options) *App {
	return &App{
		outW:   outW,
		inR:    inR,
		errW:   errW,
		logger: newLogger(opts.LogLevel, opts.LogFormat, errW),
		opts:   opts,
	}
}

func (a *App) policy() *policy.Policy {
	opts := []policy.Option{
		policy.WithExcludedObjects(a.opts.ExcludeObjects...),
		policy.WithIncludedObjects(a.opts.IncludeObjects...),
	}

	if len(a.opts.Anchors) > 0 {
		opts = append(opts, policy.WithAnchors(a.opts.Anchors...))
	}

	return policy.New(opts...)
}

func (a *App) chooser(pol *policy.Policy) plan.Chooser {
	if a.opts.CyclePolicy == config.CyclePolicyInteractive {
		return &prompt.Terminal{In: a.inR, Out: a.errW}
	}

	return plan.Automatic{Anchors: pol.Anchors()}
}

// resolve runs everything up to expansion.
func (a *App) resolve(ctx context.Context) (schema.Catalog, *expand.Expander, []expand.Resolved, *diagnostic.Diagnostics, error) {
	diags := &diagnostic.Diagnostics{}

	if a.opts.DeclarationsPath == "" {
		return nil, nil, nil, diags, fmt.Errorf("no declaration file given")
	}

	catalog, err := a.openCatalog(ctx)
	if err != nil {
		return nil, nil, nil, diags, err
	}

	decls, err := declare.Load(a.opts.DeclarationsPath)
	if err != nil {
		return nil, nil, nil, diags, err
	}

	a.logger.Debug("Declarations loaded.", "path", a.opts.DeclarationsPath, "count", len(decls))

	exp := expand.New(catalog, a.policy(), expand.Options{Strict: a.opts.Strict})

	resolved, err := exp.Expand(decls, diags)
	if err != nil {
		return nil, nil, nil, diags, err
	}

	return catalog, exp, resolved, diags, nil
}

// Expand writes the resolved declarations as a literal declaration file.
func (a *App) Expand(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	_, _, resolved, diags, err := a.resolve(ctx)
	diags.Log(a.logger)

	if err != nil {
		return err
	}

	f := &declare.File{Version: "1"}
	for i := range resolved {
		f.Declarations = append(f.Declarations, resolved[i].ToDeclaration())
	}

	data, err := declare.Marshal(f)
	if err != nil {
		return err
	}

	return a.write(data)
}

// Plan runs the whole pipeline and writes the mapping artifact.
func (a *App) Plan(ctx context.Context) (*mapping.Artifact, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	catalog, exp, resolved, diags, err := a.resolve(ctx)
	if err != nil {
		diags.Log(a.logger)
		return nil, err
	}

	planner := plan.NewPlanner(catalog, exp, a.chooser(exp.Policy()))

	p, err := planner.Plan(ctx, resolved)
	if err != nil {
		diags.Log(a.logger)
		return nil, err
	}

	diags.Merge(p.Diagnostics)

	artifact, err := mapping.Synthesize(p, catalog, diags)
	diags.Log(a.logger)

	if err != nil {
		return nil, err
	}

	a.logger.Info("Mapping planned.",
		"steps", len(artifact.Steps), "objects", len(p.Order), "deferred_updates", len(p.Broken),
		"warnings", len(diags.Warnings))

	data, err := mapping.Marshal(artifact)
	if err != nil {
		return nil, err
	}

	err = a.write(data)
	if err != nil {
		return nil, err
	}

	return artifact, nil
}

func (a *App) write(data []byte) error {
	if a.opts.OutPath == "" {
		_, err := a.outW.Write(data)
		return err
	}

	err := os.WriteFile(a.opts.OutPath, data, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", a.opts.OutPath, err)
	}

	a.logger.Debug("Output written.", "path", a.opts.OutPath)

	return nil
}

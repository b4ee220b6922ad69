// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/bundleviz/cmd/bundleviz/cli"
	"github.com/bureau-foundation/bundleviz/lib/config"
	"github.com/bureau-foundation/bundleviz/lib/diagram"
	"github.com/bureau-foundation/bundleviz/lib/driver"
	"github.com/bureau-foundation/bundleviz/lib/gallery"
	"github.com/bureau-foundation/bundleviz/lib/render"
	"github.com/bureau-foundation/bundleviz/lib/snapshot"
)

type renderParams struct {
	bundleParams
	Output     string        `flag:"output,o" desc:"output base path: sources go to OUTPUT/source, images to OUTPUT_<target>.png" default:"figures/dabs_visualization"`
	Diagram    string        `flag:"type,t" desc:"diagram type: plantuml or mermaid" default:"plantuml"`
	Timeout    time.Duration `flag:"timeout" desc:"renderer time limit per target (0 disables)" default:"2m"`
	NoRender   bool          `flag:"no-render" desc:"write diagram sources without running a renderer"`
	Force      bool          `flag:"force" desc:"render even when the source is unchanged since the last render"`
	Snapshot   string        `flag:"snapshot" desc:"write resolved environments to this file (.json, .yaml, .cbor, optionally + .zst or .lz4)"`
	Gallery    bool          `flag:"gallery" desc:"write OUTPUT/index.md and OUTPUT/index.html"`
	ConfigPath string        `flag:"config" desc:"tool config file (default: $BUNDLEVIZ_CONFIG)"`
}

func renderCommand(out streams) *cli.Command {
	var params renderParams
	command := &cli.Command{
		Name:    "render",
		Summary: "Render one diagram per target",
		Description: `Render one diagram per target.

For each target the diagram source is written to
OUTPUT/source/<target>.<puml|mmd> and rendered to OUTPUT_<target>.png
by plantuml or mmdc. A target whose renderer fails is reported and the
remaining targets are still rendered; the command then exits 1.

Images are not re-rendered when the source is unchanged since the last
successful render and the image still exists (--force overrides).`,
		Usage: "bundleviz render [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("render", &params)
		},
	}
	command.Run = func(ctx context.Context, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unexpected argument %q", args[0])
		}
		return runRender(ctx, command, &params, out)
	}
	return command
}

func runRender(ctx context.Context, command *cli.Command, params *renderParams, out streams) error {
	logger := out.newLogger(params.Verbose).With("command", "render")

	cfg, err := loadConfig(params.ConfigPath)
	if err != nil {
		return err
	}
	if command.Changed("output") {
		cfg.Output = params.Output
	}
	if command.Changed("type") {
		cfg.Diagram = params.Diagram
	}
	if command.Changed("timeout") {
		cfg.Timeout = config.Duration(params.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	emitter, err := diagram.ByName(cfg.Diagram)
	if err != nil {
		return err
	}

	var renderer render.Renderer
	if !params.NoRender {
		renderer, err = newRenderer(cfg, logger)
		if err != nil {
			return err
		}
	}

	plan, err := driver.Prepare(params.Input, driver.Options{Targets: params.Targets, Logger: logger})
	if err != nil {
		return err
	}

	sourceDir := filepath.Join(cfg.Output, "source")
	if err := os.MkdirAll(sourceDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	results := make(map[string]*gallery.Item)
	var environments []*driver.Environment

	walkErr := plan.Walk(ctx, func(ctx context.Context, environment *driver.Environment) error {
		environments = append(environments, environment)
		item := &gallery.Item{
			Environment: environment.Name,
			Mode:        environment.Target.Mode(),
			Host:        environment.Target.WorkspaceHost(),
			SourcePath:  filepath.Join(sourceDir, environment.Name+"."+emitter.Extension()),
		}
		results[environment.Name] = item
		return renderEnvironment(ctx, environment, emitter, renderer, cfg.Output, params.Force, item, logger)
	})

	var partial *driver.PartialError
	if walkErr != nil && !errors.As(walkErr, &partial) {
		return walkErr
	}

	items := make([]gallery.Item, 0, len(plan.Targets))
	for _, target := range plan.Targets {
		item, ok := results[target.Name]
		if !ok {
			// Resolution failed before the visitor ran.
			item = &gallery.Item{
				Environment: target.Name,
				Mode:        target.Mode(),
				Host:        target.WorkspaceHost(),
				Status:      "failed",
			}
			if partial != nil {
				for _, failure := range partial.Failures {
					if failure.Name == target.Name {
						item.Error = failure.Err.Error()
					}
				}
			}
		}
		items = append(items, *item)
	}

	if params.Snapshot != "" {
		if err := snapshot.Write(params.Snapshot, snapshot.Build(plan.Document.Name, environments)); err != nil {
			return err
		}
		logger.Info("wrote snapshot", "path", params.Snapshot, "environments", len(environments))
	}

	if params.Gallery {
		markdownPath, htmlPath, err := gallery.Write(cfg.Output, plan.Document.Name, items)
		if err != nil {
			return err
		}
		logger.Info("wrote gallery", "markdown", markdownPath, "html", htmlPath)
	}

	printSummary(out, plan.Document.Name, items)

	if partial != nil {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// renderEnvironment writes one environment's diagram source and, when
// renderer is non-nil, renders it to the image path. item records the
// outcome.
func renderEnvironment(
	ctx context.Context,
	environment *driver.Environment,
	emitter diagram.Emitter,
	renderer render.Renderer,
	outputBase string,
	force bool,
	item *gallery.Item,
	logger *slog.Logger,
) error {
	logger = logger.With("target", environment.Name)

	source := emitter.Emit(diagram.Input{
		BundleName: environment.BundleName,
		TargetName: environment.Name,
		Target:     environment.Target,
		Tree:       environment.Tree,
	})
	if err := os.WriteFile(item.SourcePath, []byte(source), 0o644); err != nil {
		item.Status = "failed"
		item.Error = err.Error()
		return fmt.Errorf("writing diagram source: %w", err)
	}
	logger.Info("wrote diagram source", "path", item.SourcePath)

	if renderer == nil {
		item.Status = "skipped"
		return nil
	}

	imagePath := outputBase + "_" + environment.Name + ".png"
	if !force {
		fresh, err := render.Fresh(item.SourcePath, imagePath, renderer.Fingerprint())
		if err != nil {
			logger.Warn("checking render cache", "error", err)
		}
		if fresh {
			item.Status = "cached"
			item.ImagePath = imagePath
			logger.Info("image up to date", "path", imagePath)
			return nil
		}
	}

	started := time.Now()
	if err := renderer.Render(ctx, item.SourcePath, imagePath); err != nil {
		item.Status = "failed"
		item.Error = err.Error()
		var renderError *render.Error
		if errors.As(err, &renderError) {
			logger.Error("renderer failed",
				"renderer", renderError.Renderer,
				"exit_code", renderError.ExitCode,
				"stdout", renderError.Stdout,
				"stderr", renderError.Stderr,
			)
		}
		return err
	}
	if err := render.Record(item.SourcePath, renderer.Fingerprint()); err != nil {
		logger.Warn("recording render cache", "error", err)
	}

	item.Status = "rendered"
	item.ImagePath = imagePath
	logger.Info("rendered image", "path", imagePath, "duration", time.Since(started).Round(time.Millisecond))
	return nil
}

func newRenderer(cfg *config.Config, logger *slog.Logger) (render.Renderer, error) {
	options := render.Options{
		PlantUMLBinary: cfg.Renderers.PlantUML.Binary,
		MermaidBinary:  cfg.Renderers.Mermaid.Binary,
		MermaidTheme:   cfg.Renderers.Mermaid.Theme,
		Timeout:        time.Duration(cfg.Timeout),
	}

	// A missing binary is reported per target by the renderer, so
	// sources are still written.
	switch cfg.Diagram {
	case "plantuml":
		options.PlantUMLBinary = lookupBinary(cfg, options.PlantUMLBinary, logger)
	case "mermaid":
		options.MermaidBinary = lookupBinary(cfg, options.MermaidBinary, logger)
	}
	return render.ForDiagram(cfg.Diagram, options)
}

func lookupBinary(cfg *config.Config, name string, logger *slog.Logger) string {
	path, err := cfg.BinaryPath(name)
	if err != nil {
		logger.Warn("renderer binary not found", "binary", name, "error", err)
		return name
	}
	logger.Debug("using renderer binary", "path", path)
	return path
}

// loadConfig loads the tool config from path, or from
// BUNDLEVIZ_CONFIG when path is empty, or the defaults when neither is
// set.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

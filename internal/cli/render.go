package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipeviz/pkg/catalog"
	"github.com/matzehuels/pipeviz/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file path (or base path for multiple outputs)
	formats []string // output formats, see pipeline.ValidFormats
	noCache bool     // bypass the artifact cache entirely
	refresh bool     // re-render and overwrite cached artifacts
	config  configFlags
}

// renderCommand creates the render command.
//
// Each format is written to <base>.<ext>, where base is the -o path without a
// known extension or the example name. The term format goes to stdout unless
// it is the only format and -o is given.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <example>",
		Short: "Render an example pipeline",
		Long: `Render one of the built-in example pipelines (see "pipeviz examples").

Formats: ` + strings.Join(pipeline.Formats(), ", ") + `. PDF output requires rsvg-convert.`,
		Example: `  pipeviz render dec
  pipeviz render program -f svg,png -o out/program
  pipeviz render tpu -f term --routing orthogonal
  pipeviz render multicycle --config diagram.toml --theme darkgrid`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeExamples,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s), comma-separated (default svg)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")
	opts.config.register(cmd)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, name string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	entry, err := catalog.Lookup(name)
	if err != nil {
		return err
	}
	cfg, err := opts.config.resolve(cmd, &entry)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	p, err := entry.Build(cfg, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, p, pipeline.Options{
		Name:    entry.Name,
		Formats: opts.formats,
		Refresh: opts.refresh,
	})
	if err != nil {
		return err
	}
	prog.done("Rendered " + entry.Name)

	return writeArtifacts(ctx, cmd, entry.Name, opts, res, len(p.Ops()), len(p.Edges()))
}

func writeArtifacts(ctx context.Context, cmd *cobra.Command, name string, opts *renderOpts, res *pipeline.Result, ops, edges int) error {
	logger := loggerFromContext(ctx)
	single := len(opts.formats) == 1
	base := basePath(opts.output, name)

	var written []string
	for _, format := range opts.formats {
		data := res.Artifacts[format]

		if format == pipeline.FormatTerm && !(single && opts.output != "") {
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return err
			}
			continue
		}

		path := base + "." + pipeline.Extension(format)
		if single && opts.output != "" {
			path = opts.output
		}
		if err := writeFile(path, data); err != nil {
			return err
		}
		logger.Debug("wrote artifact", "format", format, "path", path, "bytes", len(data))
		written = append(written, path)
	}

	if len(written) > 0 {
		printSuccess("Rendered %s", StyleHighlight.Render(name))
		for _, path := range written {
			printFile(path)
		}
		printStats(ops, edges, res.CacheHit)
	}
	return nil
}

// basePath derives the output path without extension. A known format
// extension on output is stripped; an empty output falls back to name.
func basePath(output, name string) string {
	if output == "" {
		return name
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// completeExamples completes example names for shell completion.
func completeExamples(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, e := range catalog.Entries() {
		if strings.HasPrefix(e.Name, toComplete) {
			out = append(out, e.Name+"\t"+e.Description)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

package cli

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/glitchid/pkg/cache"
	"github.com/matzehuels/glitchid/pkg/config"
	apperr "github.com/matzehuels/glitchid/pkg/errors"
	"github.com/matzehuels/glitchid/pkg/glitch"
	"github.com/matzehuels/glitchid/pkg/integrations"
	"github.com/matzehuels/glitchid/pkg/integrations/github"
	"github.com/matzehuels/glitchid/pkg/integrations/gitlab"
	"github.com/matzehuels/glitchid/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	name    string // identity printed bottom-left
	seed    uint64 // 0 draws a fresh seed
	time    string // RFC 3339 caption time; empty means now
	formats string // comma-separated output formats
	size    int    // frame edge in pixels; 0 uses the config
	output  string // output file, base path for several formats, or "-" for stdout
	noCache bool
	refresh bool

	// Remote sources; at most one, and not together with a file argument.
	github string
	gitlab string
	url    string
}

// renderCommand creates the render command.
//
// With no argument the frame shows the NO SIGNAL placeholder. Passing the
// same --seed and --time again reproduces a frame byte for byte.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [image]",
		Short: "Render a glitched identity frame",
		Example: `  glitchid render avatar.png --name neo
  glitchid render --name trinity --seed 42 --time 2024-01-01T13:37:00Z -f png,jpeg
  glitchid render avatar.png -o - > frame.png
  glitchid render --github octocat`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source string
			if len(args) == 1 {
				source = args[0]
				if opts.github != "" || opts.gitlab != "" || opts.url != "" {
					return errors.New("an image argument cannot be combined with --github, --gitlab or --url")
				}
			}
			return c.runRender(cmd.Context(), source, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "identity to print (default ANONYMOUS)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 draws one)")
	cmd.Flags().StringVar(&opts.time, "time", "", "caption time in RFC 3339 (default now)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): png, jpeg, gif, tiff, bmp (comma-separated)")
	cmd.Flags().IntVar(&opts.size, "size", 0, "frame edge in pixels")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, base path for several formats, or - for stdout")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().StringVar(&opts.github, "github", "", "use a GitHub user's avatar")
	cmd.Flags().StringVar(&opts.gitlab, "gitlab", "", "use a GitLab user's avatar")
	cmd.Flags().StringVar(&opts.url, "url", "", "use the image at a URL")
	cmd.MarkFlagsMutuallyExclusive("github", "gitlab", "url")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, source string, opts renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	popts := pipeline.Options{
		Identity: opts.name,
		Seed:     opts.seed,
		Size:     opts.size,
		Formats:  parseFormats(opts.formats, cfg.Render.Format),
		Refresh:  opts.refresh,
		Workers:  cfg.Render.Workers,
		Logger:   c.Logger,
	}
	if popts.Identity == "" {
		popts.Identity = cfg.Render.Identity
	}
	if popts.Size == 0 {
		popts.Size = cfg.Render.Size
	}
	popts.Timestamp = time.Now().Truncate(time.Second)
	if opts.time != "" {
		ts, err := time.Parse(time.RFC3339, opts.time)
		if err != nil {
			return fmt.Errorf("invalid --time %q: %w", opts.time, err)
		}
		popts.Timestamp = ts
	}
	if source != "" {
		data, err := os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("read source: %w", err)
		}
		popts.Source = data
		popts.SourceName = filepath.Base(source)
	}
	if err := pipeline.ValidateFormats(popts.Formats); err != nil {
		return err
	}
	if opts.output == "-" && len(popts.Formats) > 1 {
		return errors.New("--output - takes a single format")
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if src := avatarSource(runner.Cache, cfg, opts); src != nil {
		avatar, err := c.fetchAvatar(ctx, src, opts)
		if err != nil {
			return err
		}
		popts.Source = avatar.Data
		if popts.Identity == "" {
			popts.Identity = avatar.Identity()
		}
		source = "--" + avatar.Provider + " " + avatarRef(opts)
	}

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, c.status, "Rendering...")
	spinner.Start()
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		switch {
		case spinner.Cancelled():
			spinner.Stop()
			printWarning("Render interrupted")
		case apperr.Is(err, apperr.ErrCodeCapability):
			spinner.StopWithError("No drawing surface available")
		default:
			spinner.Stop()
		}
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", result.Identity))

	if opts.output == "-" {
		spinner.Stop()
		_, err := os.Stdout.Write(result.Artifacts[popts.Formats[0]])
		return err
	}

	spinner.StopWithSuccess("Rendered " + StyleHighlight.Render(result.Identity))
	for _, format := range popts.Formats {
		path := outputPath(opts.output, result.Identity, format, len(popts.Formats) > 1)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result)
	printNextStep("Replay", replayCommand(source, result, popts, cfg.Render))
	return nil
}

// outputPath picks the file for one format. Several formats share the
// base of output with their own extension.
func outputPath(output, identity, format string, multi bool) string {
	if output == "" {
		return pipeline.DownloadName(identity, format)
	}
	if !multi {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "." + pipeline.Extension(format)
}

// replayCommand returns the command line that reproduces result from opts.
// Size and format are spelled out unless both the built-in default and the
// config default already match them.
func replayCommand(source string, result *pipeline.Result, opts pipeline.Options, def config.RenderConfig) string {
	parts := []string{appName, "render"}
	if source != "" {
		parts = append(parts, source)
	}
	parts = append(parts,
		"--name", strconv.Quote(result.Identity),
		"--seed", strconv.FormatUint(result.Seed, 10),
		"--time", opts.Timestamp.Format(time.RFC3339),
	)

	size := cmp.Or(opts.Size, glitch.DefaultSize)
	if size != glitch.DefaultSize || size != cmp.Or(def.Size, glitch.DefaultSize) {
		parts = append(parts, "--size", strconv.Itoa(size))
	}

	formats := strings.Join(opts.Formats, ",")
	defFormat, err := pipeline.ParseFormat(cmp.Or(def.Format, pipeline.FormatPNG))
	if err != nil {
		defFormat = def.Format
	}
	if formats != pipeline.FormatPNG || formats != defFormat {
		parts = append(parts, "--format", formats)
	}
	return strings.Join(parts, " ")
}

// avatarSource returns the provider selected by the remote source flags,
// or nil when the frame uses a local file or the placeholder.
func avatarSource(ch cache.Cache, cfg config.Config, opts renderOpts) integrations.AvatarSource {
	ttl := cfg.Cache.TTL
	switch {
	case opts.github != "":
		return github.NewClient(ch, cfg.Sources.GitHub(), ttl)
	case opts.gitlab != "":
		return gitlab.NewClient(ch, cfg.Sources.GitLab(), ttl)
	case opts.url != "":
		return integrations.NewClient(ch, "url:", ttl, nil)
	}
	return nil
}

// avatarRef returns the login or URL given on the command line.
func avatarRef(opts renderOpts) string {
	switch {
	case opts.github != "":
		return opts.github
	case opts.gitlab != "":
		return opts.gitlab
	}
	return opts.url
}

func (c *CLI) fetchAvatar(ctx context.Context, src integrations.AvatarSource, opts renderOpts) (*integrations.Avatar, error) {
	spinner := newSpinner(ctx, c.status, "Fetching avatar...")
	spinner.Start()
	avatar, err := src.FetchAvatar(ctx, avatarRef(opts), opts.refresh)
	spinner.Stop()
	if err != nil {
		return nil, fmt.Errorf("fetch avatar: %w", err)
	}
	c.Logger.Debug("fetched avatar", "provider", avatar.Provider, "url", avatar.URL, "bytes", len(avatar.Data))
	return avatar, nil
}

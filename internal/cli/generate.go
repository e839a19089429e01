package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/raveheart1/changelogd/internal/changelog"
	cerrors "github.com/raveheart1/changelogd/internal/errors"
	"github.com/raveheart1/changelogd/internal/gitlog"
	"github.com/raveheart1/changelogd/internal/version"
)

var (
	generateFormatFlag string
	generatePlainFlag  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the changelog from repository history",
	Long: `Generate the changelog from the repository's commit history.

Without --format, writes the markdown rendering to the configured
changelog_path (default CHANGELOG.md) and version info to version_path
(default version.json), then prints a preview.

With --format, prints the requested rendering to stdout instead of writing
files.

Examples:
  changelogd generate                # Write CHANGELOG.md + version.json
  changelogd generate --format md    # Print markdown to stdout
  changelogd generate --format json  # Print the structured form as JSON
  changelogd generate --format yaml  # Print the structured form as YAML`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateFormatFlag, "format", "", "Print to stdout instead of writing files: md, json, or yaml")
	generateCmd.Flags().BoolVar(&generatePlainFlag, "plain", false, "Plain output (no colors, icons, or spinner)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	switch generateFormatFlag {
	case "", "md", "json", "yaml":
	default:
		return cerrors.NewArgumentError(
			fmt.Sprintf("unknown format %q", generateFormatFlag),
			"Use one of: md, json, yaml",
		)
	}

	reader := gitlog.NewReader(cfg.RepoPath)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LogTimeoutDuration())
	defer cancel()

	log := generateWithSpinner(ctx, reader, cfg.SectionsFromTags)

	if generateFormatFlag != "" {
		return printChangelog(cmd, log, generateFormatFlag)
	}

	return writeArtifacts(cmd, cfg.ChangelogPath, cfg.VersionPath, reader, log)
}

// generateWithSpinner builds the changelog, showing a spinner while scanning
// when attached to a terminal.
func generateWithSpinner(ctx context.Context, reader *gitlog.Reader, fromTags bool) *changelog.Changelog {
	useSpinner := !generatePlainFlag &&
		generateFormatFlag == "" &&
		isatty.IsTerminal(os.Stderr.Fd())

	if useSpinner {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Suffix = " Scanning repository history..."
		s.Start()
		defer s.Stop()
	}

	return reader.Generate(ctx, fromTags, time.Now())
}

func printChangelog(cmd *cobra.Command, log *changelog.Changelog, format string) error {
	out := cmd.OutOrStdout()

	switch format {
	case "md":
		return changelog.RenderMarkdown(log, out)
	case "json":
		data, err := json.MarshalIndent(changelog.ToStructured(log), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding changelog: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	case "yaml":
		data, err := yaml.Marshal(changelog.ToStructured(log))
		if err != nil {
			return fmt.Errorf("encoding changelog: %w", err)
		}
		fmt.Fprint(out, string(data))
		return nil
	}
	return nil
}

func writeArtifacts(cmd *cobra.Command, changelogPath, versionPath string, reader *gitlog.Reader, log *changelog.Changelog) error {
	md, err := changelog.RenderMarkdownString(log)
	if err != nil {
		return fmt.Errorf("rendering changelog: %w", err)
	}

	if err := os.WriteFile(changelogPath, []byte(md), 0o644); err != nil {
		return cerrors.Wrap(err, cerrors.Repository,
			fmt.Sprintf("writing %s", changelogPath),
			"Check that the target directory exists and is writable",
		)
	}

	info := version.Derive(reader)
	if err := version.Save(versionPath, info); err != nil {
		return cerrors.Wrap(err, cerrors.Repository,
			fmt.Sprintf("writing %s", versionPath),
		)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s (%d entries) and %s (version %s)\n\n",
		changelogPath, log.Count(), versionPath, info.Version)

	return changelog.FormatTerminal(log, out, changelog.FormatOptions{Plain: generatePlainFlag})
}

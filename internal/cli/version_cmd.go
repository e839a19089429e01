package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raveheart1/changelogd/internal/gitlog"
	"github.com/raveheart1/changelogd/internal/version"
)

var versionJSONFlag bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info derived from repository tags",
	Long: `Show the version info derived from the repository: the newest semver
tag as the API version, plus the current commit, branch, and worktree state.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&versionJSONFlag, "json", false, "Output as JSON")
}

func runVersion(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	info := version.Derive(gitlog.NewReader(cfg.RepoPath))
	out := cmd.OutOrStdout()

	if versionJSONFlag {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding version info: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "version: %s\n", info.Version)
	fmt.Fprintf(out, "commit:  %s\n", info.Commit)
	fmt.Fprintf(out, "branch:  %s\n", info.Branch)
	fmt.Fprintf(out, "date:    %s\n", info.Date)
	fmt.Fprintf(out, "dirty:   %v\n", info.Dirty)
	return nil
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/wiggitywhitney/commit-story-sub002/internal/integration"
)

var installRepo string

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the post-commit hook in this repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := integration.NewHookInstaller().Install(installRepo); err != nil {
			return err
		}
		cmd.Println(okStyle.Render("post-commit hook installed"))
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the post-commit hook from this repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := integration.NewHookInstaller().Uninstall(installRepo); err != nil {
			return err
		}
		cmd.Println(okStyle.Render("post-commit hook removed"))
		return nil
	},
}

func init() {
	installCmd.Flags().StringVar(&installRepo, "repo", ".", "repository path")
	uninstallCmd.Flags().StringVar(&installRepo, "repo", ".", "repository path")
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
}

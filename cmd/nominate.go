package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/renomhq/renom/internal/utils"
	"github.com/renomhq/renom/pkg/msbuild"
	"github.com/renomhq/renom/pkg/restore"
	"github.com/renomhq/renom/pkg/sink"
)

// nominateCmd aggregates, records the result in the history database, and
// submits it to the restore service unless nothing changed since the last
// recorded nomination.
var nominateCmd = &cobra.Command{
	Use:   "nominate",
	Short: "Aggregate snapshots and submit a restore nomination",
	RunE: func(cmd *cobra.Command, args []string) error {
		projectPath, events, err := collectEvents(cmd)
		if err != nil {
			return err
		}

		info, err := restore.Aggregate(events, msbuild.Project{Path: projectPath})
		if err != nil {
			return err
		}
		if info == nil {
			utils.Log.Info("No restore nomination needed.")
			return nil
		}

		dbPath, _ := cmd.Flags().GetString("dbpath")
		change, err := recordNomination(cmd.Context(), dbPath, projectPath, info)
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if change == nil && !force {
			utils.Log.Infof("Nomination for %s unchanged since last submission, skipping (use --force to resubmit).", projectPath)
			return nil
		}

		endpoint, _ := cmd.Flags().GetString("endpoint")
		if endpoint == "" {
			endpoint = viper.GetString("sink.endpoint")
		}
		if endpoint == "" {
			utils.Log.Warn("No restore service endpoint configured, nomination recorded but not submitted.")
			return nil
		}

		if err := sink.New(endpoint).Nominate(cmd.Context(), projectPath, info); err != nil {
			return err
		}
		utils.Log.Infof("Submitted nomination for %s (%s).", projectPath, info.FrameworksLabel())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nominateCmd)

	addSourceFlags(nominateCmd)
	nominateCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default: renom.sqlite in CWD)")
	nominateCmd.Flags().String("endpoint", "", "Restore service endpoint URL (default from config: sink.endpoint)")
	nominateCmd.Flags().Bool("force", false, "Submit even if the nomination is unchanged")
}

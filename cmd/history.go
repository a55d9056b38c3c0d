package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded nominations and recent changes (default 50)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbPath, _ := cmd.Flags().GetString("dbpath")
		limit, _ := cmd.Flags().GetInt("limit")
		project, _ := cmd.Flags().GetString("project")
		showChanges, _ := cmd.Flags().GetBool("changes")

		db, err := openDB(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		if showChanges {
			changes, err := db.ListRecentChanges(context.Background(), limit)
			if err != nil {
				return err
			}
			for _, c := range changes {
				ts := c.OccurredAt.Format("2006-01-02 15:04:05")
				fmt.Printf("%s  %-7s  %s  %s\n", ts, c.ChangeType, c.ProjectPath, c.Fingerprint[:12])
			}
			return nil
		}

		nominations, err := db.ListNominations(context.Background(), project, limit)
		if err != nil {
			return err
		}
		for _, n := range nominations {
			ts := n.CreatedAt.Format("2006-01-02 15:04:05")
			fmt.Printf("%s  %s  [%s]  %s\n", ts, n.ProjectPath, n.Frameworks, n.Fingerprint[:12])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default: renom.sqlite in CWD)")
	historyCmd.Flags().String("project", "", "Only show nominations for this project path")
	historyCmd.Flags().Int("limit", 50, "Number of rows to show")
	historyCmd.Flags().Bool("changes", false, "Show the change feed instead of nominations")
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/renomhq/renom/internal/utils"
	"github.com/renomhq/renom/pkg/msbuild"
	"github.com/renomhq/renom/pkg/restore"
	"github.com/renomhq/renom/pkg/snapshot"
	"github.com/renomhq/renom/pkg/storage"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Consolidate evaluation snapshots into one restore-info record",
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

		if useDB, _ := cmd.Flags().GetBool("db"); useDB {
			dbPath, _ := cmd.Flags().GetString("dbpath")
			change, err := recordNomination(cmd.Context(), dbPath, projectPath, info)
			if err != nil {
				return err
			}
			if change == nil {
				utils.Log.Info("Nomination unchanged since last run, not recorded.")
			} else {
				utils.Log.Infof("Nomination %s for %s", change.ChangeType, projectPath)
			}
		}

		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(aggregateCmd)

	addSourceFlags(aggregateCmd)
	aggregateCmd.Flags().Bool("db", false, "Record the nomination in the history database")
	aggregateCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default: renom.sqlite in CWD)")
}

// addSourceFlags wires the event-source flags shared by aggregate and
// nominate.
func addSourceFlags(c *cobra.Command) {
	c.Flags().String("project", "", "Path to the project file being aggregated (required)")
	c.Flags().String("dir", "", "Directory containing snapshot-<config>.json files")
	c.Flags().Bool("from-project", false, "Synthesize events from the project file itself instead of snapshots")
	_ = c.MarkFlagRequired("project")
}

// collectEvents resolves the project path and loads update events from the
// configured source (snapshot directory or the project file itself).
func collectEvents(cmd *cobra.Command) (string, []msbuild.UpdateEvent, error) {
	projectPath, _ := cmd.Flags().GetString("project")
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return "", nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", nil, fmt.Errorf("project file not found: %s", projectPath)
	}

	fromProject, _ := cmd.Flags().GetBool("from-project")
	dir, _ := cmd.Flags().GetString("dir")

	switch {
	case fromProject:
		events, err := snapshot.FromProjectFile(abs)
		return abs, events, err
	case dir != "":
		events, err := snapshot.LoadDir(dir)
		if err != nil {
			return "", nil, err
		}
		if len(events) == 0 {
			utils.Log.Warnf("No snapshot files found in %s", dir)
		}
		return abs, events, nil
	default:
		return "", nil, fmt.Errorf("either --dir or --from-project is required")
	}
}

func recordNomination(ctx context.Context, dbPath, projectPath string, info *restore.RestoreInfo) (*storage.Change, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.RecordNomination(ctx, projectPath, info)
}

func openDB(dbPath string) (*storage.DB, error) {
	if dbPath == "" {
		dbPath = defaultDBPath()
	}
	return storage.Open(dbPath)
}

func defaultDBPath() string {
	if p := viper.GetString("db.path"); p != "" {
		return p
	}
	return "renom.sqlite"
}

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/renomhq/renom/internal/utils"
	"github.com/renomhq/renom/pkg/msbuild"
	"github.com/renomhq/renom/pkg/restore"
	"github.com/renomhq/renom/pkg/sink"
	"github.com/renomhq/renom/pkg/snapshot"
)

// Snapshot writers dump several files per evaluation pass; the debounce
// window coalesces them into one nomination cycle.
const watchDebounce = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a snapshot directory and re-nominate on changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		projectPath, _ := cmd.Flags().GetString("project")
		absProject, err := filepath.Abs(projectPath)
		if err != nil {
			return err
		}
		dbPath, _ := cmd.Flags().GetString("dbpath")
		endpoint, _ := cmd.Flags().GetString("endpoint")
		if endpoint == "" {
			endpoint = viper.GetString("sink.endpoint")
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		// Process whatever is already on disk before waiting for events.
		runCycle(cmd, dir, absProject, dbPath, endpoint)

		var debounce *time.Timer
		var fire <-chan time.Time
		utils.Log.Infof("Watching %s for snapshot changes...", dir)

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !strings.HasSuffix(event.Name, ".json") {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if debounce == nil {
					debounce = time.NewTimer(watchDebounce)
					fire = debounce.C
				} else {
					resetDebounce(debounce, watchDebounce)
				}
			case <-fire:
				debounce = nil
				fire = nil
				runCycle(cmd, dir, absProject, dbPath, endpoint)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				utils.Log.Errorf("watch error: %v", err)
			case sig := <-sigCh:
				utils.Log.Infof("Received %v, shutting down.", sig)
				return nil
			}
		}
	},
}

// resetDebounce restarts the window, discarding a tick that already fired
// but was not consumed yet. Resetting without the drain would deliver the
// stale tick immediately and run a cycle in the middle of a burst.
func resetDebounce(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

// runCycle performs one aggregate-record-submit pass. Failures are logged,
// not fatal: the watcher keeps running across bad snapshot states.
func runCycle(cmd *cobra.Command, dir, projectPath, dbPath, endpoint string) {
	events, err := snapshot.LoadDir(dir)
	if err != nil {
		utils.Log.Errorf("loading snapshots: %v", err)
		return
	}

	info, err := restore.Aggregate(events, msbuild.Project{Path: projectPath})
	if err != nil {
		utils.Log.Errorf("aggregating: %v", err)
		return
	}
	if info == nil {
		utils.Log.Debug("No restore nomination needed.")
		return
	}

	change, err := recordNomination(cmd.Context(), dbPath, projectPath, info)
	if err != nil {
		utils.Log.Errorf("recording nomination: %v", err)
		return
	}
	if change == nil {
		utils.Log.Debugf("Nomination for %s unchanged.", projectPath)
		return
	}
	utils.Log.Infof("Nomination %s for %s (%s).", change.ChangeType, projectPath, info.FrameworksLabel())

	if endpoint == "" {
		return
	}
	if err := sink.New(endpoint).Nominate(cmd.Context(), projectPath, info); err != nil {
		utils.Log.Errorf("submitting nomination: %v", err)
		return
	}
	utils.Log.Infof("Submitted nomination for %s.", projectPath)
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("project", "", "Path to the project file being aggregated (required)")
	watchCmd.Flags().String("dir", "", "Directory containing snapshot-<config>.json files (required)")
	_ = watchCmd.MarkFlagRequired("project")
	_ = watchCmd.MarkFlagRequired("dir")
	watchCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default: renom.sqlite in CWD)")
	watchCmd.Flags().String("endpoint", "", "Restore service endpoint URL (default from config: sink.endpoint)")
}

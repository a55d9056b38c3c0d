package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/renomhq/renom/pkg/msbuild"
)

// Regular expression for matching snapshot files, one per project
// configuration, e.g. snapshot-net6.0-Debug.json.
var snapshotFileRegex = regexp.MustCompile(`^snapshot-([A-Za-z0-9.+_-]+)\.json$`)

// Discover scans a directory for snapshot files and returns their paths
// sorted by configuration name, so repeated runs feed the aggregator events
// in a stable order.
func Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("accessing snapshot directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if snapshotFileRegex.MatchString(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadDir discovers and parses every snapshot in dir.
func LoadDir(dir string) ([]msbuild.UpdateEvent, error) {
	paths, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	events := make([]msbuild.UpdateEvent, 0, len(paths))
	for _, p := range paths {
		ev, err := ParseFile(p)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

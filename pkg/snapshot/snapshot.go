// Package snapshot turns externally produced evaluation snapshots into
// msbuild.UpdateEvent values the aggregator can consume. Snapshots arrive as
// one JSON document per project configuration, conventionally written by a
// design-time build step.
package snapshot

import (
	"fmt"
	"os"

	"github.com/renomhq/renom/pkg/msbuild"
	"github.com/tidwall/gjson"
)

// Parse decodes one snapshot document. Rules absent from the document are
// materialized as empty no-change rules so events sourced from files always
// satisfy the aggregator's schema contract.
func Parse(data []byte) (msbuild.UpdateEvent, error) {
	if !gjson.ValidBytes(data) {
		return msbuild.UpdateEvent{}, fmt.Errorf("snapshot is not valid JSON")
	}
	doc := gjson.ParseBytes(data)

	ev := msbuild.UpdateEvent{
		Version:    doc.Get("version").Int(),
		Dimensions: make(map[string]string),
		Changes:    make(map[string]*msbuild.ProjectChange, len(msbuild.KnownRules)),
	}

	doc.Get("dimensions").ForEach(func(key, value gjson.Result) bool {
		ev.Dimensions[key.String()] = value.String()
		return true
	})

	for _, rule := range msbuild.KnownRules {
		change := &msbuild.ProjectChange{Properties: msbuild.NewProperties()}

		if node := doc.Get("changes." + rule); node.Exists() {
			change.AnyChanges = node.Get("anyChanges").Bool()

			// gjson iterates object members in document order, which keeps
			// the property bag's insertion order faithful to the producer.
			node.Get("properties").ForEach(func(key, value gjson.Result) bool {
				change.Properties.Set(key.String(), value.String())
				return true
			})

			for _, raw := range node.Get("items").Array() {
				name := raw.Get("name").String()
				if name == "" {
					continue
				}
				entry := msbuild.ItemEntry{Name: name, Metadata: msbuild.NewProperties()}
				raw.Get("metadata").ForEach(func(key, value gjson.Result) bool {
					entry.Metadata.Set(key.String(), value.String())
					return true
				})
				change.Items = append(change.Items, entry)
			}
		}

		ev.Changes[rule] = change
	}

	return ev, nil
}

// ParseFile reads and decodes one snapshot file.
func ParseFile(path string) (msbuild.UpdateEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return msbuild.UpdateEvent{}, err
	}
	ev, err := Parse(data)
	if err != nil {
		return msbuild.UpdateEvent{}, fmt.Errorf("%s: %w", path, err)
	}
	return ev, nil
}

// Package restore consolidates per-configuration MSBuild update events into
// a single restore nomination for a project, or decides that none is needed.
package restore

import (
	"github.com/renomhq/renom/internal/utils"
	"github.com/renomhq/renom/pkg/msbuild"
)

// ProjectContext supplies the aggregating project's directory and its
// path-rooting capability. Implementations must be safe for concurrent
// read-only use; msbuild.Project is the standard one.
type ProjectContext interface {
	Directory() string
	MakeRooted(rel string) string
}

// Aggregate merges one update event per project configuration into a single
// RestoreInfo. It returns (nil, nil) when no nomination should be emitted:
// either no event carries any difference, or no event yields a resolvable
// target framework moniker. A missing schema rule on any event is a producer
// contract violation and returns an error.
//
// The merge is a single forward pass with first-write-wins semantics: scalar
// fields are taken from the first event that defines them, and both the
// framework and tool-reference collections deduplicate by first occurrence.
// Aggregate holds no state between calls and is safe to run concurrently on
// independent inputs.
func Aggregate(events []msbuild.UpdateEvent, project ProjectContext) (*RestoreInfo, error) {
	anyChanges := false
	for i := range events {
		if events[i].HasAnyChanges() {
			anyChanges = true
			break
		}
	}
	if !anyChanges {
		utils.Log.Debug("no restore-relevant differences in update set, suppressing nomination")
		return nil, nil
	}

	info := &RestoreInfo{
		TargetFrameworks: []TargetFrameworkInfo{},
		ToolReferences:   []ReferenceItem{},
	}
	seenFrameworks := make(map[string]struct{})
	seenTools := make(map[string]struct{})

	for i := range events {
		ev := &events[i]

		restoreChange, err := ev.Change(msbuild.RestoreRule)
		if err != nil {
			return nil, err
		}
		projectRefChange, err := ev.Change(msbuild.ProjectReferenceRule)
		if err != nil {
			return nil, err
		}
		packageRefChange, err := ev.Change(msbuild.PackageReferenceRule)
		if err != nil {
			return nil, err
		}
		toolRefChange, err := ev.Change(msbuild.ToolReferenceRule)
		if err != nil {
			return nil, err
		}

		// These two are invariant across configurations of the same project,
		// so the first event that defines them wins.
		if info.BaseIntermediatePath == "" {
			if v, ok := restoreChange.Properties.Get(msbuild.BaseIntermediateOutputPathProperty); ok && v != "" {
				info.BaseIntermediatePath = v
			}
		}
		if info.OriginalTargetFrameworks == "" {
			if v, ok := restoreChange.Properties.Get(msbuild.TargetFrameworksProperty); ok && v != "" {
				info.OriginalTargetFrameworks = v
			}
		}

		moniker := ev.Dimensions[msbuild.TargetFrameworkDimension]
		if moniker == "" {
			moniker, _ = restoreChange.Properties.Get(msbuild.TargetFrameworkProperty)
		}

		switch {
		case moniker == "":
			utils.Log.Warnf("update event (version %d) has no resolvable target framework moniker, skipping its framework data", ev.Version)
		default:
			if _, dup := seenFrameworks[moniker]; !dup {
				seenFrameworks[moniker] = struct{}{}
				info.TargetFrameworks = append(info.TargetFrameworks, TargetFrameworkInfo{
					Moniker:           moniker,
					ProjectReferences: convertProjectReferences(projectRefChange.Items, project),
					PackageReferences: convertReferences(packageRefChange.Items),
					Properties:        restoreChange.Properties.Clone(),
				})
			}
			// A repeated moniker is dropped wholesale, even if its reference
			// data disagrees with the first occurrence.
		}

		// Tool references are project-wide, not per framework, and are merged
		// even when the event's moniker could not be resolved.
		for _, item := range toolRefChange.Items {
			if _, dup := seenTools[item.Name]; dup {
				continue
			}
			seenTools[item.Name] = struct{}{}
			info.ToolReferences = append(info.ToolReferences, ReferenceItem{
				Name:       item.Name,
				Properties: item.Metadata.Clone(),
			})
		}
	}

	if len(info.TargetFrameworks) == 0 {
		utils.Log.Warn("no target frameworks found in update set, suppressing nomination")
		return nil, nil
	}

	utils.Log.Debugf("aggregated restore info for %d target framework(s): %s",
		len(info.TargetFrameworks), info.FrameworksLabel())
	return info, nil
}

// convertReferences turns raw items into reference descriptors, deduplicating
// by name with the first occurrence winning.
func convertReferences(items []msbuild.ItemEntry) []ReferenceItem {
	refs := make([]ReferenceItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.Name]; dup {
			continue
		}
		seen[item.Name] = struct{}{}
		refs = append(refs, ReferenceItem{
			Name:       item.Name,
			Properties: item.Metadata.Clone(),
		})
	}
	return refs
}

// convertProjectReferences additionally resolves each reference to an
// absolute project file path. Downstream cross-project resolution needs
// absolute paths regardless of whether the reference was expressed relative
// to its defining project or to the aggregating project.
func convertProjectReferences(items []msbuild.ItemEntry, project ProjectContext) []ReferenceItem {
	refs := make([]ReferenceItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.Name]; dup {
			continue
		}
		seen[item.Name] = struct{}{}

		props := item.Metadata.Clone()
		var fullPath string
		if dir, ok := props.Get(msbuild.DefiningProjectDirectoryProperty); ok && dir != "" {
			fullPath = msbuild.MakeRooted(msbuild.TrimTrailingSeparators(dir), item.Name)
		} else {
			fullPath = project.MakeRooted(item.Name)
		}
		props.Set(msbuild.ProjectFileFullPathProperty, fullPath)

		refs = append(refs, ReferenceItem{Name: item.Name, Properties: props})
	}
	return refs
}

package snapshot

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/renomhq/renom/pkg/msbuild"
)

// projectFile is the restore-relevant slice of an SDK-style project file.
type projectFile struct {
	TargetFramework            string             `xml:"PropertyGroup>TargetFramework"`
	TargetFrameworks           string             `xml:"PropertyGroup>TargetFrameworks"`
	BaseIntermediateOutputPath string             `xml:"PropertyGroup>BaseIntermediateOutputPath"`
	PackageReferences          []includeReference `xml:"ItemGroup>PackageReference"`
	ProjectReferences          []includeReference `xml:"ItemGroup>ProjectReference"`
	ToolReferences             []includeReference `xml:"ItemGroup>DotNetCliToolReference"`
}

type includeReference struct {
	Include string `xml:"Include,attr"`
	Version string `xml:"Version,attr"`
}

// FromProjectFile synthesizes update events directly from a project file, for
// use when no design-time snapshots are available. One event is produced per
// declared target framework, each flagged as changed so the aggregator does
// not suppress the nomination.
func FromProjectFile(path string) ([]msbuild.UpdateEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pf projectFile
	if err := xml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	frameworks := splitFrameworks(pf.TargetFrameworks)
	if len(frameworks) == 0 && strings.TrimSpace(pf.TargetFramework) != "" {
		frameworks = []string{strings.TrimSpace(pf.TargetFramework)}
	}
	if len(frameworks) == 0 {
		return nil, fmt.Errorf("%s declares no target framework", path)
	}

	events := make([]msbuild.UpdateEvent, 0, len(frameworks))
	for i, fw := range frameworks {
		props := msbuild.NewProperties()
		props.Set(msbuild.TargetFrameworkProperty, fw)
		if strings.TrimSpace(pf.TargetFrameworks) != "" {
			props.Set(msbuild.TargetFrameworksProperty, strings.TrimSpace(pf.TargetFrameworks))
		}
		if pf.BaseIntermediateOutputPath != "" {
			props.Set(msbuild.BaseIntermediateOutputPathProperty, pf.BaseIntermediateOutputPath)
		}

		ev := msbuild.UpdateEvent{
			Version:    int64(i + 1),
			Dimensions: map[string]string{msbuild.TargetFrameworkDimension: fw},
			Changes: map[string]*msbuild.ProjectChange{
				msbuild.RestoreRule: {
					AnyChanges: true,
					Properties: props,
				},
				msbuild.ProjectReferenceRule: {
					Properties: msbuild.NewProperties(),
					Items:      referenceItems(pf.ProjectReferences, false),
				},
				msbuild.PackageReferenceRule: {
					Properties: msbuild.NewProperties(),
					Items:      referenceItems(pf.PackageReferences, true),
				},
				msbuild.ToolReferenceRule: {
					Properties: msbuild.NewProperties(),
					Items:      referenceItems(pf.ToolReferences, true),
				},
			},
		}
		events = append(events, ev)
	}
	return events, nil
}

func splitFrameworks(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if fw := strings.TrimSpace(part); fw != "" {
			out = append(out, fw)
		}
	}
	return out
}

func referenceItems(refs []includeReference, withVersion bool) []msbuild.ItemEntry {
	items := make([]msbuild.ItemEntry, 0, len(refs))
	for _, r := range refs {
		if r.Include == "" {
			continue
		}
		meta := msbuild.NewProperties()
		if withVersion && r.Version != "" {
			meta.Set("Version", r.Version)
		}
		items = append(items, msbuild.ItemEntry{Name: r.Include, Metadata: meta})
	}
	return items
}

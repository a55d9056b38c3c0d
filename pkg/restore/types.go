package restore

import (
	"strings"

	"github.com/renomhq/renom/pkg/msbuild"
)

// ReferenceItem is one project, package or tool reference: an include name
// plus its metadata, fully resolved and independent of the event it came
// from.
type ReferenceItem struct {
	Name       string              `json:"name"`
	Properties *msbuild.Properties `json:"properties"`
}

// TargetFrameworkInfo is the restore-relevant view of one target framework:
// its references and its restore properties. Within one RestoreInfo there is
// at most one entry per moniker.
type TargetFrameworkInfo struct {
	Moniker           string              `json:"targetFrameworkMoniker"`
	ProjectReferences []ReferenceItem     `json:"projectReferences"`
	PackageReferences []ReferenceItem     `json:"packageReferences"`
	Properties        *msbuild.Properties `json:"properties"`
}

// RestoreInfo is a consolidated restore nomination for one project: everything
// a package-restore engine needs across all of the project's configurations.
// It is immutable once returned by Aggregate.
type RestoreInfo struct {
	BaseIntermediatePath     string                `json:"baseIntermediatePath"`
	OriginalTargetFrameworks string                `json:"originalTargetFrameworks"`
	TargetFrameworks         []TargetFrameworkInfo `json:"targetFrameworks"`
	ToolReferences           []ReferenceItem       `json:"toolReferences"`
}

// FrameworkMonikers returns the monikers in first-seen order.
func (ri *RestoreInfo) FrameworkMonikers() []string {
	monikers := make([]string, 0, len(ri.TargetFrameworks))
	for _, tf := range ri.TargetFrameworks {
		monikers = append(monikers, tf.Moniker)
	}
	return monikers
}

// FrameworksLabel is the comma-joined moniker list used for log lines and
// storage rows.
func (ri *RestoreInfo) FrameworksLabel() string {
	return strings.Join(ri.FrameworkMonikers(), ",")
}

// Package msbuild models the slice of MSBuild project evaluation data that
// package restore cares about: per-configuration update events carrying rule
// snapshots (properties and items) plus the configuration's dimension values.
package msbuild

import "fmt"

// Schema rule names every update event is required to carry. The upstream
// evaluation subscription guarantees their presence; a missing rule means the
// producer broke its contract.
const (
	RestoreRule          = "NuGetRestore"
	ProjectReferenceRule = "ProjectReference"
	PackageReferenceRule = "PackageReference"
	ToolReferenceRule    = "DotNetCliToolReference"
)

// KnownRules lists the required rules in their canonical order.
var KnownRules = []string{RestoreRule, ProjectReferenceRule, PackageReferenceRule, ToolReferenceRule}

// Well-known property and dimension names used during aggregation.
const (
	TargetFrameworkProperty            = "TargetFramework"
	TargetFrameworksProperty           = "TargetFrameworks"
	BaseIntermediateOutputPathProperty = "BaseIntermediateOutputPath"
	DefiningProjectDirectoryProperty   = "DefiningProjectDirectory"
	ProjectFileFullPathProperty        = "ProjectFileFullPath"

	TargetFrameworkDimension = "TargetFramework"
)

// ItemEntry is one evaluated item: its include name (a path or package id)
// plus its metadata bag.
type ItemEntry struct {
	Name     string
	Metadata *Properties
}

// ProjectChange is the after-state of one rule in an update event, plus a
// flag telling whether the event carried any difference for that rule.
type ProjectChange struct {
	AnyChanges bool
	Properties *Properties
	Items      []ItemEntry
}

// UpdateEvent is one versioned evaluation snapshot for a single project
// configuration.
type UpdateEvent struct {
	Version    int64
	Dimensions map[string]string
	Changes    map[string]*ProjectChange
}

// Change returns the named rule's change description. Absence is a contract
// violation by the event producer and surfaces as an error so callers fail
// fast instead of aggregating partial data.
func (e *UpdateEvent) Change(rule string) (*ProjectChange, error) {
	c, ok := e.Changes[rule]
	if !ok || c == nil {
		return nil, fmt.Errorf("update event (version %d) is missing the %q rule", e.Version, rule)
	}
	return c, nil
}

// HasAnyChanges reports whether any rule in this event carries a difference.
func (e *UpdateEvent) HasAnyChanges() bool {
	for _, c := range e.Changes {
		if c != nil && c.AnyChanges {
			return true
		}
	}
	return false
}

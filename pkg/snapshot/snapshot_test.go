package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/renomhq/renom/pkg/msbuild"
)

const sampleSnapshot = `{
  "version": 12,
  "dimensions": {"TargetFramework": "net6.0", "Configuration": "Debug"},
  "changes": {
    "NuGetRestore": {
      "anyChanges": true,
      "properties": {
        "TargetFramework": "net6.0",
        "BaseIntermediateOutputPath": "obj/"
      }
    },
    "ProjectReference": {
      "anyChanges": false,
      "items": [
        {"name": "../Lib/Lib.csproj", "metadata": {"DefiningProjectDirectory": "C:\\Src\\App\\"}}
      ]
    },
    "PackageReference": {
      "anyChanges": false,
      "items": [
        {"name": "Newtonsoft.Json", "metadata": {"Version": "13.0.1"}},
        {"name": ""}
      ]
    }
  }
}`

func TestParseSnapshot(t *testing.T) {
	ev, err := Parse([]byte(sampleSnapshot))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if ev.Version != 12 {
		t.Fatalf("version = %d", ev.Version)
	}
	if ev.Dimensions[msbuild.TargetFrameworkDimension] != "net6.0" {
		t.Fatalf("dimensions = %v", ev.Dimensions)
	}

	restoreChange, err := ev.Change(msbuild.RestoreRule)
	if err != nil {
		t.Fatalf("restore rule: %v", err)
	}
	if !restoreChange.AnyChanges {
		t.Fatal("anyChanges not decoded")
	}
	if v, _ := restoreChange.Properties.Get("BaseIntermediateOutputPath"); v != "obj/" {
		t.Fatalf("property not decoded: %q", v)
	}

	pkgChange, _ := ev.Change(msbuild.PackageReferenceRule)
	if len(pkgChange.Items) != 1 {
		t.Fatalf("expected unnamed item to be dropped, got %d items", len(pkgChange.Items))
	}
	if v, _ := pkgChange.Items[0].Metadata.Get("Version"); v != "13.0.1" {
		t.Fatalf("item metadata not decoded: %q", v)
	}
}

func TestParseMaterializesMissingRules(t *testing.T) {
	ev, err := Parse([]byte(sampleSnapshot))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// DotNetCliToolReference is absent from the document but must still
	// satisfy the aggregator's schema contract.
	toolChange, err := ev.Change(msbuild.ToolReferenceRule)
	if err != nil {
		t.Fatalf("missing rule not materialized: %v", err)
	}
	if toolChange.AnyChanges || len(toolChange.Items) != 0 {
		t.Fatalf("materialized rule should be empty, got %+v", toolChange)
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Fatal("expected an error for invalid JSON")
	}
}

func TestDiscoverOrdersByConfiguration(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"snapshot-net7.0.json", "snapshot-net6.0.json", "notes.txt", "other.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	paths, err := Discover(dir)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 snapshot files, got %v", paths)
	}
	if filepath.Base(paths[0]) != "snapshot-net6.0.json" || filepath.Base(paths[1]) != "snapshot-net7.0.json" {
		t.Fatalf("unexpected order: %v", paths)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "snapshot-Debug-net6.0.json"), []byte(sampleSnapshot), 0o644); err != nil {
		t.Fatal(err)
	}

	events, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 1 || events[0].Version != 12 {
		t.Fatalf("unexpected events: %+v", events)
	}
}

const sampleProject = `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFrameworks>net6.0;net7.0</TargetFrameworks>
    <BaseIntermediateOutputPath>obj/</BaseIntermediateOutputPath>
  </PropertyGroup>
  <ItemGroup>
    <PackageReference Include="Newtonsoft.Json" Version="13.0.1" />
    <ProjectReference Include="../Lib/Lib.csproj" />
  </ItemGroup>
</Project>`

func TestFromProjectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "App.csproj")
	if err := os.WriteFile(path, []byte(sampleProject), 0o644); err != nil {
		t.Fatal(err)
	}

	events, err := FromProjectFile(path)
	if err != nil {
		t.Fatalf("from project file: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected one event per framework, got %d", len(events))
	}

	if events[0].Dimensions[msbuild.TargetFrameworkDimension] != "net6.0" {
		t.Fatalf("dimensions = %v", events[0].Dimensions)
	}
	if !events[0].HasAnyChanges() {
		t.Fatal("synthesized events must be flagged as changed")
	}

	restoreChange, err := events[1].Change(msbuild.RestoreRule)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := restoreChange.Properties.Get(msbuild.TargetFrameworksProperty); v != "net6.0;net7.0" {
		t.Fatalf("TargetFrameworks property = %q", v)
	}

	pkgChange, err := events[0].Change(msbuild.PackageReferenceRule)
	if err != nil {
		t.Fatal(err)
	}
	if len(pkgChange.Items) != 1 || pkgChange.Items[0].Name != "Newtonsoft.Json" {
		t.Fatalf("package items = %+v", pkgChange.Items)
	}
	if v, _ := pkgChange.Items[0].Metadata.Get("Version"); v != "13.0.1" {
		t.Fatalf("package version metadata = %q", v)
	}
}

func TestFromProjectFileNoFramework(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Empty.csproj")
	if err := os.WriteFile(path, []byte(`<Project Sdk="Microsoft.NET.Sdk"></Project>`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := FromProjectFile(path); err == nil {
		t.Fatal("expected an error for a project with no target framework")
	}
}

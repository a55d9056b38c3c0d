package msbuild

// Project identifies the project whose configurations are being aggregated.
// It is the fallback base for rooting relative reference paths when an item
// carries no defining-project directory of its own.
type Project struct {
	// Path is the full path to the project file.
	Path string
}

func (p Project) Directory() string {
	return DirOf(p.Path)
}

// MakeRooted roots rel against the project's own directory.
func (p Project) MakeRooted(rel string) string {
	return MakeRooted(p.Directory(), rel)
}

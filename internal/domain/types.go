package domain

// GeneratedFile records one file written (or planned, in dry-run mode) by a
// generation run.
type GeneratedFile struct {
	Path string
	Kind string // "page", "actions", "feature", "fixture", "fixture-index"
	Size int
}

// GenerationResult summarizes one generation run across every compiled
// program file.
type GenerationResult struct {
	Programs int
	Files    []GeneratedFile
	Warnings []string
}

// CountByKind tallies generated files of one kind.
func (r *GenerationResult) CountByKind(kind string) int {
	n := 0
	for _, f := range r.Files {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

package model

import (
	"cmp"
	"slices"
)

// LicenseChange describes a package whose license differs between two runs.
type LicenseChange struct {
	Name     string  `json:"name"`
	Previous License `json:"previous"`
	Current  License `json:"current"`
}

// RunDiff is the difference between the package sets of two runs.
type RunDiff struct {
	// Added lists packages present only in the current run.
	Added []Pkg `json:"added,omitempty"`

	// Removed lists packages present only in the previous run.
	Removed []Pkg `json:"removed,omitempty"`

	// Changed lists packages whose SPDX identifier or full name changed.
	Changed []LicenseChange `json:"changed,omitempty"`

	// UnchangedCount is the number of packages with identical licenses.
	UnchangedCount int `json:"unchanged_count"`
}

// HasChanges reports whether the two runs differ at all.
func (d *RunDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Changed) > 0
}

// DiffPkgs compares two package sets keyed by package name.
// When a name occurs more than once in a set, the last occurrence wins.
func DiffPkgs(previous, current []Pkg) *RunDiff {
	prev := indexByName(previous)
	curr := indexByName(current)

	diff := &RunDiff{}
	for name, p := range curr {
		old, ok := prev[name]
		switch {
		case !ok:
			diff.Added = append(diff.Added, p)
		case old.License.SPDXID != p.License.SPDXID || old.License.FullName != p.License.FullName:
			diff.Changed = append(diff.Changed, LicenseChange{
				Name:     name,
				Previous: old.License,
				Current:  p.License,
			})
		default:
			diff.UnchangedCount++
		}
	}
	for name, p := range prev {
		if _, ok := curr[name]; !ok {
			diff.Removed = append(diff.Removed, p)
		}
	}

	byName := func(a, b Pkg) int { return cmp.Compare(a.Name, b.Name) }
	slices.SortFunc(diff.Added, byName)
	slices.SortFunc(diff.Removed, byName)
	slices.SortFunc(diff.Changed, func(a, b LicenseChange) int { return cmp.Compare(a.Name, b.Name) })

	return diff
}

func indexByName(pkgs []Pkg) map[string]Pkg {
	m := make(map[string]Pkg, len(pkgs))
	for _, p := range pkgs {
		m[p.Name] = p
	}
	return m
}

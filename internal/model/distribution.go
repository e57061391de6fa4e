package model

import (
	"cmp"
	"slices"
	"strings"
)

// NoFamily is the family label used for packages without an SPDX identifier.
const NoFamily = "(none)"

// Family returns the license family of an SPDX identifier: the part before
// the first '-', or the whole identifier when it has none.
// "GPL-2.0-or-later" belongs to "GPL", "MIT" to "MIT".
func Family(spdxID string) string {
	if spdxID == "" {
		return NoFamily
	}
	family, _, _ := strings.Cut(spdxID, "-")
	return family
}

// DistributionEntry is one row of the license distribution table.
type DistributionEntry struct {
	// License is the license family, e.g. "GPL".
	License string `json:"license"`

	// SubLicense is the full license name within the family.
	SubLicense string `json:"sub-license"`

	// Count is the number of packages sharing the entry's SPDX identifier.
	Count int `json:"count"`
}

// FamilyCount is the number of packages in one license family.
type FamilyCount struct {
	Family string `json:"family"`
	Count  int    `json:"count"`
}

// Distribution summarizes how licenses are spread over a package set.
type Distribution struct {
	// Total is the number of packages summarized.
	Total int `json:"total"`

	// Entries are unique (license, sub-license, count) rows in the order
	// their first package appears.
	Entries []DistributionEntry `json:"entries"`

	// Families are per-family package counts sorted by count, largest first.
	Families []FamilyCount `json:"families"`
}

// NewDistribution computes the license distribution of pkgs.
func NewDistribution(pkgs []Pkg) *Distribution {
	perSPDX := make(map[string]int)
	perFamily := make(map[string]int)
	for _, p := range pkgs {
		perSPDX[p.License.SPDXID]++
		perFamily[Family(p.License.SPDXID)]++
	}

	seen := make(map[DistributionEntry]bool)
	entries := make([]DistributionEntry, 0)
	for _, p := range pkgs {
		e := DistributionEntry{
			License:    Family(p.License.SPDXID),
			SubLicense: p.License.FullName,
			Count:      perSPDX[p.License.SPDXID],
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		entries = append(entries, e)
	}

	families := make([]FamilyCount, 0, len(perFamily))
	for family, count := range perFamily {
		families = append(families, FamilyCount{Family: family, Count: count})
	}
	slices.SortFunc(families, func(a, b FamilyCount) int {
		return cmp.Or(
			cmp.Compare(b.Count, a.Count),
			cmp.Compare(a.Family, b.Family),
		)
	})

	return &Distribution{
		Total:    len(pkgs),
		Entries:  entries,
		Families: families,
	}
}

// DistributionHeader returns the header of the distribution CSV.
func DistributionHeader() []string {
	return []string{"license", "sub-license", "count"}
}

package model

// License is the license metadata reported by the package evaluator for
// a single package. Every field is optional in the evaluator output; absent
// keys leave the zero value in place.
type License struct {
	// Deprecated reports whether the license identifier is deprecated upstream.
	Deprecated bool `json:"deprecated"`

	// Free reports whether the license is considered free software.
	Free bool `json:"free"`

	// FullName is the human-readable license name, e.g. "MIT License".
	FullName string `json:"fullName"`

	// Redistributable reports whether binaries may be redistributed.
	Redistributable bool `json:"redistributable"`

	// ShortName is the evaluator's short license key, e.g. "mit".
	ShortName string `json:"shortName"`

	// SPDXID is the SPDX license identifier, e.g. "MIT" or "GPL-2.0-or-later".
	SPDXID string `json:"spdxId"`

	// URL points to the license text.
	URL string `json:"url"`
}

// Pkg is one package identifier together with its license.
// A Pkg owns its License by value, so two Pkgs never share one.
type Pkg struct {
	// Name is the identifier exactly as it appeared in the input list.
	Name string `json:"name"`

	// License is the license record fetched for Name.
	License License `json:"license"`
}

// NewPkg creates a Pkg for the given identifier and license.
func NewPkg(name string, license License) Pkg {
	return Pkg{Name: name, License: license}
}

// CSV column names. Only these five columns are serialized; the boolean
// license attributes never appear in the table.
const (
	ColumnName      = "name"
	ColumnFullName  = "fullName"
	ColumnShortName = "shortName"
	ColumnSPDXID    = "spdxId"
	ColumnURL       = "url"
)

// CSVHeader returns the header row of the license table.
func CSVHeader() []string {
	return []string{ColumnName, ColumnFullName, ColumnShortName, ColumnSPDXID, ColumnURL}
}

// Record returns the CSV row for the package, in CSVHeader order.
func (p Pkg) Record() []string {
	return []string{
		p.Name,
		p.License.FullName,
		p.License.ShortName,
		p.License.SPDXID,
		p.License.URL,
	}
}

// PkgFromRecord rebuilds a Pkg from a row in CSVHeader order.
// The boolean attributes are not part of the table and stay false.
func PkgFromRecord(record []string) (Pkg, bool) {
	if len(record) != len(CSVHeader()) {
		return Pkg{}, false
	}
	return Pkg{
		Name: record[0],
		License: License{
			FullName:  record[1],
			ShortName: record[2],
			SPDXID:    record[3],
			URL:       record[4],
		},
	}, true
}

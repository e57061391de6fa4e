// Package main provides the entry point for the nixlicense CLI.
//
// nixlicense reads a list of nixpkgs attribute names, asks `nix eval` for
// the license metadata of each one and writes the results as a CSV table.
//
// Usage:
//
//	nixlicense report -i data/pkgs.txt -o data/pkgs.csv
//	nixlicense dist
//
// See --help for all available options.
package main

// main is the entry point for nixlicense.
func main() {
	Execute()
}

package cmd

import "grimm.is/moraine/internal/brand"

// RunVersion prints version and build information.
func RunVersion() {
	Printer.Printf("%s %s\n", brand.Name, brand.Version)
	Printer.Printf("  commit: %s\n", brand.GitCommit)
	Printer.Printf("  built:  %s\n", brand.BuildTime)
}

package cmd

import (
	"fmt"

	"grimm.is/moraine/internal/brand"
	"grimm.is/moraine/internal/ingest"
)

// RunCheck validates the configuration file and both CSV inputs without
// talking to the API. Row errors are reported but only a broken config or
// unreadable file fails the check.
func RunCheck(configFile string, verbose bool) error {
	if configFile == "" {
		return fmt.Errorf("usage: %s check [-v] <config-file>", brand.BinaryName)
	}

	cfg, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	Printer.Printf("Configuration valid!\n")
	Printer.Printf("Schema Version: %s\n", cfg.SchemaVersion)
	Printer.Printf("Organization: %s\n", cfg.Dashboard.OrgID)
	if len(cfg.Networks) > 0 {
		Printer.Printf("Network filter: %d names\n", len(cfg.Networks))
	} else {
		Printer.Println("Network filter: all appliance networks")
	}

	badRows := 0

	f, err := openInput(cfg.Input.ObjectsCSV, "objects")
	if err != nil {
		return err
	}
	objects, objErrs, err := ingest.ReadObjects(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("objects CSV invalid: %w", err)
	}
	Printer.Printf("Objects CSV: %d rows valid, %d rows bad\n", len(objects), len(objErrs))
	badRows += len(objErrs)

	f, err = openInput(cfg.Input.RulesCSV, "rules")
	if err != nil {
		return err
	}
	rules, ruleErrs, err := ingest.ReadRules(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("rules CSV invalid: %w", err)
	}
	Printer.Printf("Rules CSV: %d rows valid, %d rows bad\n", len(rules), len(ruleErrs))
	badRows += len(ruleErrs)

	if verbose {
		for _, re := range objErrs {
			Printer.Printf("  objects %v\n", re)
		}
		for _, re := range ruleErrs {
			Printer.Printf("  rules %v\n", re)
		}
		groups := make(map[string]int)
		for _, row := range objects {
			if row.GroupName != "" {
				groups[row.GroupName]++
			}
		}
		Printer.Printf("Groups referenced: %d\n", len(groups))
		for name, n := range groups {
			Printer.Printf("  %s (%d members)\n", name, n)
		}
	}

	if badRows > 0 {
		Printer.Printf("\n%d rows would be skipped. Run with -v for details.\n", badRows)
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"

	"grimm.is/moraine/internal/console"
	"grimm.is/moraine/internal/dashboard"
)

// RunRules runs only the ruleset phase: resolve the rules CSV against the
// existing inventory and push. Objects referenced by name must already
// exist; unresolved names are rejected by the API.
func RunRules(configFile, rulesCSV string, overwrite, yes, dryRun, quiet bool) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	if rulesCSV != "" {
		cfg.Input.RulesCSV = rulesCSV
	}

	cons := console.Default()
	cons.SetQuiet(quiet)
	cons.Header("L3 Outbound Rules", "organization "+cfg.Dashboard.OrgID)

	ctx := context.Background()
	client := dashboard.New(cfg.Dashboard)

	var inv *dashboard.Inventory
	err = cons.WithSpinner("Fetching inventory", func() error {
		inv, err = client.LoadInventory(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("load inventory: %w", err)
	}

	rules, err := readRules(cfg, inv, cons)
	if err != nil {
		return err
	}
	cons.Successf("%d rules ready", len(rules))

	overwrite = cfg.Overwrite || overwrite
	overwrite, err = confirmOverwrite(overwrite, yes, cons)
	if err != nil {
		return err
	}

	pushed, err := pushRules(ctx, client, cfg, rules, overwrite, dryRun, cons)
	if err != nil {
		return err
	}
	cons.Summary("Result", [][2]string{
		{"Networks updated", fmt.Sprintf("%d", pushed)},
	})
	return nil
}

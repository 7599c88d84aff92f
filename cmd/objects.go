package cmd

import (
	"context"
	"fmt"

	"grimm.is/moraine/internal/console"
	"grimm.is/moraine/internal/dashboard"
)

// RunObjects runs only the policy-object phase: create objects and groups
// from the objects CSV without touching any network's ruleset.
func RunObjects(configFile, objectsCSV string, dryRun, quiet bool) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	if objectsCSV != "" {
		cfg.Input.ObjectsCSV = objectsCSV
	}

	cons := console.Default()
	cons.SetQuiet(quiet)
	cons.Header("Policy Objects", "organization "+cfg.Dashboard.OrgID)

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

	stats, err := syncObjects(ctx, client, inv, cfg.Input.ObjectsCSV, cons, dryRun)
	if err != nil {
		return err
	}

	cons.Summary("Result", [][2]string{
		{"Objects created", fmt.Sprintf("%d", stats.created)},
		{"Objects skipped", fmt.Sprintf("%d", stats.skipped)},
		{"Create failures", fmt.Sprintf("%d", stats.failed)},
		{"Groups created", fmt.Sprintf("%d", stats.groups)},
	})
	if stats.failed > 0 {
		return fmt.Errorf("%d create operations failed", stats.failed)
	}
	return nil
}

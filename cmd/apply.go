package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"grimm.is/moraine/internal/config"
	"grimm.is/moraine/internal/console"
	"grimm.is/moraine/internal/dashboard"
	"grimm.is/moraine/internal/ingest"
	"grimm.is/moraine/internal/logging"
)

// ApplyOptions are the runtime switches for a provisioning run.
type ApplyOptions struct {
	ConfigFile string
	ObjectsCSV string // override input.objects_csv
	RulesCSV   string // override input.rules_csv
	Overwrite  bool   // set by --overwrite, ORed with the config value
	Yes        bool   // skip the overwrite confirmation
	DryRun     bool   // show what would change, push nothing
	Quiet      bool
}

// RunApply executes the full pipeline: create policy objects and groups
// from the objects CSV, then resolve and push the L3 outbound ruleset to
// each selected appliance network.
func RunApply(opts ApplyOptions) error {
	cfg, err := loadConfig(opts.ConfigFile)
	if err != nil {
		return err
	}
	if opts.ObjectsCSV != "" {
		cfg.Input.ObjectsCSV = opts.ObjectsCSV
	}
	if opts.RulesCSV != "" {
		cfg.Input.RulesCSV = opts.RulesCSV
	}

	cons := console.Default()
	cons.SetQuiet(opts.Quiet)
	log := logging.WithComponent("apply")

	mode := "merge"
	overwrite := cfg.Overwrite || opts.Overwrite
	if overwrite {
		mode = "overwrite"
	}
	if opts.DryRun {
		mode += " (dry run)"
	}

	cons.Header("Network Policy Provisioning", "organization "+cfg.Dashboard.OrgID)
	cons.Summary("Run", [][2]string{
		{"Config", opts.ConfigFile},
		{"Objects CSV", cfg.Input.ObjectsCSV},
		{"Rules CSV", cfg.Input.RulesCSV},
		{"Mode", mode},
	})

	ctx := context.Background()
	client := dashboard.New(cfg.Dashboard)

	var inv *dashboard.Inventory
	cons.Stepf(1, 4, "Loading existing policy objects")
	err = cons.WithSpinner("Fetching inventory", func() error {
		inv, err = client.LoadInventory(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("load inventory: %w", err)
	}
	objCount, grpCount := inv.Counts()
	cons.Successf("Inventory loaded: %d objects, %d groups", objCount, grpCount)

	cons.Stepf(2, 4, "Creating policy objects from %s", cfg.Input.ObjectsCSV)
	objStats, err := syncObjects(ctx, client, inv, cfg.Input.ObjectsCSV, cons, opts.DryRun)
	if err != nil {
		return err
	}

	cons.Stepf(3, 4, "Reading firewall rules from %s", cfg.Input.RulesCSV)
	rules, err := readRules(cfg, inv, cons)
	if err != nil {
		return err
	}
	cons.Successf("%d rules ready", len(rules))

	cons.Stepf(4, 4, "Pushing rules to appliance networks")
	overwrite, err = confirmOverwrite(overwrite, opts.Yes, cons)
	if err != nil {
		return err
	}
	pushed, err := pushRules(ctx, client, cfg, rules, overwrite, opts.DryRun, cons)
	if err != nil {
		return err
	}

	cons.Summary("Result", [][2]string{
		{"Objects created", fmt.Sprintf("%d", objStats.created)},
		{"Objects skipped", fmt.Sprintf("%d", objStats.skipped)},
		{"Create failures", fmt.Sprintf("%d", objStats.failed)},
		{"Groups created", fmt.Sprintf("%d", objStats.groups)},
		{"Networks updated", fmt.Sprintf("%d", pushed)},
	})
	log.Info("run complete", "objects", objStats.created, "groups", objStats.groups,
		"failed", objStats.failed, "networks", pushed, "dryRun", opts.DryRun)
	if objStats.failed > 0 {
		return fmt.Errorf("%d create operations failed", objStats.failed)
	}
	return nil
}

type objectStats struct {
	created int
	skipped int
	failed  int
	groups  int
}

// syncObjects reads the objects CSV and creates the objects that don't
// exist yet. A row's group is ensured first so the object create carries the
// membership in groupIds; a failed group create skips that row. Existing
// object names are skipped; existing groups are reused.
func syncObjects(ctx context.Context, client *dashboard.Client, inv *dashboard.Inventory, path string, cons *console.Console, dryRun bool) (objectStats, error) {
	var stats objectStats

	f, err := openInput(path, "objects")
	if err != nil {
		return stats, err
	}
	defer f.Close()

	rows, rowErrs, err := ingest.ReadObjects(f)
	if err != nil {
		return stats, fmt.Errorf("read objects CSV: %w", err)
	}
	for _, re := range rowErrs {
		cons.Warnf("objects CSV %v, row skipped", re)
	}

	dryGroups := make(map[string]bool)
	ensureGroup := func(name string) (string, error) {
		if id, ok := inv.GroupID(name); ok {
			return id, nil
		}
		if dryRun {
			if !dryGroups[name] {
				dryGroups[name] = true
				cons.Infof("would create group %q", name)
				stats.groups++
			}
			return "", nil
		}
		created, err := client.CreatePolicyObjectGroup(ctx, dashboard.PolicyObjectGroup{
			Name:     name,
			Category: "NetworkObjectGroup",
		})
		if err != nil {
			return "", err
		}
		inv.AddGroup(created.Name, created.ID.String())
		stats.groups++
		cons.Successf("created group %q", created.Name)
		return created.ID.String(), nil
	}

	for _, row := range rows {
		var groupIDs []json.Number
		if row.GroupName != "" {
			gid, err := ensureGroup(row.GroupName)
			if err != nil {
				cons.Errorf("create group %q (line %d): %v", row.GroupName, row.Line, err)
				stats.failed++
				continue
			}
			if gid != "" {
				groupIDs = []json.Number{json.Number(gid)}
			}
		}

		if _, exists := inv.ObjectID(row.Object.Name); exists {
			cons.Warnf("object %q already exists, skipping", row.Object.Name)
			stats.skipped++
			continue
		}

		if dryRun {
			cons.Infof("would create object %q (%s)", row.Object.Name, row.Object.Type)
			stats.created++
			continue
		}

		obj := row.Object
		obj.GroupIDs = groupIDs
		created, err := client.CreatePolicyObject(ctx, obj)
		if err != nil {
			cons.Errorf("create object %q (line %d): %v", row.Object.Name, row.Line, err)
			stats.failed++
			continue
		}
		inv.AddObject(created.Name, created.ID.String())
		stats.created++
		cons.Successf("created object %q", created.Name)
	}

	return stats, nil
}

// readRules loads the rules CSV, applies the syslog default, and resolves
// object/group names into OBJ()/GRP() references.
func readRules(cfg *config.Config, inv *dashboard.Inventory, cons *console.Console) ([]dashboard.L3Rule, error) {
	f, err := openInput(cfg.Input.RulesCSV, "rules")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, rowErrs, err := ingest.ReadRules(f)
	if err != nil {
		return nil, fmt.Errorf("read rules CSV: %w", err)
	}
	for _, re := range rowErrs {
		cons.Warnf("rules CSV %v, row skipped", re)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no valid rules in %s", cfg.Input.RulesCSV)
	}

	rules := make([]dashboard.L3Rule, 0, len(rows))
	for _, row := range rows {
		rule := row.Rule
		if cfg.SyslogDefault && !rule.SyslogEnabled {
			rule.SyslogEnabled = true
		}
		rules = append(rules, rule)
	}

	translated := ingest.Translate(rules, inv)
	for i, rule := range translated {
		if rules[i].SrcCidr != rule.SrcCidr || rules[i].DestCidr != rule.DestCidr {
			logging.Debug("translated rule endpoints", "line", rows[i].Line,
				"src", rule.SrcCidr, "dest", rule.DestCidr)
		}
	}
	return translated, nil
}

// confirmOverwrite double-checks destructive mode with the operator.
// Declining falls back to merge. Non-interactive runs and --yes keep
// whatever mode was configured.
func confirmOverwrite(overwrite, yes bool, cons *console.Console) (bool, error) {
	if !overwrite || yes || !console.IsInteractive() {
		return overwrite, nil
	}
	ok, err := console.Confirm(
		"Overwrite existing firewall rules?",
		"Every selected network's current L3 outbound ruleset will be replaced. Answering No merges instead.",
		false)
	if err != nil {
		return false, fmt.Errorf("confirmation aborted: %w", err)
	}
	if !ok {
		cons.Infof("overwrite declined, merging instead")
	}
	return ok, nil
}

// pushRules applies the ruleset to each selected appliance network and
// returns how many networks were updated.
func pushRules(ctx context.Context, client *dashboard.Client, cfg *config.Config, rules []dashboard.L3Rule, overwrite, dryRun bool, cons *console.Console) (int, error) {
	networks, err := client.ListApplianceNetworks(ctx, cfg.Networks)
	if err != nil {
		return 0, fmt.Errorf("list networks: %w", err)
	}
	if len(networks) == 0 {
		if len(cfg.Networks) > 0 {
			return 0, fmt.Errorf("no appliance networks match %v", cfg.Networks)
		}
		return 0, fmt.Errorf("organization has no appliance networks")
	}

	pushed := 0
	failures := 0
	for _, net := range networks {
		// Overwrite pushes the CSV list as-is; the current ruleset is only
		// needed for merging or the dry-run diff.
		var existing []dashboard.L3Rule
		if !overwrite || dryRun {
			var err error
			existing, err = client.GetL3FirewallRules(ctx, net.ID)
			if err != nil {
				if dashboard.IsNotFound(err) {
					cons.Warnf("%s: no L3 ruleset, skipping", net.Name)
					continue
				}
				cons.Errorf("fetch rules for %q: %v", net.Name, err)
				failures++
				continue
			}
		}

		var proposed []dashboard.L3Rule
		if overwrite {
			proposed = ingest.StripDefaultRule(rules)
		} else {
			proposed = ingest.MergeRules(existing, rules)
		}

		if dryRun {
			diff := console.RuleDiff(ingest.StripDefaultRule(existing), proposed)
			if diff == "" {
				cons.Successf("%s: no changes", net.Name)
				continue
			}
			cons.Infof("%s would change:", net.Name)
			cons.Diff(diff)
			continue
		}

		err = cons.WithSpinner("Updating "+net.Name, func() error {
			_, err := client.UpdateL3FirewallRules(ctx, net.ID, proposed)
			return err
		})
		if err != nil {
			cons.Errorf("update rules for %q: %v", net.Name, err)
			failures++
			continue
		}
		pushed++
		cons.Successf("%s: %d rules applied", net.Name, len(proposed))
	}
	if failures > 0 {
		return pushed, fmt.Errorf("%d of %d networks failed", failures, len(networks))
	}
	return pushed, nil
}

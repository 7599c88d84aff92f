package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"grimm.is/moraine/internal/dashboard"
)

// RunNetworks lists the organization's appliance networks, marking which
// ones a run would target under the current config.
func RunNetworks(configFile string, all bool) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client := dashboard.New(cfg.Dashboard)

	var networks []dashboard.Network
	if all {
		networks, err = client.ListNetworks(ctx)
	} else {
		networks, err = client.ListApplianceNetworks(ctx, nil)
	}
	if err != nil {
		return fmt.Errorf("list networks: %w", err)
	}
	if len(networks) == 0 {
		Printer.Println("No networks found.")
		return nil
	}

	selected := make(map[string]bool, len(cfg.Networks))
	for _, name := range cfg.Networks {
		selected[name] = true
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRODUCTS\tTARGETED")
	for _, n := range networks {
		target := "-"
		if n.IsAppliance() && (len(selected) == 0 || selected[n.Name]) {
			target = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			n.ID, n.Name, strings.Join(n.ProductTypes, ","), target)
	}
	return w.Flush()
}

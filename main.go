package main

import (
	"flag"
	"os"

	"grimm.is/moraine/cmd"
	"grimm.is/moraine/internal/brand"
	"grimm.is/moraine/internal/i18n"
)

var printer = i18n.NewCLIPrinter()

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	defaultConfig := brand.DefaultConfigPath()

	switch os.Args[1] {
	case "apply":
		applyFlags := flag.NewFlagSet("apply", flag.ExitOnError)
		configFile := applyFlags.String("config", defaultConfig, "Configuration file")
		applyFlags.StringVar(configFile, "c", defaultConfig, "Configuration file (short)")

		objectsCSV := applyFlags.String("objects", "", "Objects CSV path (overrides config)")
		rulesCSV := applyFlags.String("rules", "", "Rules CSV path (overrides config)")

		overwrite := applyFlags.Bool("overwrite", false, "Replace each network's ruleset instead of merging")
		yes := applyFlags.Bool("yes", false, "Skip the overwrite confirmation")
		applyFlags.BoolVar(yes, "y", false, "Skip the overwrite confirmation (short)")

		dryRun := applyFlags.Bool("dry-run", false, "Show what would change without pushing")
		applyFlags.BoolVar(dryRun, "n", false, "Dry run (short)")

		quiet := applyFlags.Bool("quiet", false, "Suppress informational output")
		applyFlags.BoolVar(quiet, "q", false, "Quiet (short)")

		applyFlags.Parse(os.Args[2:])

		if err := cmd.RunApply(cmd.ApplyOptions{
			ConfigFile: *configFile,
			ObjectsCSV: *objectsCSV,
			RulesCSV:   *rulesCSV,
			Overwrite:  *overwrite,
			Yes:        *yes,
			DryRun:     *dryRun,
			Quiet:      *quiet,
		}); err != nil {
			printer.Fprintf(os.Stderr, "Apply failed: %v\n", err)
			os.Exit(1)
		}

	case "objects":
		objFlags := flag.NewFlagSet("objects", flag.ExitOnError)
		configFile := objFlags.String("config", defaultConfig, "Configuration file")
		objFlags.StringVar(configFile, "c", defaultConfig, "Configuration file (short)")
		objectsCSV := objFlags.String("objects", "", "Objects CSV path (overrides config)")
		dryRun := objFlags.Bool("dry-run", false, "Show what would change without creating")
		objFlags.BoolVar(dryRun, "n", false, "Dry run (short)")
		quiet := objFlags.Bool("quiet", false, "Suppress informational output")
		objFlags.Parse(os.Args[2:])

		if err := cmd.RunObjects(*configFile, *objectsCSV, *dryRun, *quiet); err != nil {
			printer.Fprintf(os.Stderr, "Objects failed: %v\n", err)
			os.Exit(1)
		}

	case "rules":
		ruleFlags := flag.NewFlagSet("rules", flag.ExitOnError)
		configFile := ruleFlags.String("config", defaultConfig, "Configuration file")
		ruleFlags.StringVar(configFile, "c", defaultConfig, "Configuration file (short)")
		rulesCSV := ruleFlags.String("rules", "", "Rules CSV path (overrides config)")
		overwrite := ruleFlags.Bool("overwrite", false, "Replace each network's ruleset instead of merging")
		yes := ruleFlags.Bool("yes", false, "Skip the overwrite confirmation")
		ruleFlags.BoolVar(yes, "y", false, "Skip the overwrite confirmation (short)")
		dryRun := ruleFlags.Bool("dry-run", false, "Show what would change without pushing")
		ruleFlags.BoolVar(dryRun, "n", false, "Dry run (short)")
		quiet := ruleFlags.Bool("quiet", false, "Suppress informational output")
		ruleFlags.Parse(os.Args[2:])

		if err := cmd.RunRules(*configFile, *rulesCSV, *overwrite, *yes, *dryRun, *quiet); err != nil {
			printer.Fprintf(os.Stderr, "Rules failed: %v\n", err)
			os.Exit(1)
		}

	case "networks":
		netFlags := flag.NewFlagSet("networks", flag.ExitOnError)
		configFile := netFlags.String("config", defaultConfig, "Configuration file")
		netFlags.StringVar(configFile, "c", defaultConfig, "Configuration file (short)")
		all := netFlags.Bool("all", false, "Include non-appliance networks")
		netFlags.BoolVar(all, "a", false, "Include non-appliance networks (short)")
		netFlags.Parse(os.Args[2:])

		if err := cmd.RunNetworks(*configFile, *all); err != nil {
			printer.Fprintf(os.Stderr, "Networks failed: %v\n", err)
			os.Exit(1)
		}

	case "check":
		checkFlags := flag.NewFlagSet("check", flag.ExitOnError)
		verbose := checkFlags.Bool("verbose", false, "Verbose output")
		checkFlags.BoolVar(verbose, "v", false, "Verbose output (short)")
		checkFlags.Parse(os.Args[2:])

		configFile := defaultConfig
		if len(checkFlags.Args()) > 0 {
			configFile = checkFlags.Arg(0)
		}

		if err := cmd.RunCheck(configFile, *verbose); err != nil {
			printer.Fprintf(os.Stderr, "Check failed: %v\n", err)
			os.Exit(1)
		}

	case "version", "--version", "-v":
		cmd.RunVersion()

	case "help", "--help", "-h":
		printUsage()

	default:
		printer.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	bin := brand.BinaryName
	printer.Println(brand.Name + " - " + brand.Description)
	printer.Println()
	printer.Println("Usage:")
	printer.Printf("  %s <command> [options]\n", bin)
	printer.Println()
	printer.Println("Commands:")
	printer.Println("  apply       Create policy objects and push L3 outbound rules")
	printer.Println("  objects     Create policy objects and groups only")
	printer.Println("  rules       Push L3 outbound rules only")
	printer.Println("  networks    List the organization's networks")
	printer.Println("  check       Validate the config file and CSV inputs offline")
	printer.Println("  version     Show version information")
	printer.Println()
	printer.Println("Common options:")
	printer.Println("  -c, --config     Configuration file (default " + brand.DefaultConfigPath() + ")")
	printer.Println("  -n, --dry-run    Show what would change without making API calls that mutate")
	printer.Println("      --overwrite  Replace rulesets instead of merging")
	printer.Println("  -y, --yes        Skip the overwrite confirmation")
	printer.Println()
	printer.Printf("Environment: %s_API_KEY, %s_ORG_ID, %s_BASE_URL override the config file.\n",
		brand.ConfigEnvPrefix, brand.ConfigEnvPrefix, brand.ConfigEnvPrefix)
}

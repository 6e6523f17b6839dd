package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"grimm.is/vpcctl/cmd"
	"grimm.is/vpcctl/internal/brand"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Ctrl-C cancels the in-flight operation; a multi-step sequence cut
	// short can leave kernel objects without a matching record, which the
	// check command surfaces.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := dispatch(ctx, os.Args[1], os.Args[2:])
	stop()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Operation cancelled; run 'vpcctl check' to verify host state")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "create-vpc":
		fs := flag.NewFlagSet("create-vpc", flag.ExitOnError)
		flags := globalFlags(fs)
		fs.Parse(args)
		if fs.NArg() != 2 {
			return usageError("create-vpc [options] <name> <cidr>")
		}
		return cmd.RunCreateVPC(ctx, *flags, fs.Arg(0), fs.Arg(1))

	case "delete-vpc":
		fs := flag.NewFlagSet("delete-vpc", flag.ExitOnError)
		flags := globalFlags(fs)
		fs.Parse(args)
		if fs.NArg() != 1 {
			return usageError("delete-vpc [options] <name>")
		}
		return cmd.RunDeleteVPC(ctx, *flags, fs.Arg(0))

	case "create-subnet":
		fs := flag.NewFlagSet("create-subnet", flag.ExitOnError)
		flags := globalFlags(fs)
		subnetType := fs.String("type", "private", "Subnet type: public or private")
		fs.StringVar(subnetType, "t", "private", "Subnet type (short)")
		fs.Parse(args)
		if fs.NArg() != 3 {
			return usageError("create-subnet [options] <vpc> <name> <cidr>")
		}
		return cmd.RunCreateSubnet(ctx, *flags, fs.Arg(0), fs.Arg(1), fs.Arg(2), *subnetType)

	case "delete-subnet":
		fs := flag.NewFlagSet("delete-subnet", flag.ExitOnError)
		flags := globalFlags(fs)
		fs.Parse(args)
		if fs.NArg() != 2 {
			return usageError("delete-subnet [options] <vpc> <name>")
		}
		return cmd.RunDeleteSubnet(ctx, *flags, fs.Arg(0), fs.Arg(1))

	case "setup-nat":
		fs := flag.NewFlagSet("setup-nat", flag.ExitOnError)
		flags := globalFlags(fs)
		iface := fs.String("interface", "", "Host interface for outbound traffic (default from config)")
		fs.StringVar(iface, "i", "", "Host interface (short)")
		fs.Parse(args)
		if fs.NArg() != 2 {
			return usageError("setup-nat [options] <vpc> <subnet>")
		}
		return cmd.RunSetupNAT(ctx, *flags, fs.Arg(0), fs.Arg(1), *iface)

	case "apply-firewall":
		fs := flag.NewFlagSet("apply-firewall", flag.ExitOnError)
		flags := globalFlags(fs)
		rulesFile := fs.String("rules-file", "", "Ingress rules file (YAML or JSON)")
		fs.StringVar(rulesFile, "r", "", "Ingress rules file (short)")
		fs.Parse(args)
		if fs.NArg() != 2 {
			return usageError("apply-firewall [options] <vpc> <subnet>")
		}
		return cmd.RunApplyFirewall(ctx, *flags, fs.Arg(0), fs.Arg(1), *rulesFile)

	case "exec":
		fs := flag.NewFlagSet("exec", flag.ExitOnError)
		flags := globalFlags(fs)
		fs.Parse(args)
		if fs.NArg() < 3 {
			return usageError("exec [options] <vpc> <subnet> <command...>")
		}
		command := strings.Join(fs.Args()[2:], " ")
		return cmd.RunExec(ctx, *flags, fs.Arg(0), fs.Arg(1), command)

	case "list-vpcs":
		fs := flag.NewFlagSet("list-vpcs", flag.ExitOnError)
		flags := globalFlags(fs)
		fs.Parse(args)
		return cmd.RunListVPCs(ctx, *flags)

	case "check":
		fs := flag.NewFlagSet("check", flag.ExitOnError)
		flags := globalFlags(fs)
		fs.Parse(args)
		name := ""
		if fs.NArg() > 0 {
			name = fs.Arg(0)
		}
		return cmd.RunCheck(ctx, *flags, name)

	case "audit":
		fs := flag.NewFlagSet("audit", flag.ExitOnError)
		flags := globalFlags(fs)
		since := fs.Duration("since", 24*time.Hour, "How far back to look")
		action := fs.String("action", "", "Filter by action, e.g. create-vpc")
		limit := fs.Int("limit", 50, "Maximum events to show")
		fs.Parse(args)
		return cmd.RunAudit(ctx, *flags, *since, *action, *limit)

	case "version":
		fmt.Printf("%s version %s\n", brand.Name, brand.Version)
		return nil

	case "help", "-h", "--help":
		printUsage()
		return nil

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
		return nil
	}
}

// globalFlags registers the options shared by all subcommands.
func globalFlags(fs *flag.FlagSet) *cmd.GlobalFlags {
	flags := &cmd.GlobalFlags{}
	fs.StringVar(&flags.ConfigFile, "config", brand.DefaultConfigFile(), "Configuration file")
	fs.StringVar(&flags.ConfigFile, "c", brand.DefaultConfigFile(), "Configuration file (short)")
	fs.StringVar(&flags.StateDir, "state-dir", "", "Override state directory")
	fs.BoolVar(&flags.JSON, "json", false, "Machine-readable output")
	return flags
}

func usageError(usage string) error {
	return fmt.Errorf("usage: %s %s", brand.LowerName, usage)
}

func printUsage() {
	fmt.Printf(`%s - single-host VPC lifecycle manager

Usage:
  %s <command> [options] <args>

Lifecycle Commands (require root):
  create-vpc <name> <cidr>              Create a VPC and its bridge
  delete-vpc <name>                     Delete a VPC, its subnets, and its bridge
  create-subnet <vpc> <name> <cidr>     Create a subnet (namespace + veth)
            Options: --type (-t) public|private
  delete-subnet <vpc> <name>            Delete a subnet

Networking Commands (require root):
  setup-nat <vpc> <subnet>              Enable outbound NAT for a VPC
            Options: --interface (-i) <host-iface>
  apply-firewall <vpc> <subnet>         Apply packet-filter policy in a subnet
            Options: --rules-file (-r) <path>
  exec <vpc> <subnet> <command...>      Run a command inside a subnet's namespace

Inspection Commands:
  list-vpcs                             Show the persisted inventory
  check [vpc]                           Diff inventory against kernel state
  audit                                 Show recent operations
            Options: --since <dur>, --action <name>, --limit <n>

Global Options:
  --config (-c) <file>   Configuration file (default %s)
  --state-dir <dir>      Override the state directory
  --json                 Machine-readable output where supported

Note: options come before positional arguments.

Examples:
  %s create-vpc test 10.1.0.0/16
  %s create-subnet --type public test web 10.1.1.0/24
  %s setup-nat --interface eth0 test web
  %s exec test web ping -c 1 10.1.1.1
`,
		brand.Name,
		brand.LowerName,
		brand.DefaultConfigFile(),
		brand.LowerName, brand.LowerName, brand.LowerName, brand.LowerName)
}

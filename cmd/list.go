package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
)

// RunListVPCs prints the persisted inventory. With --json the summaries
// are printed as a JSON array instead of the table.
func RunListVPCs(ctx context.Context, flags GlobalFlags) error {
	return withRuntime(flags, false, func(ctx context.Context, r *runtime) error {
		summaries, err := r.manager.List(ctx)
		if err != nil {
			return err
		}

		if r.json {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summaries)
		}

		if len(summaries) == 0 {
			fmt.Println("No VPCs found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VPC\tCIDR\tBRIDGE\tSUBNET\tSUBNET CIDR\tTYPE")
		for _, v := range summaries {
			if len(v.Subnets) == 0 {
				fmt.Fprintf(w, "%s\t%s\t%s\t-\t-\t-\n", v.Name, v.CIDR, v.Bridge)
				continue
			}
			for i, sn := range v.Subnets {
				if i == 0 {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						v.Name, v.CIDR, v.Bridge, sn.Name, sn.CIDR, sn.Type)
				} else {
					fmt.Fprintf(w, "\t\t\t%s\t%s\t%s\n", sn.Name, sn.CIDR, sn.Type)
				}
			}
		}
		return w.Flush()
	})(ctx)
}

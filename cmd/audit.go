package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"grimm.is/vpcctl/internal/audit"
	"grimm.is/vpcctl/internal/config"
)

// RunAudit prints recent operations from the audit log, newest first.
func RunAudit(ctx context.Context, flags GlobalFlags, since time.Duration, action string, limit int) error {
	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return err
	}
	if cfg.Audit.Disabled {
		return fmt.Errorf("audit log is disabled in the configuration")
	}

	store, err := audit.NewStore(cfg.Audit.Path, cfg.Audit.RetentionDays)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer store.Close()

	events, err := store.Query(time.Now().Add(-since), time.Now(), action, limit)
	if err != nil {
		return err
	}

	if flags.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}

	if len(events) == 0 {
		fmt.Println("No audit events")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tUSER\tACTION\tRESOURCE\tSTATUS")
	for _, e := range events {
		status := "ok"
		if e.Status == audit.StatusFailure {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.RFC3339), e.User, e.Action, e.Resource, status)
	}
	return w.Flush()
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"reminders/core/reconcile"

	"github.com/spf13/cobra"
)

var (
	diffOld    string
	diffNew    string
	diffReload string
	diffJSON   bool
)

// diffCmd prints the operations that turn one single-section row order into
// another.
var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show the reconcile plan between two row orders",
	Long: `Computes the operations that turn --old into --new, e.g.

  reminders diff --old a,b,c --new c,a,b --reload b

Rows are comma separated identities of a single section.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		target := reconcile.Single(splitIDs(diffNew)...)
		target.Reloaded = splitIDs(diffReload)
		plan, err := reconcile.Diff(reconcile.Single(splitIDs(diffOld)...).Sections, target)
		if err != nil {
			return err
		}
		return printPlan(cmd.OutOrStdout(), plan, diffJSON)
	},
}

func splitIDs(s string) []reconcile.RowIdentity {
	var out []reconcile.RowIdentity
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, reconcile.RowIdentity(p))
		}
	}
	return out
}

func printPlan(w io.Writer, plan *reconcile.Plan, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}
	if plan.Reload {
		_, err := fmt.Fprintln(w, "reload")
		return err
	}
	for _, op := range plan.Operations {
		if _, err := fmt.Fprintln(w, op); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d operation(s)\n", len(plan.Operations))
	return err
}

func init() {
	diffCmd.Flags().StringVar(&diffOld, "old", "", "current row order")
	diffCmd.Flags().StringVar(&diffNew, "new", "", "target row order")
	diffCmd.Flags().StringVar(&diffReload, "reload", "", "rows whose content changed")
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "print the plan as JSON")
	RootCmd.AddCommand(diffCmd)
}

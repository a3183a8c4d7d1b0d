package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routeview/pkg/router"
)

func routesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the routes of the route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.buildRouter()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tNAME\tDEPTH\tCOMPONENTS")
			for _, rec := range r.Routes() {
				name := rec.Name
				if name == "" {
					name = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", rec.Path, name, rec.Depth(), describeSlots(rec))
			}
			return tw.Flush()
		},
	}
}

// describeSlots lists slot=Component(props) pairs, default slot first.
func describeSlots(rec *router.MatchedRecord) string {
	slots := make([]string, 0, len(rec.Components))
	for slot := range rec.Components {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool {
		if (slots[i] == router.DefaultSlot) != (slots[j] == router.DefaultSlot) {
			return slots[i] == router.DefaultSlot
		}
		return slots[i] < slots[j]
	})

	parts := make([]string, 0, len(slots))
	for _, slot := range slots {
		part := slot + "=" + rec.Components[slot].Name
		if mode := rec.PropsFor(slot).Mode; mode != router.PropsNone {
			part += "(" + mode.String() + ")"
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

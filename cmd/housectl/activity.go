package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) activityCmd() *cobra.Command {
	var (
		resource string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent changes to your household",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			page, err := a.client().ListActivity(ctx, resource, limit)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(page)
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tRESOURCE\tACTION\tID")
			for _, e := range page.Entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Resource, e.Action, e.ResourceID)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if page.Total > len(page.Entries) {
				fmt.Fprintf(a.out, "Showing %d of %d.\n", len(page.Entries), page.Total)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&resource, "resource", "", "only rooms, appliances or account")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show")
	return cmd
}

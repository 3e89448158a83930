package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nerrad567/currently-core/internal/catalogue"
	"github.com/nerrad567/currently-core/internal/house"
	"github.com/nerrad567/currently-core/internal/household"
)

func (a *app) catalogueCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:     "catalogue",
		Aliases: []string{"catalog"},
		Short:   "List the appliances you can add",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			list, err := a.client().ListCatalogue(ctx)
			if err != nil {
				return err
			}
			if category != "" {
				list = filterCategory(list, category)
			}
			if a.jsonOut {
				return a.printJSON(list)
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCATEGORY\tUSAGE\tRATING\tDEFAULT")
			for _, arch := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", arch.Name, arch.Category, arch.UsageType, rating(arch), defaultRate(arch))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only show this category")
	return cmd
}

func (a *app) houseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "house",
		Short: "Show the house map with daily energy and cost",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := a.load(ctx)
			if err != nil {
				return err
			}
			h := s.House()
			if a.jsonOut {
				return a.printJSON(h)
			}
			printHouse(a.out, h, s.Selected())
			total := s.Totals()
			fmt.Fprintf(a.out, "\nTotal: %.2f kWh/day, %.2f/day\n", total.DailyKWh, total.DailyCost)
			return nil
		},
	}
}

func (a *app) floorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "floors",
		Short: "List floors",
		Long: `List floors. A floor exists while at least one room is on it, apart
from the default floor, which is always present. Use "rooms add --new-floor"
to start a new floor.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := a.load(ctx)
			if err != nil {
				return err
			}
			h := s.House()
			if a.jsonOut {
				return a.printJSON(h.Floors)
			}
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FLOOR\tROOMS\tAPPLIANCES\tKWH/DAY\tCOST/DAY")
			for _, f := range h.Floors {
				t := f.Totals()
				fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%.2f\n", f.Name, len(f.Rooms), f.ApplianceCount(), t.DailyKWh, t.DailyCost)
			}
			return tw.Flush()
		},
	}
}

func printHouse(w io.Writer, h house.House, selected string) {
	fmt.Fprintf(w, "%s\n", h.Name)
	for _, f := range h.Floors {
		marker := " "
		if f.ID == selected {
			marker = "*"
		}
		t := f.Totals()
		fmt.Fprintf(w, "%s %s (%d rooms, %.2f kWh/day, %.2f/day)\n", marker, f.Name, len(f.Rooms), t.DailyKWh, t.DailyCost)
		for _, rm := range f.Rooms {
			fmt.Fprintf(w, "    %s [%d] %s (%s): %.2f kWh/day\n", rm.Style.Icon, rm.ID, rm.Name, rm.Type, rm.DailyKWh)
			for _, ap := range rm.Appliances {
				printAppliance(w, "        ", ap)
			}
		}
	}
	if len(h.Unassigned) > 0 {
		fmt.Fprintln(w, "  Unassigned")
		for _, ap := range h.Unassigned {
			printAppliance(w, "        ", ap)
		}
	}
	if len(h.Orphaned) > 0 {
		fmt.Fprintln(w, "  In missing rooms")
		for _, ap := range h.Orphaned {
			printAppliance(w, "        ", ap)
		}
	}
}

func printAppliance(w io.Writer, indent string, ap household.Appliance) {
	var kwh, cost float64
	if ap.DailyKWh != nil {
		kwh = *ap.DailyKWh
	}
	if ap.EstimatedDailyCost != nil {
		cost = *ap.EstimatedDailyCost
	}
	fmt.Fprintf(w, "%s[%d] %s: %.2f kWh/day, %.2f/day\n", indent, ap.ID, ap.Label(), kwh, cost)
}

func filterCategory(list []catalogue.Archetype, category string) []catalogue.Archetype {
	var out []catalogue.Archetype
	for _, arch := range list {
		if strings.EqualFold(arch.Category, category) {
			out = append(out, arch)
		}
	}
	return out
}

func rating(arch catalogue.Archetype) string {
	if arch.UsageType == catalogue.PerUse {
		return fmt.Sprintf("%gWh/use", arch.AverageWattsPerUse)
	}
	return fmt.Sprintf("%gW", arch.AverageWatts)
}

func defaultRate(arch catalogue.Archetype) string {
	if arch.UsageType == catalogue.PerUse {
		return fmt.Sprintf("%g uses/day", arch.DefaultUsesPerDay)
	}
	return fmt.Sprintf("%g h/day", arch.DefaultHoursPerDay)
}

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nerrad567/currently-core/internal/house"
	"github.com/nerrad567/currently-core/internal/household"
	"github.com/nerrad567/currently-core/internal/session"
)

func (a *app) appliancesCmd() *cobra.Command {
	var search, room string
	cmd := &cobra.Command{
		Use:   "appliances",
		Short: "List and edit appliances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rf, err := house.ParseRoomFilter(room)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := a.load(ctx)
			if err != nil {
				return err
			}
			list := s.Visible(house.Filter{Search: search, Room: rf})
			if a.jsonOut {
				return a.printJSON(list)
			}
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tROOM\tRATE\tKWH/DAY\tCOST/DAY")
			for _, ap := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%.2f\t%.2f\n",
					ap.ID, ap.Label(), ap.ApplianceName, roomLabel(ap), rateLabel(ap),
					deref(ap.DailyKWh), deref(ap.EstimatedDailyCost))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match names containing this text")
	cmd.Flags().StringVar(&room, "room", "all", `room id, "unassigned" or "all"`)
	cmd.AddCommand(a.appliancesAddCmd(), a.appliancesEditCmd(), a.appliancesAssignCmd(), a.appliancesRemoveCmd())
	return cmd
}

func (a *app) appliancesAddCmd() *cobra.Command {
	var room int64
	cmd := &cobra.Command{
		Use:   "add ARCHETYPE",
		Short: "Add an appliance from the catalogue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := a.load(ctx)
			if err != nil {
				return err
			}
			ap, err := s.AddAppliance(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if room > 0 {
				if ap, err = s.AssignAppliance(ctx, ap.ID, &room); err != nil {
					return err
				}
			}
			if a.jsonOut {
				return a.printJSON(ap)
			}
			fmt.Fprintf(a.out, "Added %s as appliance %d (%s): %.2f kWh/day.\n", ap.Label(), ap.ID, roomLabel(ap), deref(ap.DailyKWh))
			return nil
		},
	}
	cmd.Flags().Int64Var(&room, "room", 0, "place it in this room")
	return cmd
}

func (a *app) appliancesEditCmd() *cobra.Command {
	var (
		name        string
		hours, uses float64
	)
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Rename an appliance or change how much it is used",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var change session.ApplianceChange
			if cmd.Flags().Changed("name") {
				change.CustomName = &name
			}
			if cmd.Flags().Changed("hours") {
				change.HoursPerDay = &hours
			}
			if cmd.Flags().Changed("uses") {
				change.UsesPerDay = &uses
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := a.load(ctx)
			if err != nil {
				return err
			}
			ap, err := s.UpdateAppliance(ctx, id, change)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(ap)
			}
			fmt.Fprintf(a.out, "Updated %s: %s, %.2f kWh/day.\n", ap.Label(), rateLabel(ap), deref(ap.DailyKWh))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "custom name")
	cmd.Flags().Float64Var(&hours, "hours", 0, "hours per day (continuous appliances)")
	cmd.Flags().Float64Var(&uses, "uses", 0, "uses per day (per-use appliances)")
	return cmd
}

func (a *app) appliancesAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign ID ROOM",
		Short: `Place an appliance in a room, or "none" to un-assign it`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var room *int64
			if !strings.EqualFold(args[1], "none") {
				rid, err := parseID(args[1])
				if err != nil {
					return err
				}
				room = &rid
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := a.load(ctx)
			if err != nil {
				return err
			}
			ap, err := s.AssignAppliance(ctx, id, room)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s is now in %s.\n", ap.Label(), roomLabel(ap))
			return nil
		},
	}
}

func (a *app) appliancesRemoveCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove an appliance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := a.load(ctx)
			if err != nil {
				return err
			}
			if err := s.RemoveAppliance(ctx, id, yes); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Removed appliance %d.\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the removal")
	return cmd
}

func roomLabel(ap household.Appliance) string {
	switch {
	case ap.RoomID == nil:
		return "unassigned"
	case ap.RoomName != "":
		return ap.RoomName
	default:
		return fmt.Sprintf("room %d", *ap.RoomID)
	}
}

func rateLabel(ap household.Appliance) string {
	switch {
	case ap.HoursPerDay != nil:
		return fmt.Sprintf("%g h/day", *ap.HoursPerDay)
	case ap.UsesPerDay != nil:
		return fmt.Sprintf("%g uses/day", *ap.UsesPerDay)
	default:
		return "-"
	}
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

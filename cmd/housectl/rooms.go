package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nerrad567/currently-core/internal/house"
	"github.com/nerrad567/currently-core/internal/household"
	"github.com/nerrad567/currently-core/internal/session"
)

func (a *app) roomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List and edit rooms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := a.load(ctx)
			if err != nil {
				return err
			}
			rooms := s.House().Rooms()
			if a.jsonOut {
				return a.printJSON(rooms)
			}
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tFLOOR")
			for _, rm := range rooms {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", rm.ID, rm.Name, rm.Type, rm.FloorLabel)
			}
			return tw.Flush()
		},
	}
	cmd.AddCommand(a.roomsAddCmd(), a.roomsEditCmd(), a.roomsDeleteCmd())
	return cmd
}

func (a *app) roomsAddCmd() *cobra.Command {
	var (
		floor    string
		newFloor bool
		roomType string
	)
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a room to a floor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := a.load(ctx)
			if err != nil {
				return err
			}
			switch {
			case newFloor:
				if _, err := s.AddFloor(); err != nil {
					return err
				}
			case floor != "":
				if err := s.SelectFloor(floor); err != nil {
					return err
				}
			}
			rm, err := s.CreateRoom(ctx, args[0], household.RoomType(roomType))
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(rm)
			}
			fmt.Fprintf(a.out, "Added room %d %q on %s.\n", rm.ID, rm.Name, rm.FloorLabel)
			return nil
		},
	}
	cmd.Flags().StringVar(&floor, "floor", "", "existing floor to add the room to (default: first floor)")
	cmd.Flags().BoolVar(&newFloor, "new-floor", false, "start a new floor for this room")
	cmd.Flags().StringVar(&roomType, "type", string(household.RoomCustom), "room type: Kitchen, Bedroom, Living Room, Bathroom, Office, Garage, Laundry or Custom")
	cmd.MarkFlagsMutuallyExclusive("floor", "new-floor")
	return cmd
}

func (a *app) roomsEditCmd() *cobra.Command {
	var change session.RoomChange
	var roomType string
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Rename, retype or move a room",
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
			change.Type = household.RoomType(roomType)
			rm, err := s.UpdateRoom(ctx, id, change)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(rm)
			}
			fmt.Fprintf(a.out, "Room %d is now %q (%s) on %s.\n", rm.ID, rm.Name, rm.Type, rm.FloorLabel)
			return nil
		},
	}
	cmd.Flags().StringVar(&change.Name, "name", "", "new name")
	cmd.Flags().StringVar(&roomType, "type", "", "new room type")
	cmd.Flags().StringVar(&change.FloorLabel, "floor", "", "move to this floor")
	return cmd
}

func (a *app) roomsDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a room; its appliances become unassigned",
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
			if floor := floorOf(s.House(), id); floor != "" {
				if err := s.SelectFloor(floor); err != nil {
					return err
				}
			}
			if err := s.DeleteRoom(ctx, id, yes); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted room %d.\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")
	return cmd
}

// floorOf returns the floor holding the room, or "".
func floorOf(h house.House, roomID int64) string {
	for _, f := range h.Floors {
		for _, rm := range f.Rooms {
			if rm.ID == roomID {
				return f.ID
			}
		}
	}
	return ""
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

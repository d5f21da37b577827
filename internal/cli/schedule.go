package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/example/emoji-scheduler/internal/client"
)

func addSchedule(topLevel *cobra.Command, opts *options) {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Work with stored schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addScheduleList(cmd, opts)
	addScheduleSearch(cmd, opts)
	addScheduleGet(cmd, opts)

	topLevel.AddCommand(cmd)
}

func addScheduleList(parent *cobra.Command, opts *options) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your schedules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd, opts)
			if err != nil {
				return err
			}
			schedules, err := e.remote.ListSchedules(cmd.Context())
			if err != nil {
				return err
			}
			printSchedules(cmd.OutOrStdout(), schedules)
			return nil
		},
	}

	parent.AddCommand(cmd)
}

func addScheduleSearch(parent *cobra.Command, opts *options) {
	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search public schedules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd, opts)
			if err != nil {
				return err
			}
			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			schedules, err := e.remote.SearchPublicSchedules(cmd.Context(), term)
			if err != nil {
				return err
			}
			printSchedules(cmd.OutOrStdout(), schedules)
			return nil
		},
	}

	parent.AddCommand(cmd)
}

func addScheduleGet(parent *cobra.Command, opts *options) {
	cmd := &cobra.Command{
		Use:   "get <share-id>",
		Short: "Fetch a shared schedule by its share id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd, opts)
			if err != nil {
				return err
			}
			schedule, err := e.remote.GetSharedSchedule(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSchedules(cmd.OutOrStdout(), []client.Schedule{schedule})
			return nil
		},
	}

	parent.AddCommand(cmd)
}

func printSchedules(out io.Writer, schedules []client.Schedule) {
	if len(schedules) == 0 {
		fmt.Fprintln(out, "No schedules.")
		return
	}
	for _, schedule := range schedules {
		owner := ""
		if schedule.UserEmail != "" {
			owner = "  by " + schedule.UserEmail
		}
		fmt.Fprintf(out, "%s  %-24s %-8s share:%s%s\n",
			schedule.ID, schedule.Name, schedule.Visibility, schedule.UniqueID, owner)
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/emoji-scheduler/internal/client"
	"github.com/example/emoji-scheduler/internal/domain"
)

func addShare(topLevel *cobra.Command, opts *options) {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Change who can see a stored record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addShareSchedule(cmd, opts)
	addShareLibrary(cmd, opts)

	topLevel.AddCommand(cmd)
}

// nextVisibility applies an explicit --visibility value, or cycles
// private→public→shared→private when none was given.
func nextVisibility(current string, requested string) string {
	if requested != "" {
		return string(domain.ParseVisibility(requested))
	}
	return string(domain.ParseVisibility(current).Next())
}

func addShareSchedule(parent *cobra.Command, opts *options) {
	var (
		visibility string
		sharedWith []string
	)

	cmd := &cobra.Command{
		Use:   "schedule <id>",
		Short: "Cycle or set a schedule's visibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd, opts)
			if err != nil {
				return err
			}

			schedule, err := e.remote.GetSchedule(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			with := schedule.SharedWith
			if cmd.Flags().Changed("with") {
				with = sharedWith
			}

			updated, err := e.remote.UpdateSchedule(cmd.Context(), schedule.ID, client.ScheduleInput{
				Name:       schedule.Name,
				WeekData:   schedule.WeekData,
				Visibility: nextVisibility(schedule.Visibility, visibility),
				SharedWith: with,
			})
			if err != nil {
				return err
			}
			printShareResult(cmd, updated.Name, updated.Visibility, updated.SharedWith, updated.UniqueID)
			return nil
		},
	}

	cmd.Flags().StringVar(&visibility, "visibility", "", "set visibility (private|public|shared) instead of cycling")
	cmd.Flags().StringSliceVar(&sharedWith, "with", nil, "emails allowed to view a shared record")

	parent.AddCommand(cmd)
}

func addShareLibrary(parent *cobra.Command, opts *options) {
	var (
		visibility string
		sharedWith []string
	)

	cmd := &cobra.Command{
		Use:   "library <id>",
		Short: "Cycle or set a library's visibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd, opts)
			if err != nil {
				return err
			}

			library, err := e.remote.GetLibrary(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			with := library.SharedWith
			if cmd.Flags().Changed("with") {
				with = sharedWith
			}

			updated, err := e.remote.UpdateLibrary(cmd.Context(), library.ID, client.EmojiLibraryInput{
				Name:       library.Name,
				Emojis:     library.Emojis,
				Visibility: nextVisibility(library.Visibility, visibility),
				SharedWith: with,
			})
			if err != nil {
				return err
			}
			printShareResult(cmd, updated.Name, updated.Visibility, updated.SharedWith, updated.UniqueID)
			return nil
		},
	}

	cmd.Flags().StringVar(&visibility, "visibility", "", "set visibility (private|public|shared) instead of cycling")
	cmd.Flags().StringSliceVar(&sharedWith, "with", nil, "emails allowed to view a shared record")

	parent.AddCommand(cmd)
}

func printShareResult(cmd *cobra.Command, name, visibility string, sharedWith []string, uniqueID string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%q is now %s (share id %s).\n", name, visibility, uniqueID)
	if visibility == string(domain.VisibilityShared) {
		if len(sharedWith) == 0 {
			fmt.Fprintln(out, "No emails listed yet; only you can see it.")
		} else {
			fmt.Fprintln(out, "Visible to:")
			for _, email := range sharedWith {
				fmt.Fprintln(out, "  "+email)
			}
		}
	}
}

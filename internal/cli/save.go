package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/emoji-scheduler/internal/client"
)

func addSave(topLevel *cobra.Command, opts *options) {
	var (
		name      string
		saveAsNew bool
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the current schedule; with --name, store it as a named record on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd, opts)
			if err != nil {
				return err
			}

			data, err := e.engine.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := e.engine.Save(cmd.Context(), data); err != nil {
				return err
			}

			if name == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Saved.")
				return nil
			}

			schedule, err := e.remote.SaveSchedule(cmd.Context(), client.ScheduleInput{
				Name:      name,
				WeekData:  data.WeekSchedule,
				SaveAsNew: saveAsNew,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %q (id %s, share id %s).\n",
				schedule.Name, schedule.ID, schedule.UniqueID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "store the schedule under this name on the server")
	cmd.Flags().BoolVar(&saveAsNew, "as-new", false, "force a new record even if the name exists")

	topLevel.AddCommand(cmd)
}

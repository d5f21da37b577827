package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/emoji-scheduler/internal/domain"
)

func addShow(topLevel *cobra.Command, opts *options) {
	var day string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current week schedule and emoji library",
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

			out := cmd.OutOrStdout()
			week := data.WeekSchedule.Normalize()

			days := domain.DayKeys
			if day != "" {
				key := strings.ToLower(strings.TrimSpace(day))
				if _, ok := week[key]; !ok {
					return fmt.Errorf("unknown day %q", day)
				}
				days = []string{key}
			}

			for _, key := range days {
				fmt.Fprintf(out, "%s\n", strings.ToUpper(key[:1])+key[1:])
				for hour, slot := range week[key] {
					fmt.Fprintf(out, "  %02d:00  %s  %s\n", hour, slot.Emoji, slot.Activity)
				}
			}

			if len(data.EmojiLibrary) > 0 {
				name := data.CurrentLibraryName
				if name == "" {
					name = "Library"
				}
				fmt.Fprintf(out, "\n%s:\n", name)
				for _, entry := range data.EmojiLibrary {
					fmt.Fprintf(out, "  %s  %s\n", entry.Emoji, entry.Activity)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "show a single day (monday..sunday)")

	topLevel.AddCommand(cmd)
}

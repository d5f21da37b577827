package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/example/emoji-scheduler/internal/client"
)

func addLibrary(topLevel *cobra.Command, opts *options) {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Work with emoji libraries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addLibraryList(cmd, opts)
	addLibrarySearch(cmd, opts)
	addLibraryMerge(cmd, opts)

	topLevel.AddCommand(cmd)
}

func addLibraryList(parent *cobra.Command, opts *options) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your emoji libraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd, opts)
			if err != nil {
				return err
			}
			libraries, err := e.remote.ListLibraries(cmd.Context())
			if err != nil {
				return err
			}
			printLibraries(cmd.OutOrStdout(), libraries)
			return nil
		},
	}

	parent.AddCommand(cmd)
}

func addLibrarySearch(parent *cobra.Command, opts *options) {
	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search public emoji libraries",
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
			libraries, err := e.remote.SearchPublicLibraries(cmd.Context(), term)
			if err != nil {
				return err
			}
			printLibraries(cmd.OutOrStdout(), libraries)
			return nil
		},
	}

	parent.AddCommand(cmd)
}

func addLibraryMerge(parent *cobra.Command, opts *options) {
	cmd := &cobra.Command{
		Use:   "merge <source-id> <target-id>",
		Short: "Merge a visible library into one of yours (your labels win)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd, opts)
			if err != nil {
				return err
			}
			merged, err := e.remote.MergeLibraries(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merged into %q (%d emoji).\n", merged.Name, len(merged.Emojis))
			return nil
		},
	}

	parent.AddCommand(cmd)
}

func printLibraries(out io.Writer, libraries []client.EmojiLibrary) {
	if len(libraries) == 0 {
		fmt.Fprintln(out, "No libraries.")
		return
	}
	for _, library := range libraries {
		owner := ""
		if library.UserEmail != "" {
			owner = "  by " + library.UserEmail
		}
		fmt.Fprintf(out, "%s  %-24s %-8s %3d emoji  share:%s%s\n",
			library.ID, library.Name, library.Visibility, len(library.Emojis), library.UniqueID, owner)
	}
}

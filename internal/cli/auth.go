package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addRegister(topLevel *cobra.Command, opts *options) {
	cmd := &cobra.Command{
		Use:   "register <email>",
		Short: "Create an account on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd, opts)
			if err != nil {
				return err
			}

			password, err := promptPassword(cmd.OutOrStdout(), "Password: ")
			if err != nil {
				return err
			}

			result, err := e.remote.Register(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addLogin(topLevel *cobra.Command, opts *options) {
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and migrate local edits to the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd, opts)
			if err != nil {
				return err
			}

			password, err := promptPassword(cmd.OutOrStdout(), "Password: ")
			if err != nil {
				return err
			}

			creds, err := e.remote.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			if err := e.sessions.Login(creds.Token, creds.UserID); err != nil {
				return err
			}

			// Local edits are pushed best-effort; the login stands even if
			// the push fails and a warning was printed.
			data, err := e.engine.MigrateOnLogin(cmd.Context())
			if err != nil {
				return fmt.Errorf("logged in, but loading account data failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%d emoji in library).\n",
				creds.Email, len(data.EmojiLibrary))
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addLogout(topLevel *cobra.Command, opts *options) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session, keeping local data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd, opts)
			if err != nil {
				return err
			}
			if err := e.sessions.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

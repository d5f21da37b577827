// Package cli implements the emojictl command line interface: local-first
// editing of the week schedule with optional account sync against an emoji
// schedule server.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/emoji-scheduler/internal/client"
	"github.com/example/emoji-scheduler/internal/client/localstore"
	"github.com/example/emoji-scheduler/internal/client/session"
	"github.com/example/emoji-scheduler/internal/client/sync"
)

const (
	defaultServer = "http://localhost:8080"

	serverEnv  = "EMOJISCHED_SERVER"
	dataDirEnv = "EMOJISCHED_DATA_DIR"
)

type options struct {
	Server  string
	DataDir string
}

// env bundles the wired client-side components for one invocation.
type env struct {
	sessions *session.Store
	local    *localstore.Store
	remote   *client.Client
	engine   *sync.Engine
}

// New builds the emojictl root command.
func New() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "emojictl",
		Short:         "Edit and share a weekly emoji schedule.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", "", "server base URL (env "+serverEnv+")")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "local data directory (env "+dataDirEnv+")")

	addRegister(cmd, opts)
	addLogin(cmd, opts)
	addLogout(cmd, opts)
	addShow(cmd, opts)
	addSave(cmd, opts)
	addSchedule(cmd, opts)
	addLibrary(cmd, opts)
	addShare(cmd, opts)

	return cmd
}

func (o *options) serverURL() string {
	if o.Server != "" {
		return o.Server
	}
	if fromEnv := os.Getenv(serverEnv); fromEnv != "" {
		return fromEnv
	}
	return defaultServer
}

func (o *options) dataDir() (string, error) {
	if o.DataDir != "" {
		return o.DataDir, nil
	}
	if fromEnv := os.Getenv(dataDirEnv); fromEnv != "" {
		return fromEnv, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".emojictl"), nil
}

func newEnv(cmd *cobra.Command, opts *options) (*env, error) {
	dataDir, err := opts.dataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	sessions := session.Open(filepath.Join(dataDir, "session"))
	if err := sessions.Bootstrap(); err != nil {
		return nil, err
	}

	local := localstore.Open(filepath.Join(dataDir, "snapshot"))
	remote := client.New(opts.serverURL(), sessions)
	engine := sync.New(local, sessions, remote, sync.WithNotifier(func(message string) {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", message)
	}))

	return &env{sessions: sessions, local: local, remote: remote, engine: engine}, nil
}

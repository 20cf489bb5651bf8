// Package cli wires the command tree. Commands parse arguments, delegate
// to the aggregator/dispatcher, and render results; they are the only
// layer that prints.
package cli

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/cuppa/pkg/aggregate"
	"github.com/harrisonrobin/cuppa/pkg/clickup"
	"github.com/harrisonrobin/cuppa/pkg/config"
	"github.com/harrisonrobin/cuppa/pkg/usercache"
)

var rootCmd = &cobra.Command{
	Use:   "cuppa",
	Short: "Manage your ClickUp workspace from the terminal",
	Long: `cuppa is a command-line client for a ClickUp workspace.

It covers the common flows: listing teams and tasks, creating and updating
tasks, and an 'ask' mode that accepts plain English.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and reports whether the process should
// exit non-zero.
func Execute() error {
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(detailedCmd)
	rootCmd.AddCommand(askCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// app bundles the per-invocation collaborators.
type app struct {
	client   *clickup.Client
	agg      *aggregate.Aggregator
	users    *usercache.Cache
	settings *config.Settings
}

// newApp loads credentials and settings and builds the client stack. A
// missing credential is the one configuration error with a scripted fix,
// so it gets its own message.
func newApp() (*app, error) {
	creds, err := config.LoadCredentials()
	if err != nil {
		if errors.Is(err, config.ErrNotConfigured) {
			return nil, fmt.Errorf("no API token configured. Run 'cuppa setup YOUR_API_TOKEN' first")
		}
		return nil, err
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}

	users, err := usercache.New()
	if err != nil {
		log.Printf("Warning: could not load user cache: %v", err)
		users = nil
	}

	client := clickup.NewClient(creds.APIToken)
	return &app{
		client:   client,
		agg:      aggregate.New(client, users),
		users:    users,
		settings: settings,
	}, nil
}

// close flushes mutable state; lookup caching is best effort.
func (a *app) close() {
	if a.users == nil {
		return
	}
	if err := a.users.Save(); err != nil {
		log.Printf("Warning: could not save user cache: %v", err)
	}
}

func logWarnings(errs []aggregate.NodeError) {
	for _, e := range errs {
		log.Printf("Warning: could not fetch tasks from %s: %v", e.Node, e.Err)
	}
}

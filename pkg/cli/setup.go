package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/cuppa/pkg/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup <token>",
	Short: "Store your personal API token",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	path, err := config.SaveCredentials(args[0])
	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	fmt.Println("Configured successfully!")
	fmt.Printf("   Config saved to: %s\n", path)
	return nil
}

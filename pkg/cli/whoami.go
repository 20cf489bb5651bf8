package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/cuppa/pkg/render"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	user, err := a.agg.Self()
	if err != nil {
		return err
	}
	fmt.Print(render.Whoami(user))
	return nil
}

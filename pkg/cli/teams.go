package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/cuppa/pkg/render"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List your teams and workspaces",
	Args:  cobra.NoArgs,
	RunE:  runTeams,
}

func runTeams(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	teams, err := a.agg.Teams()
	if err != nil {
		return err
	}
	fmt.Print(render.Teams(teams))
	return nil
}

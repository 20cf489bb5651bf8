package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/cuppa/pkg/aggregate"
	"github.com/harrisonrobin/cuppa/pkg/render"
	"github.com/harrisonrobin/cuppa/pkg/report"
)

var userCmd = &cobra.Command{
	Use:   "user <name>",
	Short: "Show another member's tasks",
	Long: `Show the active tasks assigned to a team member.

The name can be a first name, part of an email address, initials, or a
username; the first member that matches wins.`,
	Args: cobra.ExactArgs(1),
	RunE: runUser,
}

func runUser(cmd *cobra.Command, args []string) error {
	name := args[0]

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	user, err := a.agg.FindMember(name)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user '%s' not found in any of your teams.\n"+
			"Tip: try their first name, part of their email address, or their username", name)
	}
	fmt.Printf("Found user: %s (%s)\n\n", user.Username, user.Email)

	res, err := a.agg.Aggregate(aggregate.ScopeUser(user.ID, a.settings.DefaultTeam), aggregate.FilterSet{})
	if err != nil {
		return err
	}
	logWarnings(res.Errors)

	if len(res.Tasks) == 0 {
		fmt.Printf("No active tasks found for %s.\n", user.Username)
		return nil
	}

	now := time.Now()
	r := report.Summarize(res.Tasks, now)
	fmt.Printf("Found %d active task(s) for %s:\n\n", r.Total, user.Username)
	fmt.Println(render.TaskTable(r.Tasks, now))
	fmt.Print(render.Summary(r))
	return nil
}

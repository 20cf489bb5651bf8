package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/cuppa/pkg/aggregate"
	"github.com/harrisonrobin/cuppa/pkg/dispatch"
	"github.com/harrisonrobin/cuppa/pkg/nlp"
	"github.com/harrisonrobin/cuppa/pkg/render"
)

var (
	tasksDueThisWeek  bool
	tasksAssignedToMe bool
	tasksListID       string
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List tasks",
	Long: `List tasks across the workspace, or from one list with --list.

Without --list this walks every team, space, and list the token can reach
(or just the default team from settings.yaml, when one is set).`,
	Args: cobra.NoArgs,
	RunE: runTasks,
}

func init() {
	tasksCmd.Flags().BoolVar(&tasksDueThisWeek, "due-this-week", false, "Show only tasks due this week")
	tasksCmd.Flags().BoolVar(&tasksAssignedToMe, "assigned-to-me", false, "Show only tasks assigned to you")
	tasksCmd.Flags().StringVar(&tasksListID, "list", "", "List ID to fetch tasks from")
}

func runTasks(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var filters aggregate.FilterSet
	if tasksDueThisWeek {
		filters.DueAfter, filters.DueBefore = dispatch.PeriodWindow(time.Now(), nlp.PeriodThisWeek)
	}
	if tasksAssignedToMe {
		me, err := a.agg.Self()
		if err != nil {
			return err
		}
		filters.Assignee = me.ID
	}

	scope := aggregate.ScopeAllTeams()
	switch {
	case tasksListID != "":
		scope = aggregate.ScopeList(tasksListID)
	case a.settings.DefaultTeam != "":
		scope = aggregate.ScopeTeam(a.settings.DefaultTeam)
	}

	res, err := a.agg.Aggregate(scope, filters)
	if err != nil {
		return err
	}
	logWarnings(res.Errors)

	if len(res.Tasks) == 0 {
		fmt.Println("No tasks found matching criteria.")
		return nil
	}

	fmt.Printf("Found %d task(s):\n\n", len(res.Tasks))
	for i := range res.Tasks {
		fmt.Println(render.FormatTask(&res.Tasks[i]))
	}
	return nil
}

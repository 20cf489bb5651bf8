package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/cuppa/pkg/aggregate"
	"github.com/harrisonrobin/cuppa/pkg/render"
	"github.com/harrisonrobin/cuppa/pkg/report"
)

var detailedCmd = &cobra.Command{
	Use:   "detailed",
	Short: "Show your tasks with descriptions, subtasks, and comments",
	Args:  cobra.NoArgs,
	RunE:  runDetailed,
}

func runDetailed(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	me, err := a.agg.Self()
	if err != nil {
		return err
	}

	fmt.Println("Fetching your tasks with details...")
	res, err := a.agg.Aggregate(
		aggregate.ScopeUser(me.ID, a.settings.DefaultTeam),
		aggregate.FilterSet{Subtasks: true},
	)
	if err != nil {
		return err
	}
	a.agg.AttachComments(res)
	logWarnings(res.Errors)

	if len(res.Tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	now := time.Now()
	r := report.Summarize(res.Tasks, now)
	fmt.Printf("Found %d task(s):\n\n", r.Total)
	fmt.Println(render.DetailedTable(r.Tasks, now))
	fmt.Print(render.Summary(r))
	return nil
}

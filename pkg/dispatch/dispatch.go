// Package dispatch maps a classified intent to the aggregation and
// reporting calls that serve it. Every intent in the enumeration has a
// case here; an unhandled intent is a defect surfaced as an error, never a
// silent no-op. Nothing in this package prints — results carry everything
// the CLI boundary needs to render.
package dispatch

import (
	"fmt"
	"time"

	"github.com/harrisonrobin/cuppa/pkg/aggregate"
	"github.com/harrisonrobin/cuppa/pkg/clickup"
	"github.com/harrisonrobin/cuppa/pkg/nlp"
	"github.com/harrisonrobin/cuppa/pkg/report"
)

// Result is the renderable outcome of one dispatched intent. Exactly one
// of the payload fields is set; Warnings carries recoverable subtree
// failures from the aggregation run.
type Result struct {
	Message string

	Report      *report.Report
	Detailed    bool // render the report's tasks in the wide table
	SummaryOnly bool // render only the statistics block
	Username    string

	Teams []clickup.Team
	User  *clickup.User

	Warnings []aggregate.NodeError
}

// Dispatcher executes intents against the workspace.
type Dispatcher struct {
	agg *aggregate.Aggregator

	// defaultTeam narrows per-user fetches to one workspace when set.
	defaultTeam string
	now         func() time.Time
}

// New builds a dispatcher. defaultTeam may be empty.
func New(agg *aggregate.Aggregator, defaultTeam string) *Dispatcher {
	return &Dispatcher{agg: agg, defaultTeam: defaultTeam, now: time.Now}
}

// Dispatch runs one intent and returns its renderable result. Errors are
// fatal conditions (auth resolution, root enumeration); everything
// recoverable lands in Result.Warnings or Result.Message.
func (d *Dispatcher) Dispatch(intent nlp.Intent, params map[string]string) (*Result, error) {
	switch intent {
	case nlp.IntentViewMyTasks:
		return d.myTasks(aggregate.FilterSet{})

	case nlp.IntentViewTasksDue:
		after, before := PeriodWindow(d.now(), params["period"])
		return d.myTasks(aggregate.FilterSet{DueAfter: after, DueBefore: before})

	case nlp.IntentViewOverdue:
		return d.myTasks(aggregate.FilterSet{DueBefore: d.now()})

	case nlp.IntentViewUserTasks:
		return d.userTasks(params["user"])

	case nlp.IntentCreateTask:
		return createInstructions(params["name"]), nil

	case nlp.IntentUpdateTaskStatus:
		return &Result{Message: "To update task status, you'll need the task ID:\n" +
			"   Run: cuppa tasks   # to find task IDs\n" +
			"   Then: cuppa update TASK_ID --status complete"}, nil

	case nlp.IntentViewTeams:
		teams, err := d.agg.Teams()
		if err != nil {
			return nil, err
		}
		return &Result{Teams: teams}, nil

	case nlp.IntentWhoami:
		user, err := d.agg.Self()
		if err != nil {
			return nil, err
		}
		return &Result{User: user}, nil

	case nlp.IntentViewPriority:
		return d.priorityTasks(params["priority"])

	case nlp.IntentTaskSummary:
		res, err := d.mySelfResult(aggregate.FilterSet{})
		if err != nil {
			return nil, err
		}
		res.SummaryOnly = true
		return res, nil

	case nlp.IntentViewDetailed:
		return d.detailedTasks()

	case nlp.IntentShowHelp:
		return &Result{Message: HelpText}, nil

	case nlp.IntentShowExamples:
		return &Result{Message: ExamplesText}, nil

	case nlp.IntentUnknown:
		return &Result{Message: "I didn't understand that. Here are some examples of what you can say:\n" + ExamplesText}, nil
	}

	return nil, fmt.Errorf("no handler for intent %q", intent)
}

// myTasks aggregates the authenticated user's tasks across every
// accessible list and summarizes them.
func (d *Dispatcher) myTasks(filters aggregate.FilterSet) (*Result, error) {
	me, err := d.agg.Self()
	if err != nil {
		return nil, err
	}
	filters.Assignee = me.ID
	res, err := d.agg.Aggregate(aggregate.ScopeAllTeams(), filters)
	if err != nil {
		return nil, err
	}
	return &Result{
		Report:   report.Summarize(res.Tasks, d.now()),
		Warnings: res.Errors,
	}, nil
}

// mySelfResult fetches via the flat team endpoint, the cheap path used by
// summary, priority, and detailed views.
func (d *Dispatcher) mySelfResult(filters aggregate.FilterSet) (*Result, error) {
	me, err := d.agg.Self()
	if err != nil {
		return nil, err
	}
	res, err := d.agg.Aggregate(aggregate.ScopeUser(me.ID, d.defaultTeam), filters)
	if err != nil {
		return nil, err
	}
	return &Result{
		Report:   report.Summarize(res.Tasks, d.now()),
		Warnings: res.Errors,
	}, nil
}

func (d *Dispatcher) userTasks(name string) (*Result, error) {
	if name == "" {
		return &Result{Message: "Could not determine which user's tasks to show."}, nil
	}
	user, err := d.agg.FindMember(name)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &Result{Message: fmt.Sprintf("User '%s' not found in any of your teams.\n"+
			"Tip: try their first name, part of their email address, or their username.", name)}, nil
	}
	res, err := d.agg.Aggregate(aggregate.ScopeUser(user.ID, d.defaultTeam), aggregate.FilterSet{})
	if err != nil {
		return nil, err
	}
	return &Result{
		Report:   report.Summarize(res.Tasks, d.now()),
		Username: user.Username,
		Warnings: res.Errors,
	}, nil
}

func (d *Dispatcher) priorityTasks(label string) (*Result, error) {
	priority := 2 // high
	if label == "urgent" {
		priority = 1
	}
	res, err := d.mySelfResult(aggregate.FilterSet{Priority: priority, Subtasks: true})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (d *Dispatcher) detailedTasks() (*Result, error) {
	me, err := d.agg.Self()
	if err != nil {
		return nil, err
	}
	res, err := d.agg.Aggregate(aggregate.ScopeUser(me.ID, d.defaultTeam), aggregate.FilterSet{Subtasks: true})
	if err != nil {
		return nil, err
	}
	d.agg.AttachComments(res)
	return &Result{
		Report:   report.Summarize(res.Tasks, d.now()),
		Detailed: true,
		Warnings: res.Errors,
	}, nil
}

func createInstructions(name string) *Result {
	if name == "" {
		return &Result{Message: "Could not determine the task name to create."}
	}
	return &Result{Message: fmt.Sprintf("To create task '%s', you'll need to specify a LIST_ID:\n"+
		"   Run: cuppa teams   # to find your list\n"+
		"   Then: cuppa create LIST_ID \"%s\"", name, name)}
}

// PeriodWindow translates a period tag into a due window relative to now.
// An unrecognized or empty tag falls back to the week window.
func PeriodWindow(now time.Time, period string) (after, before time.Time) {
	switch period {
	case nlp.PeriodToday:
		return now, endOfDay(now)
	case nlp.PeriodTomorrow:
		tomorrow := now.AddDate(0, 0, 1)
		return startOfDay(tomorrow), endOfDay(tomorrow)
	default:
		return now, endOfWeek(now)
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// endOfWeek keeps the clock time and advances to the calendar week's last
// day (Sunday).
func endOfWeek(t time.Time) time.Time {
	daysToSunday := (7 - int(t.Weekday())) % 7
	return t.AddDate(0, 0, daysToSunday)
}

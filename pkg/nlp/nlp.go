// Package nlp maps free-form utterances to structured intents. The
// classifier is a prioritized predicate chain: an ordered rule list walked
// top to bottom, first match wins. Rule order is load-bearing — specific
// patterns ("tasks due this week") sit above the general ones ("my tasks")
// that would otherwise shadow them, so reordering rules changes behavior.
package nlp

import (
	"regexp"
	"strings"
)

// Intent is one of the closed set of actions the assistant understands.
type Intent string

const (
	IntentViewMyTasks      Intent = "view_my_tasks"
	IntentViewTasksDue     Intent = "view_tasks_due"
	IntentViewOverdue      Intent = "view_overdue"
	IntentViewUserTasks    Intent = "view_user_tasks"
	IntentCreateTask       Intent = "create_task"
	IntentUpdateTaskStatus Intent = "update_task_status"
	IntentViewTeams        Intent = "view_teams"
	IntentWhoami           Intent = "whoami"
	IntentViewPriority     Intent = "view_priority_tasks"
	IntentTaskSummary      Intent = "task_summary"
	IntentViewDetailed     Intent = "view_detailed"
	IntentShowHelp         Intent = "show_help"
	IntentShowExamples     Intent = "show_examples"
	IntentUnknown          Intent = "unknown"
)

// Title renders the intent for progress output ("view_my_tasks" →
// "View My Tasks").
func (i Intent) Title() string {
	words := strings.Split(string(i), "_")
	for n, w := range words {
		if w != "" {
			words[n] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// ParamSpec declares how one parameter is extracted once a rule matched.
// Exactly one of Group, Period, or Literal is meaningful: Group binds a
// capture group of the matched pattern (out-of-range groups silently omit
// the parameter), Period re-scans the utterance for a period keyword, and
// Literal sets a fixed value.
type ParamSpec struct {
	Name    string
	Group   int
	Period  bool
	Literal string
}

// Rule pairs a pattern with the intent it selects and the parameters to
// pull out of the match.
type Rule struct {
	Pattern *regexp.Regexp
	Intent  Intent
	Params  []ParamSpec
}

// rules is evaluated in order; patterns match anywhere in the normalized
// utterance, not anchored.
var rules = []Rule{
	// Due-period views. These precede the generic "my tasks" rule so that
	// "list my tasks due this week" resolves to a due view.
	{regexp.MustCompile(`(show|list|get).*tasks.*due.*(today|this week|tomorrow)`), IntentViewTasksDue, []ParamSpec{{Name: "period", Period: true}}},
	{regexp.MustCompile(`tasks.*(due|deadline).*(today|this week|tomorrow)`), IntentViewTasksDue, []ParamSpec{{Name: "period", Period: true}}},
	{regexp.MustCompile(`what.*(do i have|should i|need to).*(do|complete).*(today|this week)`), IntentViewTasksDue, []ParamSpec{{Name: "period", Period: true}}},

	// Own tasks.
	{regexp.MustCompile(`(show|list|get|what are|display).*my tasks`), IntentViewMyTasks, nil},

	// Overdue.
	{regexp.MustCompile(`(show|list|get).*overdue.*tasks?`), IntentViewOverdue, nil},
	{regexp.MustCompile(`what.*overdue`), IntentViewOverdue, nil},

	// Another user's tasks.
	{regexp.MustCompile(`(show|list|get|what are).*tasks.*(for|of|assigned to)\s+(\w+)`), IntentViewUserTasks, []ParamSpec{{Name: "user", Group: 3}}},
	{regexp.MustCompile(`what.*(\w+).*working on`), IntentViewUserTasks, []ParamSpec{{Name: "user", Group: 1}}},

	// Task creation.
	{regexp.MustCompile(`(create|add|make|new).*task.*["']([^"']+)["']`), IntentCreateTask, []ParamSpec{{Name: "name", Group: 2}}},
	{regexp.MustCompile(`remind me to\s+(.+)`), IntentCreateTask, []ParamSpec{{Name: "name", Group: 1}}},
	{regexp.MustCompile(`add\s+["']([^"']+)["'].*to.*list`), IntentCreateTask, []ParamSpec{{Name: "name", Group: 1}}},

	// Status updates.
	{regexp.MustCompile(`(mark|set|update).*task.*(\w+).*as\s+(done|complete|finished)`), IntentUpdateTaskStatus, []ParamSpec{{Name: "status", Literal: "complete"}}},
	{regexp.MustCompile(`(close|finish|complete).*task.*(\w+)`), IntentUpdateTaskStatus, []ParamSpec{{Name: "status", Literal: "complete"}}},

	// Workspace info.
	{regexp.MustCompile(`(show|list|what are).*teams`), IntentViewTeams, nil},
	{regexp.MustCompile(`(show|list|what are).*workspaces`), IntentViewTeams, nil},

	// Own identity.
	{regexp.MustCompile(`who am i`), IntentWhoami, nil},
	{regexp.MustCompile(`(show|what is).*my.*(profile|info|account)`), IntentWhoami, nil},

	// Priority views.
	{regexp.MustCompile(`(show|list|what are).*urgent.*tasks`), IntentViewPriority, []ParamSpec{{Name: "priority", Literal: "urgent"}}},
	{regexp.MustCompile(`(show|list|what are).*high priority`), IntentViewPriority, []ParamSpec{{Name: "priority", Literal: "high"}}},
	{regexp.MustCompile(`what.*important.*today`), IntentViewPriority, []ParamSpec{{Name: "priority", Literal: "high"}}},

	// Summaries.
	{regexp.MustCompile(`(summary|summarize|overview).*tasks`), IntentTaskSummary, nil},
	{regexp.MustCompile(`how many tasks`), IntentTaskSummary, nil},
	{regexp.MustCompile(`task.*(count|stats|statistics)`), IntentTaskSummary, nil},

	// Detailed view.
	{regexp.MustCompile(`(show|view).*detailed.*tasks`), IntentViewDetailed, nil},
	{regexp.MustCompile(`(show|view).*tasks.*with.*(comments|descriptions)`), IntentViewDetailed, nil},
	{regexp.MustCompile(`full.*task.*list`), IntentViewDetailed, nil},

	// Possessive user form ("jeremy's tasks"). This pattern would match
	// any "<word> tasks", so it sits below every more specific tasks rule
	// to avoid shadowing them.
	{regexp.MustCompile(`(\w+)('s|s)?\s+tasks`), IntentViewUserTasks, []ParamSpec{{Name: "user", Group: 1}}},

	// Help.
	{regexp.MustCompile(`(help|what can you do|how do i)`), IntentShowHelp, nil},
	{regexp.MustCompile(`(examples|show examples)`), IntentShowExamples, nil},
}

// Rules exposes the rule table in evaluation order.
func Rules() []Rule {
	return rules
}

// Classify resolves an utterance to an intent and its extracted
// parameters. No match is not an error: it yields IntentUnknown with an
// empty parameter map and the caller shows example commands instead.
func Classify(utterance string) (Intent, map[string]string) {
	normalized := strings.ToLower(strings.TrimSpace(utterance))

	for _, rule := range rules {
		m := rule.Pattern.FindStringSubmatch(normalized)
		if m == nil {
			continue
		}

		params := make(map[string]string)
		for _, spec := range rule.Params {
			switch {
			case spec.Period:
				if p, ok := scanPeriod(normalized); ok {
					params[spec.Name] = p
				}
			case spec.Group > 0:
				if spec.Group < len(m) {
					params[spec.Name] = m[spec.Group]
				}
			case spec.Literal != "":
				params[spec.Name] = spec.Literal
			}
		}
		return rule.Intent, params
	}

	return IntentUnknown, map[string]string{}
}

// Period tags produced by scanPeriod.
const (
	PeriodToday    = "today"
	PeriodTomorrow = "tomorrow"
	PeriodThisWeek = "this_week"
)

func scanPeriod(normalized string) (string, bool) {
	switch {
	case strings.Contains(normalized, "today"):
		return PeriodToday, true
	case strings.Contains(normalized, "tomorrow"):
		return PeriodTomorrow, true
	case strings.Contains(normalized, "week"):
		return PeriodThisWeek, true
	}
	return "", false
}

// Package render formats tasks, reports, and workspace objects as terminal
// text. Rendering is a pure function of the data it is handed; nothing in
// here talks to the API.
package render

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/harrisonrobin/cuppa/pkg/clickup"
	"github.com/harrisonrobin/cuppa/pkg/report"
)

// Character budgets per output context.
const (
	nameBudget     = 40
	cellBudget     = 60
	lineBudget     = 100
	locationBudget = 30
	commentBudget  = 50
)

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// StripHTML removes HTML tags from rich-text descriptions.
func StripHTML(s string) string {
	return htmlTagRe.ReplaceAllString(s, "")
}

// Truncate cuts s to at most limit characters, appending an ellipsis only
// when something was actually cut. Limits count runes, not bytes, so
// multibyte text is never split mid-character.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

// cleanDescription strips markup, flattens newlines, and truncates to the
// given budget. Empty descriptions render as a dash.
func cleanDescription(desc string, budget int) string {
	if desc == "" {
		return "-"
	}
	desc = StripHTML(desc)
	desc = strings.ReplaceAll(desc, "\n", " ")
	return Truncate(desc, budget)
}

// PriorityLabel maps the 1-4 ordinal to its display name.
func PriorityLabel(p int) string {
	switch p {
	case 1:
		return "Urgent"
	case 2:
		return "High"
	case 3:
		return "Normal"
	case 4:
		return "Low"
	}
	return "None"
}

func dueCell(t *clickup.Task, now time.Time) string {
	due, has := t.Due()
	if !has {
		return "-"
	}
	s := due.Format("2006-01-02")
	if report.IsOverdue(t, now) {
		return "! " + s
	}
	return s
}

func tagsCell(t *clickup.Task) string {
	if len(t.Tags) == 0 {
		return "-"
	}
	names := make([]string, 0, 3)
	for _, tag := range t.Tags {
		names = append(names, tag.Name)
		if len(names) == 3 {
			break
		}
	}
	return strings.Join(names, ", ")
}

func estimateCell(t *clickup.Task) string {
	if t.TimeEstimate == 0 {
		return "-"
	}
	hours := float64(t.TimeEstimate) / float64(time.Hour.Milliseconds())
	return fmt.Sprintf("%.1fh", hours)
}

// FormatTask renders one task as a multi-line block, the short form used
// by the plain tasks listing.
func FormatTask(t *clickup.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "• %s [%s]\n", t.Name, t.ID)
	fmt.Fprintf(&b, "   Status: %s\n", t.StatusLabel())
	if p := t.PriorityValue(); p != 0 {
		fmt.Fprintf(&b, "   Priority: %s\n", PriorityLabel(p))
	}
	if due, has := t.Due(); has {
		fmt.Fprintf(&b, "   Due: %s\n", due.Format("2006-01-02 15:04"))
	}
	return b.String()
}

// TaskTable renders the per-user table: name, status, priority, due,
// description, location, tags, and estimate.
func TaskTable(tasks []clickup.Task, now time.Time) string {
	if len(tasks) == 0 {
		return "No tasks found."
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TASK\tSTATUS\tPRIORITY\tDUE\tDESCRIPTION\tLOCATION\tTAGS\tEST")
	for i := range tasks {
		t := &tasks[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			Truncate(t.Name, nameBudget),
			t.StatusLabel(),
			PriorityLabel(t.PriorityValue()),
			dueCell(t, now),
			cleanDescription(t.Description, cellBudget),
			Truncate(t.Location(), locationBudget),
			tagsCell(t),
			estimateCell(t),
		)
	}
	w.Flush()
	return b.String()
}

func subtasksCell(t *clickup.Task) string {
	if len(t.Subtasks) == 0 {
		return "-"
	}
	return fmt.Sprintf("%d subtasks", len(t.Subtasks))
}

func commentsCell(t *clickup.Task) string {
	if len(t.Comments) == 0 {
		return "-"
	}
	s := fmt.Sprintf("%d comments", len(t.Comments))
	if latest := t.Comments[0].CommentText; latest != "" {
		s += ": " + Truncate(latest, commentBudget)
	}
	return s
}

func parentCell(t *clickup.Task) string {
	if t.Parent == "" {
		return ""
	}
	return Truncate("subtask of "+t.Parent, locationBudget)
}

// DetailedTable renders the wide table with subtask, comment, and parent
// columns on top of the standard ones.
func DetailedTable(tasks []clickup.Task, now time.Time) string {
	if len(tasks) == 0 {
		return "No tasks found."
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TASK\tSTATUS\tPRIORITY\tDUE\tDESCRIPTION\tSUBTASKS\tCOMMENTS\tLOCATION\tPARENT")
	for i := range tasks {
		t := &tasks[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			Truncate(t.Name, nameBudget),
			t.StatusLabel(),
			PriorityLabel(t.PriorityValue()),
			dueCell(t, now),
			cleanDescription(t.Description, lineBudget),
			subtasksCell(t),
			commentsCell(t),
			Truncate(t.Location(), locationBudget),
			parentCell(t),
		)
	}
	w.Flush()
	return b.String()
}

// Summary renders a report's statistics block: totals, the status
// histogram, time buckets, and the urgent/high/normal priority counts.
// Priority 4 and untagged tasks are tracked in the report but not
// surfaced here.
func Summary(r *report.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summary:\n")
	fmt.Fprintf(&b, "   Total tasks: %d\n", r.Total)

	if len(r.ByStatus) > 0 {
		fmt.Fprintf(&b, "   By status:\n")
		statuses := make([]string, 0, len(r.ByStatus))
		for s := range r.ByStatus {
			statuses = append(statuses, s)
		}
		// Highest count first, names break ties for deterministic output.
		sort.Slice(statuses, func(i, j int) bool {
			if r.ByStatus[statuses[i]] != r.ByStatus[statuses[j]] {
				return r.ByStatus[statuses[i]] > r.ByStatus[statuses[j]]
			}
			return statuses[i] < statuses[j]
		})
		for _, s := range statuses {
			fmt.Fprintf(&b, "      %s: %d\n", s, r.ByStatus[s])
		}
	}

	if r.Overdue > 0 {
		fmt.Fprintf(&b, "   Overdue: %d\n", r.Overdue)
	}
	if r.DueThisWeek > 0 {
		fmt.Fprintf(&b, "   Due this week: %d\n", r.DueThisWeek)
	}
	if r.DueThisMonth > 0 {
		fmt.Fprintf(&b, "   Due this month: %d\n", r.DueThisMonth)
	}

	if r.ByPriority[1] > 0 || r.ByPriority[2] > 0 || r.ByPriority[3] > 0 {
		fmt.Fprintf(&b, "   By priority:\n")
		for _, p := range []int{1, 2, 3} {
			if r.ByPriority[p] > 0 {
				fmt.Fprintf(&b, "      %s: %d\n", PriorityLabel(p), r.ByPriority[p])
			}
		}
	}

	return b.String()
}

// Teams renders the workspace roster.
func Teams(teams []clickup.Team) string {
	if len(teams) == 0 {
		return "No teams found."
	}
	var b strings.Builder
	fmt.Fprintln(&b, "Your Teams:")
	for _, team := range teams {
		fmt.Fprintf(&b, "   • %s (ID: %s)\n", team.Name, team.ID)
	}
	return b.String()
}

// Whoami renders the authenticated user.
func Whoami(u *clickup.User) string {
	return fmt.Sprintf("Authenticated as: %s\n   Email: %s\n", u.Username, u.Email)
}

package render

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/harrisonrobin/cuppa/pkg/clickup"
	"github.com/harrisonrobin/cuppa/pkg/report"
)

func TestStripHTML(t *testing.T) {
	cases := []struct{ in, want string }{
		{"<p>hello</p>", "hello"},
		{"no markup", "no markup"},
		{`<a href="x">link</a> text`, "link text"},
	}
	for _, tc := range cases {
		if got := StripHTML(tc.in); got != tc.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this one is too long", 7, "this on..."},
		{"anything", 0, "anything"},
		// Budgets are characters, not bytes: 40 two-byte runes fit a
		// 60-character budget untouched.
		{strings.Repeat("é", 40), 60, strings.Repeat("é", 40)},
		{strings.Repeat("é", 80), 60, strings.Repeat("é", 60) + "..."},
		{"日本語のタスク名", 4, "日本語の..."},
	}
	for _, tc := range cases {
		got := Truncate(tc.in, tc.limit)
		if got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("Truncate(%q, %d) produced invalid UTF-8: %q", tc.in, tc.limit, got)
		}
	}
}

func TestPriorityLabel(t *testing.T) {
	cases := map[int]string{1: "Urgent", 2: "High", 3: "Normal", 4: "Low", 0: "None", 9: "None"}
	for p, want := range cases {
		if got := PriorityLabel(p); got != want {
			t.Errorf("PriorityLabel(%d) = %q, want %q", p, got, want)
		}
	}
}

func TestFormatTask(t *testing.T) {
	task := clickup.Task{
		ID:       "abc",
		Name:     "Fix login",
		Status:   clickup.StatusRef{Status: "open"},
		Priority: &clickup.PriorityRef{Priority: 1},
		DueDate:  &clickup.Millis{Time: time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)},
	}

	out := FormatTask(&task)
	for _, want := range []string{"Fix login", "[abc]", "Status: open", "Priority: Urgent", "Due: 2024-05-20"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatTask output missing %q:\n%s", want, out)
		}
	}

	bare := clickup.Task{ID: "x", Name: "Bare"}
	out = FormatTask(&bare)
	if strings.Contains(out, "Priority:") || strings.Contains(out, "Due:") {
		t.Errorf("FormatTask printed absent fields:\n%s", out)
	}
}

func TestTaskTable(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	tasks := []clickup.Task{
		{
			Name:        "Overdue one",
			Status:      clickup.StatusRef{Status: "open"},
			DueDate:     &clickup.Millis{Time: now.Add(-24 * time.Hour)},
			Description: "<b>bold</b> text",
			List:        &clickup.Ref{Name: "Backlog"},
			Tags:        []clickup.Tag{{Name: "infra"}},
		},
		{Name: "Future one", DueDate: &clickup.Millis{Time: now.Add(48 * time.Hour)}},
	}

	out := TaskTable(tasks, now)
	if !strings.Contains(out, "TASK") || !strings.Contains(out, "LOCATION") {
		t.Errorf("header missing:\n%s", out)
	}
	if !strings.Contains(out, "! 2024-05-14") {
		t.Errorf("overdue marker missing:\n%s", out)
	}
	if strings.Contains(out, "! 2024-05-17") {
		t.Errorf("future task marked overdue:\n%s", out)
	}
	if strings.Contains(out, "<b>") {
		t.Errorf("markup leaked into the table:\n%s", out)
	}
	if !strings.Contains(out, "bold text") {
		t.Errorf("description missing:\n%s", out)
	}

	if got := TaskTable(nil, now); got != "No tasks found." {
		t.Errorf("empty table = %q", got)
	}
}

func TestDetailedTable(t *testing.T) {
	now := time.Now()
	tasks := []clickup.Task{
		{
			Name:     "Parent work",
			Subtasks: []clickup.Task{{Name: "child"}},
			Comments: []clickup.Comment{{CommentText: "ship it"}},
		},
		{Name: "Child work", Parent: "abc123"},
	}

	out := DetailedTable(tasks, now)
	for _, want := range []string{"SUBTASKS", "1 subtasks", "1 comments: ship it", "subtask of abc123"} {
		if !strings.Contains(out, want) {
			t.Errorf("DetailedTable missing %q:\n%s", want, out)
		}
	}
}

func TestSummary(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	pri := func(p int) *clickup.PriorityRef { return &clickup.PriorityRef{Priority: p} }
	tasks := []clickup.Task{
		{Name: "a", Status: clickup.StatusRef{Status: "open"}, Priority: pri(1),
			DueDate: &clickup.Millis{Time: now.Add(-time.Hour)}},
		{Name: "b", Status: clickup.StatusRef{Status: "open"}, Priority: pri(2)},
		{Name: "c", Status: clickup.StatusRef{Status: "done"}},
	}

	out := Summary(report.Summarize(tasks, now))
	for _, want := range []string{"Total tasks: 3", "open: 2", "done: 1", "Overdue: 1", "Urgent: 1", "High: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary missing %q:\n%s", want, out)
		}
	}
	// Larger status first.
	if strings.Index(out, "open: 2") > strings.Index(out, "done: 1") {
		t.Errorf("status histogram not sorted by count:\n%s", out)
	}
	if strings.Contains(out, "Due this week") {
		t.Errorf("empty bucket rendered:\n%s", out)
	}
}

func TestTeams(t *testing.T) {
	out := Teams([]clickup.Team{{ID: "1", Name: "Eng"}})
	if !strings.Contains(out, "Eng") || !strings.Contains(out, "(ID: 1)") {
		t.Errorf("Teams output = %q", out)
	}
	if got := Teams(nil); got != "No teams found." {
		t.Errorf("Teams(nil) = %q", got)
	}
}

func TestWhoami(t *testing.T) {
	out := Whoami(&clickup.User{Username: "harrison", Email: "h@example.com"})
	if !strings.Contains(out, "harrison") || !strings.Contains(out, "h@example.com") {
		t.Errorf("Whoami output = %q", out)
	}
}

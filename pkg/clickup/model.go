package clickup

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Millis is a timestamp transmitted as epoch milliseconds. The API is not
// consistent about the JSON type: task due dates arrive as strings
// ("1508369194377") while a few endpoints emit bare numbers, so both are
// accepted. A null, empty, or "0" value decodes to the zero time.
type Millis struct {
	time.Time
}

// UnmarshalJSON implements the json.Unmarshaler interface for Millis.
func (m *Millis) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" || s == "0" {
		m.Time = time.Time{}
		return nil
	}

	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("failed to parse millisecond timestamp '%s': %w", s, err)
	}
	m.Time = time.UnixMilli(ms)
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Millis.
func (m Millis) MarshalJSON() ([]byte, error) {
	if m.Time.IsZero() {
		return []byte("null"), nil
	}
	// The API accepts (and the original scripts send) a bare number here.
	return []byte(strconv.FormatInt(m.Time.UnixMilli(), 10)), nil
}

// User is the authenticated user or a team member.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Initials string `json:"initials,omitempty"`
	Color    string `json:"color,omitempty"`
}

// Member wraps a user inside a team roster.
type Member struct {
	User User `json:"user"`
}

// Team is a workspace, the top of the hierarchy.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []Member `json:"members,omitempty"`
}

// Space groups folders and lists inside a team.
type Space struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Private bool   `json:"private,omitempty"`
}

// Folder is an intermediate grouping of lists inside a space.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// List holds tasks; lists live directly in a space or inside a folder.
type List struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TaskCount int    `json:"task_count,omitempty"`
}

// StatusRef is the status object attached to a task. The label set is
// server-defined per list, so Status stays free text.
type StatusRef struct {
	Status string `json:"status"`
	Color  string `json:"color,omitempty"`
}

// PriorityRef is the priority object attached to a task. The inner value is
// ordinal 1-4 (1 = urgent); the API serializes it as a number or a numeric
// string depending on the endpoint.
type PriorityRef struct {
	Priority int `json:"priority"`
}

// UnmarshalJSON tolerates both `{"priority": 1}` and `{"priority": "1"}`.
func (p *PriorityRef) UnmarshalJSON(b []byte) error {
	var raw struct {
		Priority any `json:"priority"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.Priority.(type) {
	case nil:
		p.Priority = 0
	case float64:
		p.Priority = int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("failed to parse priority '%s': %w", v, err)
		}
		p.Priority = n
	default:
		return fmt.Errorf("unexpected priority type %T", raw.Priority)
	}
	return nil
}

// Tag is a named label on a task.
type Tag struct {
	Name string `json:"name"`
}

// Comment is one entry of a task's comment thread.
type Comment struct {
	ID          string `json:"id"`
	CommentText string `json:"comment_text"`
	User        *User  `json:"user,omitempty"`
	Date        Millis `json:"date,omitempty"`
}

// Ref is a lightweight id/name pair used for a task's ancestry.
type Ref struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Task is the central wire model. Priority absent means "no priority",
// not priority 0; DueDate nil means no due date.
type Task struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Status       StatusRef    `json:"status"`
	Priority     *PriorityRef `json:"priority,omitempty"`
	DueDate      *Millis      `json:"due_date,omitempty"`
	Description  string       `json:"description,omitempty"`
	Parent       string       `json:"parent,omitempty"`
	List         *Ref         `json:"list,omitempty"`
	Folder       *Ref         `json:"folder,omitempty"`
	Space        *Ref         `json:"space,omitempty"`
	Team         *Ref         `json:"team,omitempty"`
	Tags         []Tag        `json:"tags,omitempty"`
	TimeEstimate int64        `json:"time_estimate,omitempty"` // milliseconds
	Assignees    []User       `json:"assignees,omitempty"`
	Subtasks     []Task       `json:"subtasks,omitempty"`
	URL          string       `json:"url,omitempty"`

	// Comments is filled in client-side by the aggregator's detailed
	// collection; the task endpoints themselves never include it.
	Comments []Comment `json:"comments,omitempty"`
}

// StatusLabel returns the task's status text, or a placeholder when the
// server sent none.
func (t *Task) StatusLabel() string {
	if t.Status.Status == "" {
		return "No status"
	}
	return t.Status.Status
}

// PriorityValue returns the ordinal priority, or 0 when the task has none.
func (t *Task) PriorityValue() int {
	if t.Priority == nil {
		return 0
	}
	return t.Priority.Priority
}

// Due returns the due timestamp and whether one is set.
func (t *Task) Due() (time.Time, bool) {
	if t.DueDate == nil || t.DueDate.IsZero() {
		return time.Time{}, false
	}
	return t.DueDate.Time, true
}

// Location renders the task's ancestry for display, most specific last.
func (t *Task) Location() string {
	listName := "Unknown"
	if t.List != nil && t.List.Name != "" {
		listName = t.List.Name
	}
	var parts []string
	if t.Space != nil && t.Space.Name != "" {
		parts = append(parts, t.Space.Name)
	}
	if t.Folder != nil && t.Folder.Name != "" {
		parts = append(parts, t.Folder.Name)
	}
	parts = append(parts, listName)
	return strings.Join(parts, "/")
}

// Package aggregate walks the workspace hierarchy (teams → spaces → lists
// → tasks) under a scope and a filter set, merging tasks from every branch
// it can reach. One failing branch never aborts the run: the failure is
// recorded against the node that produced it and enumeration continues
// with its siblings.
package aggregate

import (
	"fmt"
	"strconv"
	"time"

	"github.com/harrisonrobin/cuppa/pkg/clickup"
	"github.com/harrisonrobin/cuppa/pkg/usercache"
)

// Client is the slice of the workspace API the aggregator consumes.
// *clickup.Client satisfies it; tests substitute fakes.
type Client interface {
	GetUser() (*clickup.User, error)
	GetTeams() ([]clickup.Team, error)
	GetSpaces(teamID string) ([]clickup.Space, error)
	GetLists(spaceID string) ([]clickup.List, error)
	GetTasks(listID string, q clickup.TaskQuery) (*clickup.TasksPage, error)
	GetTeamTasks(teamID string, q clickup.TaskQuery) (*clickup.TasksPage, error)
	GetComments(taskID string) ([]clickup.Comment, error)
}

type scopeKind int

const (
	scopeAllTeams scopeKind = iota
	scopeTeam
	scopeList
	scopeUser
)

// Scope selects the subtree to visit. Construct with one of ScopeAllTeams,
// ScopeTeam, ScopeList, or ScopeUser.
type Scope struct {
	kind   scopeKind
	teamID string
	listID string
	userID int64
}

// ScopeAllTeams visits every team, space, and list reachable by the token.
func ScopeAllTeams() Scope {
	return Scope{kind: scopeAllTeams}
}

// ScopeTeam uses the flattened team-level task endpoint: one call per team
// instead of a walk over its spaces and lists.
func ScopeTeam(teamID string) Scope {
	return Scope{kind: scopeTeam, teamID: teamID}
}

// ScopeList visits a single list.
func ScopeList(listID string) Scope {
	return Scope{kind: scopeList, listID: listID}
}

// ScopeUser restricts to tasks assigned to one user. With an empty teamID
// the lookup repeats across every accessible team.
func ScopeUser(userID int64, teamID string) Scope {
	return Scope{kind: scopeUser, userID: userID, teamID: teamID}
}

// FilterSet is a conjunction of independent predicates; the zero value
// matches everything. Assignee, Statuses, and the due window are pushed to
// the server; Priority has no server-side counterpart and is applied after
// fetching. Subtasks and IncludeClosed widen what the server returns.
type FilterSet struct {
	DueAfter  time.Time
	DueBefore time.Time
	Assignee  int64
	Statuses  []string
	Priority  int

	Subtasks      bool
	IncludeClosed bool
}

func (f FilterSet) query() clickup.TaskQuery {
	q := clickup.TaskQuery{
		Statuses:      f.Statuses,
		DueAfter:      f.DueAfter,
		DueBefore:     f.DueBefore,
		Subtasks:      f.Subtasks,
		IncludeClosed: f.IncludeClosed,
	}
	if f.Assignee != 0 {
		q.Assignees = []string{strconv.FormatInt(f.Assignee, 10)}
	}
	return q
}

// matches applies the client-side predicates.
func (f FilterSet) matches(t *clickup.Task) bool {
	if f.Priority != 0 && t.PriorityValue() != f.Priority {
		return false
	}
	return true
}

// NodeError records a subtree that failed to enumerate.
type NodeError struct {
	Node string
	Err  error
}

func (e NodeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Node, e.Err)
}

// Result is the merged outcome of one aggregation run. Tasks from healthy
// branches are always present even when Errors is non-empty.
type Result struct {
	Tasks  []clickup.Task
	Errors []NodeError
}

// Aggregator traverses the workspace through a Client.
type Aggregator struct {
	client Client
	users  *usercache.Cache
}

// New builds an aggregator. The user cache may be nil, in which case every
// member lookup scans the team rosters.
func New(client Client, users *usercache.Cache) *Aggregator {
	return &Aggregator{client: client, users: users}
}

// Self resolves the authenticated user. Failure here is fatal to the whole
// operation: the user id seeds every assigned-to-me query downstream.
func (a *Aggregator) Self() (*clickup.User, error) {
	user, err := a.client.GetUser()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve authenticated user: %w", err)
	}
	return user, nil
}

// Teams lists the accessible workspaces.
func (a *Aggregator) Teams() ([]clickup.Team, error) {
	teams, err := a.client.GetTeams()
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// Aggregate collects tasks under the scope, applying filters. The returned
// error is non-nil only when the root enumeration itself fails; anything
// below the root is recorded in Result.Errors instead.
func (a *Aggregator) Aggregate(scope Scope, filters FilterSet) (*Result, error) {
	res := &Result{}

	switch scope.kind {
	case scopeAllTeams:
		teams, err := a.client.GetTeams()
		if err != nil {
			return nil, fmt.Errorf("failed to list teams: %w", err)
		}
		for _, team := range teams {
			a.collectTeamTree(res, team, filters)
		}

	case scopeTeam:
		a.collectTeamFlat(res, scope.teamID, filters)

	case scopeList:
		a.collectList(res, scope.listID, filters)

	case scopeUser:
		userFilters := filters
		userFilters.Assignee = scope.userID
		userFilters.Subtasks = true
		if scope.teamID != "" {
			a.collectTeamFlat(res, scope.teamID, userFilters)
			break
		}
		teams, err := a.client.GetTeams()
		if err != nil {
			return nil, fmt.Errorf("failed to list teams: %w", err)
		}
		for _, team := range teams {
			a.collectTeamFlat(res, team.ID, userFilters)
		}
	}

	return res, nil
}

// collectTeamTree walks one team's spaces and their lists. Folders group
// lists for display but are not a fetch boundary here; the space-level
// list enumeration covers the traversal.
func (a *Aggregator) collectTeamTree(res *Result, team clickup.Team, filters FilterSet) {
	spaces, err := a.client.GetSpaces(team.ID)
	if err != nil {
		res.Errors = append(res.Errors, NodeError{Node: "team " + team.Name, Err: err})
		return
	}
	for _, space := range spaces {
		lists, err := a.client.GetLists(space.ID)
		if err != nil {
			res.Errors = append(res.Errors, NodeError{Node: "space " + space.Name, Err: err})
			continue
		}
		for _, list := range lists {
			a.collectList(res, list.ID, filters)
		}
	}
}

// collectTeamFlat uses the team-level task endpoint: O(teams) requests
// rather than O(teams × spaces × lists).
func (a *Aggregator) collectTeamFlat(res *Result, teamID string, filters FilterSet) {
	a.collectPages(res, "team "+teamID, filters, func(q clickup.TaskQuery) (*clickup.TasksPage, error) {
		return a.client.GetTeamTasks(teamID, q)
	})
}

func (a *Aggregator) collectList(res *Result, listID string, filters FilterSet) {
	a.collectPages(res, "list "+listID, filters, func(q clickup.TaskQuery) (*clickup.TasksPage, error) {
		return a.client.GetTasks(listID, q)
	})
}

// collectPages drains one node's task pages until the server signals the
// last page or a page comes back empty. A failed page records the node and
// keeps whatever earlier pages delivered.
func (a *Aggregator) collectPages(res *Result, node string, filters FilterSet, fetch func(clickup.TaskQuery) (*clickup.TasksPage, error)) {
	q := filters.query()
	for page := 0; ; page++ {
		q.Page = page
		pg, err := fetch(q)
		if err != nil {
			res.Errors = append(res.Errors, NodeError{Node: node, Err: err})
			return
		}
		for i := range pg.Tasks {
			if filters.matches(&pg.Tasks[i]) {
				res.Tasks = append(res.Tasks, pg.Tasks[i])
			}
		}
		if pg.LastPage || len(pg.Tasks) == 0 {
			return
		}
	}
}

// AttachComments fetches each task's comment thread in place. A failed
// fetch leaves that task with no comments and records the failure; the
// detailed view is still useful without one thread.
func (a *Aggregator) AttachComments(res *Result) {
	for i := range res.Tasks {
		comments, err := a.client.GetComments(res.Tasks[i].ID)
		if err != nil {
			res.Errors = append(res.Errors, NodeError{Node: "task " + res.Tasks[i].ID, Err: err})
			continue
		}
		res.Tasks[i].Comments = comments
	}
}

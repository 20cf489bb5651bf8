package aggregate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/cuppa/pkg/clickup"
)

// fakeClient serves a small in-memory workspace. Error injection is per
// node id; pages beyond the configured set come back empty.
type fakeClient struct {
	user    *clickup.User
	userErr error

	teams    []clickup.Team
	teamsErr error

	spaces map[string][]clickup.Space
	lists  map[string][]clickup.List

	listPages map[string][]clickup.TasksPage
	teamPages map[string][]clickup.TasksPage

	comments map[string][]clickup.Comment

	errOn map[string]error

	teamsCalls  int
	lastQueries map[string]clickup.TaskQuery
}

func (f *fakeClient) GetUser() (*clickup.User, error) {
	return f.user, f.userErr
}

func (f *fakeClient) GetTeams() ([]clickup.Team, error) {
	f.teamsCalls++
	return f.teams, f.teamsErr
}

func (f *fakeClient) GetSpaces(teamID string) ([]clickup.Space, error) {
	if err := f.errOn["spaces:"+teamID]; err != nil {
		return nil, err
	}
	return f.spaces[teamID], nil
}

func (f *fakeClient) GetLists(spaceID string) ([]clickup.List, error) {
	if err := f.errOn["lists:"+spaceID]; err != nil {
		return nil, err
	}
	return f.lists[spaceID], nil
}

func (f *fakeClient) page(pages []clickup.TasksPage, q clickup.TaskQuery) (*clickup.TasksPage, error) {
	if q.Page >= len(pages) {
		return &clickup.TasksPage{LastPage: true}, nil
	}
	pg := pages[q.Page]
	return &pg, nil
}

func (f *fakeClient) GetTasks(listID string, q clickup.TaskQuery) (*clickup.TasksPage, error) {
	f.recordQuery("list:"+listID, q)
	if err := f.errOn["tasks:"+listID]; err != nil {
		return nil, err
	}
	if err := f.errOn[pageKey(listID, q.Page)]; err != nil {
		return nil, err
	}
	return f.page(f.listPages[listID], q)
}

func (f *fakeClient) GetTeamTasks(teamID string, q clickup.TaskQuery) (*clickup.TasksPage, error) {
	f.recordQuery("team:"+teamID, q)
	if err := f.errOn["teamtasks:"+teamID]; err != nil {
		return nil, err
	}
	return f.page(f.teamPages[teamID], q)
}

func (f *fakeClient) GetComments(taskID string) ([]clickup.Comment, error) {
	if err := f.errOn["comments:"+taskID]; err != nil {
		return nil, err
	}
	return f.comments[taskID], nil
}

func (f *fakeClient) recordQuery(node string, q clickup.TaskQuery) {
	if f.lastQueries == nil {
		f.lastQueries = make(map[string]clickup.TaskQuery)
	}
	f.lastQueries[node] = q
}

func pageKey(listID string, page int) string {
	return "tasks:" + listID + ":page" + string(rune('0'+page))
}

func task(id, name string) clickup.Task {
	return clickup.Task{ID: id, Name: name}
}

func page(last bool, tasks ...clickup.Task) clickup.TasksPage {
	return clickup.TasksPage{Tasks: tasks, LastPage: last}
}

func taskNames(tasks []clickup.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Name
	}
	return out
}

func TestAggregateAllTeamsPartialFailure(t *testing.T) {
	fake := &fakeClient{
		teams: []clickup.Team{
			{ID: "1", Name: "Alpha"},
			{ID: "2", Name: "Broken"},
			{ID: "3", Name: "Gamma"},
		},
		spaces: map[string][]clickup.Space{
			"1": {{ID: "s1", Name: "Eng"}},
			"3": {{ID: "s3", Name: "Ops"}},
		},
		lists: map[string][]clickup.List{
			"s1": {{ID: "l1", Name: "Backlog"}},
			"s3": {{ID: "l3", Name: "Oncall"}},
		},
		listPages: map[string][]clickup.TasksPage{
			"l1": {page(true, task("a", "from alpha"))},
			"l3": {page(true, task("g", "from gamma"))},
		},
		errOn: map[string]error{"spaces:2": errors.New("503")},
	}

	res, err := New(fake, nil).Aggregate(ScopeAllTeams(), FilterSet{})
	require.NoError(t, err)

	assert.Equal(t, []string{"from alpha", "from gamma"}, taskNames(res.Tasks))
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Node, "Broken")
}

func TestAggregateAllTeamsRootFailureIsFatal(t *testing.T) {
	fake := &fakeClient{teamsErr: errors.New("401")}
	_, err := New(fake, nil).Aggregate(ScopeAllTeams(), FilterSet{})
	require.Error(t, err)
}

func TestAggregateListPagination(t *testing.T) {
	fake := &fakeClient{
		listPages: map[string][]clickup.TasksPage{
			"l1": {
				page(false, task("1", "p0a"), task("2", "p0b")),
				page(false, task("3", "p1a")),
				page(true, task("4", "p2a")),
			},
		},
	}

	res, err := New(fake, nil).Aggregate(ScopeList("l1"), FilterSet{})
	require.NoError(t, err)
	assert.Equal(t, []string{"p0a", "p0b", "p1a", "p2a"}, taskNames(res.Tasks))
	assert.Empty(t, res.Errors)
}

func TestAggregateStopsOnEmptyPage(t *testing.T) {
	// Server never sets last_page; the empty page ends the walk.
	fake := &fakeClient{
		listPages: map[string][]clickup.TasksPage{
			"l1": {
				page(false, task("1", "only")),
				page(false),
			},
		},
	}

	res, err := New(fake, nil).Aggregate(ScopeList("l1"), FilterSet{})
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, taskNames(res.Tasks))
}

func TestAggregateKeepsEarlierPagesOnFailure(t *testing.T) {
	fake := &fakeClient{
		listPages: map[string][]clickup.TasksPage{
			"l1": {
				page(false, task("1", "kept")),
				page(true, task("2", "never fetched")),
			},
		},
		errOn: map[string]error{pageKey("l1", 1): errors.New("timeout")},
	}

	res, err := New(fake, nil).Aggregate(ScopeList("l1"), FilterSet{})
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, taskNames(res.Tasks))
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Node, "l1")
}

func TestAggregateUserScope(t *testing.T) {
	fake := &fakeClient{
		teams: []clickup.Team{{ID: "1"}, {ID: "2"}},
		teamPages: map[string][]clickup.TasksPage{
			"1": {page(true, task("a", "one"))},
			"2": {page(true, task("b", "two"))},
		},
	}

	res, err := New(fake, nil).Aggregate(ScopeUser(42, ""), FilterSet{})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, taskNames(res.Tasks))

	// The user id travels as a server-side assignee filter, with subtasks
	// widened so nothing assigned inside a parent is missed.
	q := fake.lastQueries["team:1"]
	assert.Equal(t, []string{"42"}, q.Assignees)
	assert.True(t, q.Subtasks)
}

func TestAggregateUserScopeWithTeam(t *testing.T) {
	fake := &fakeClient{
		teamPages: map[string][]clickup.TasksPage{
			"9": {page(true, task("a", "scoped"))},
		},
	}

	res, err := New(fake, nil).Aggregate(ScopeUser(42, "9"), FilterSet{})
	require.NoError(t, err)
	assert.Equal(t, []string{"scoped"}, taskNames(res.Tasks))
	// A pinned team skips the team enumeration entirely.
	assert.Zero(t, fake.teamsCalls)
}

func TestAggregatePriorityFilter(t *testing.T) {
	urgent := clickup.Task{ID: "1", Name: "urgent", Priority: &clickup.PriorityRef{Priority: 1}}
	high := clickup.Task{ID: "2", Name: "high", Priority: &clickup.PriorityRef{Priority: 2}}
	none := clickup.Task{ID: "3", Name: "none"}

	fake := &fakeClient{
		listPages: map[string][]clickup.TasksPage{
			"l1": {page(true, urgent, high, none)},
		},
	}

	res, err := New(fake, nil).Aggregate(ScopeList("l1"), FilterSet{Priority: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"urgent"}, taskNames(res.Tasks))
}

func TestSelf(t *testing.T) {
	fake := &fakeClient{user: &clickup.User{ID: 42, Username: "harrison"}}
	u, err := New(fake, nil).Self()
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.ID)

	fake = &fakeClient{userErr: errors.New("401")}
	_, err = New(fake, nil).Self()
	require.Error(t, err)
}

func TestAttachComments(t *testing.T) {
	fake := &fakeClient{
		comments: map[string][]clickup.Comment{
			"a": {{ID: "c1", CommentText: "first"}},
		},
		errOn: map[string]error{"comments:b": errors.New("500")},
	}

	res := &Result{Tasks: []clickup.Task{task("a", "with"), task("b", "broken")}}
	New(fake, nil).AttachComments(res)

	require.Len(t, res.Tasks[0].Comments, 1)
	assert.Equal(t, "first", res.Tasks[0].Comments[0].CommentText)
	assert.Empty(t, res.Tasks[1].Comments)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Node, "task b")
}

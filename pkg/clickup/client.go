// Package clickup is a typed client for the ClickUp v2 REST API. It covers
// the slice of the API the CLI needs: the workspace hierarchy (teams,
// spaces, folders, lists), task queries at list and team level, and task
// mutation. Transport auth rides on an oauth2 static token source so the
// personal API token is attached to every request.
package clickup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.clickup.com/api/v2"

// APIError is a non-success response from the API, carrying the HTTP
// status and whatever body the server sent.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

// Client talks to the ClickUp API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client authenticated with a personal API token.
func NewClient(token string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: &tokenTransport{src: src},
		},
	}
}

// tokenTransport attaches the token from an oauth2 source to every
// request. Personal tokens go in the Authorization header bare; the API
// rejects them behind a Bearer prefix, so oauth2's own transport (which
// always prepends the scheme) cannot be used directly.
type tokenTransport struct {
	src oauth2.TokenSource
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, err := t.src.Token()
	if err != nil {
		return nil, err
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", tok.AccessToken)
	return http.DefaultTransport.RoundTrip(clone)
}

// NewClientWithBaseURL is NewClient pointed at a different API root.
// Used by tests against a local server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = baseURL
	return c
}

func (c *Client) do(method, endpoint string, params url.Values, body any, out any) error {
	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// GetUser returns the authenticated user.
func (c *Client) GetUser() (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(http.MethodGet, "user", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// GetTeams returns every team (workspace) the token can access, including
// member rosters.
func (c *Client) GetTeams() ([]Team, error) {
	var resp struct {
		Teams []Team `json:"teams"`
	}
	if err := c.do(http.MethodGet, "team", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Teams, nil
}

// GetSpaces returns the spaces of a team.
func (c *Client) GetSpaces(teamID string) ([]Space, error) {
	var resp struct {
		Spaces []Space `json:"spaces"`
	}
	if err := c.do(http.MethodGet, "team/"+teamID+"/space", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Spaces, nil
}

// GetFolders returns the folders of a space.
func (c *Client) GetFolders(spaceID string) ([]Folder, error) {
	var resp struct {
		Folders []Folder `json:"folders"`
	}
	if err := c.do(http.MethodGet, "space/"+spaceID+"/folder", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Folders, nil
}

// GetLists returns the folderless lists of a space.
func (c *Client) GetLists(spaceID string) ([]List, error) {
	var resp struct {
		Lists []List `json:"lists"`
	}
	if err := c.do(http.MethodGet, "space/"+spaceID+"/list", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Lists, nil
}

// GetFolderLists returns the lists inside a folder.
func (c *Client) GetFolderLists(folderID string) ([]List, error) {
	var resp struct {
		Lists []List `json:"lists"`
	}
	if err := c.do(http.MethodGet, "folder/"+folderID+"/list", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Lists, nil
}

// TaskQuery selects tasks on the server side. The zero value matches
// everything open on page zero.
type TaskQuery struct {
	Assignees     []string
	Statuses      []string
	DueAfter      time.Time // due_date_gt, ignored when zero
	DueBefore     time.Time // due_date_lt, ignored when zero
	IncludeClosed bool
	Subtasks      bool
	Page          int
}

// Values encodes the query the way the API expects it.
func (q TaskQuery) Values() url.Values {
	params := url.Values{}
	for _, a := range q.Assignees {
		params.Add("assignees[]", a)
	}
	for _, s := range q.Statuses {
		params.Add("statuses[]", s)
	}
	if !q.DueAfter.IsZero() {
		params.Set("due_date_gt", strconv.FormatInt(q.DueAfter.UnixMilli(), 10))
	}
	if !q.DueBefore.IsZero() {
		params.Set("due_date_lt", strconv.FormatInt(q.DueBefore.UnixMilli(), 10))
	}
	if q.IncludeClosed {
		params.Set("include_closed", "true")
	}
	if q.Subtasks {
		params.Set("subtasks", "true")
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	return params
}

// TasksPage is one page of a task query. LastPage is the server's
// "no more pages" signal; older deployments omit it, so an empty Tasks
// slice also terminates pagination.
type TasksPage struct {
	Tasks    []Task `json:"tasks"`
	LastPage bool   `json:"last_page"`
}

// GetTasks returns one page of tasks from a list.
func (c *Client) GetTasks(listID string, q TaskQuery) (*TasksPage, error) {
	var page TasksPage
	if err := c.do(http.MethodGet, "list/"+listID+"/task", q.Values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTeamTasks returns one page of tasks from the flattened team-level
// endpoint, which spans every space and list in the team.
func (c *Client) GetTeamTasks(teamID string, q TaskQuery) (*TasksPage, error) {
	var page TasksPage
	if err := c.do(http.MethodGet, "team/"+teamID+"/task", q.Values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTask returns one task with full details.
func (c *Client) GetTask(taskID string) (*Task, error) {
	var task Task
	if err := c.do(http.MethodGet, "task/"+taskID, nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetComments returns a task's comment thread, newest first.
func (c *Client) GetComments(taskID string) ([]Comment, error) {
	var resp struct {
		Comments []Comment `json:"comments"`
	}
	if err := c.do(http.MethodGet, "task/"+taskID+"/comment", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

// TaskFields is the mutable subset of a task for create and update calls.
// Nil pointer fields are left untouched by updates.
type TaskFields struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
	DueDate     *Millis `json:"due_date,omitempty"`
}

// CreateTask creates a task in a list and returns the created task.
func (c *Client) CreateTask(listID string, fields TaskFields) (*Task, error) {
	var task Task
	if err := c.do(http.MethodPost, "list/"+listID+"/task", nil, fields, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies the non-nil fields to an existing task.
func (c *Client) UpdateTask(taskID string, fields TaskFields) (*Task, error) {
	var task Task
	if err := c.do(http.MethodPut, "task/"+taskID, nil, fields, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

package taskapi_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jot/internal/backend/taskapi"
	"jot/internal/config"
	"jot/internal/service"
	"jot/internal/testutil"
)

const (
	secret = "s3cret"
	email  = "ann@example.com"
)

func newClient(t *testing.T, api *testutil.FakeAPI) *taskapi.Client {
	t.Helper()
	c, err := taskapi.NewWithHTTPClient(api.Server.Client(), api.URL(), secret, 5*time.Second, nil)
	require.NoError(t, err)
	return c
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew_RequiresSecret(t *testing.T) {
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)

	_, err = taskapi.New(cfg, nil)
	assert.True(t, errors.Is(err, config.ErrMissingSetting))
}

func TestNewWithHTTPClient_InvalidURL(t *testing.T) {
	_, err := taskapi.NewWithHTTPClient(http.DefaultClient, "not a url", secret, 0, nil)
	assert.Error(t, err)
}

func TestCreateTask_WireEncoding(t *testing.T) {
	api := testutil.NewFakeAPI(t, secret)
	c := newClient(t, api)

	draft := service.Draft{
		Title:       "Buy milk",
		Description: "2%",
		DueDate:     date(2024, 6, 1),
		Priority:    service.High,
		Status:      service.Incomplete,
	}
	task, err := c.CreateTask(context.Background(), email, draft)
	require.NoError(t, err)

	assert.Equal(t, "101", task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "2%", task.Description)
	assert.Equal(t, service.High, task.Priority)
	assert.Equal(t, service.Incomplete, task.Status)
	assert.Equal(t, date(2024, 6, 1), task.DueDate)

	reqs := api.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/api/add-task", reqs[0].Path)
	assert.Equal(t, secret, reqs[0].Auth)
	assert.Equal(t, map[string]any{
		"email":      email,
		"task_title": "Buy milk",
		"task_desc":  "2%",
		"due_date":   "2024-06-01",
		"priority":   float64(2),
		"status":     float64(0),
	}, reqs[0].Body)
}

func TestCreateTask_MissingIDFallsBackToUUID(t *testing.T) {
	api := testutil.NewFakeAPI(t, secret)
	api.OmitCreateID = true
	c := newClient(t, api)

	a, err := c.CreateTask(context.Background(), email, service.Draft{Title: "a", Description: "a"})
	require.NoError(t, err)
	b, err := c.CreateTask(context.Background(), email, service.Draft{Title: "b", Description: "b"})
	require.NoError(t, err)

	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestListTasks_Decode(t *testing.T) {
	api := testutil.NewFakeAPI(t, secret)
	api.Seed(testutil.APIRecord{Email: email, Title: "Low one", Desc: "d", DueDate: "2024-06-01", Priority: 0, Status: 0})
	api.Seed(testutil.APIRecord{Email: email, Title: "High one", Desc: "d", DueDate: "2024-06-02", Priority: 2, Status: 1})
	api.Seed(testutil.APIRecord{Email: email, Title: "Odd one", Desc: "d", DueDate: "2024-06-03", Priority: 9, Status: 3})
	api.Seed(testutil.APIRecord{Email: "someone@else.com", Title: "Not mine", Desc: "d", DueDate: "2024-06-03"})
	c := newClient(t, api)

	tasks, err := c.ListTasks(context.Background(), email)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, "101", tasks[0].ID)
	assert.Equal(t, service.Low, tasks[0].Priority)
	assert.Equal(t, service.Incomplete, tasks[0].Status)
	assert.Equal(t, date(2024, 6, 1), tasks[0].DueDate)

	assert.Equal(t, service.High, tasks[1].Priority)
	assert.Equal(t, service.Complete, tasks[1].Status)

	assert.Equal(t, service.Medium, tasks[2].Priority)
	assert.Equal(t, service.Complete, tasks[2].Status)

	reqs := api.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/all-task/"+email, reqs[0].Path)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
}

func TestListTasks_LooseWireShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []service.Task
	}{
		{
			name: "wrapped in tasks",
			raw:  `{"tasks":[{"task_id":"abc","task_title":"t","task_desc":"d","due_date":"2024-06-01T00:00:00.000Z","priority":"2","status":true}]}`,
			want: []service.Task{{ID: "abc", Title: "t", Description: "d", DueDate: date(2024, 6, 1), Priority: service.High, Status: service.Complete}},
		},
		{
			name: "wrapped in data",
			raw:  `{"data":[{"task_id":7,"task_title":"t","task_desc":"d","due_date":"2024-01-31","priority":0,"status":false}]}`,
			want: []service.Task{{ID: "7", Title: "t", Description: "d", DueDate: date(2024, 1, 31), Priority: service.Low, Status: service.Incomplete}},
		},
		{
			name: "fractional codes",
			raw:  `[{"task_id":1,"task_title":"t","task_desc":"d","due_date":"2024-01-31","priority":2.5,"status":0.5}]`,
			want: []service.Task{{ID: "1", Title: "t", Description: "d", DueDate: date(2024, 1, 31), Priority: service.Medium, Status: service.Complete}},
		},
		{
			name: "huge and negative codes",
			raw:  `[{"task_id":1,"task_title":"t","task_desc":"d","due_date":"2024-01-31","priority":1e30,"status":-0.25}]`,
			want: []service.Task{{ID: "1", Title: "t", Description: "d", DueDate: date(2024, 1, 31), Priority: service.Medium, Status: service.Complete}},
		},
		{
			name: "fractional string codes",
			raw:  `[{"task_id":1,"task_title":"t","task_desc":"d","due_date":"2024-01-31","priority":"0.1","status":"0.0"}]`,
			want: []service.Task{{ID: "1", Title: "t", Description: "d", DueDate: date(2024, 1, 31), Priority: service.Medium, Status: service.Incomplete}},
		},
		{
			name: "empty array",
			raw:  `[]`,
			want: []service.Task{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := testutil.NewFakeAPI(t, secret)
			api.RawList = tt.raw
			c := newClient(t, api)

			tasks, err := c.ListTasks(context.Background(), email)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tasks)
		})
	}
}

func TestListTasks_Malformed(t *testing.T) {
	for _, raw := range []string{
		`{"message":"ok"}`,
		`[{"task_id":1,"due_date":"June 1st"}]`,
		`not json`,
	} {
		api := testutil.NewFakeAPI(t, secret)
		api.RawList = raw
		c := newClient(t, api)

		_, err := c.ListTasks(context.Background(), email)
		var apiErr *taskapi.Error
		require.ErrorAs(t, err, &apiErr, raw)
		assert.Equal(t, "list", apiErr.Op)
		assert.Equal(t, 0, apiErr.StatusCode)
	}
}

func TestListTasks_ServerError(t *testing.T) {
	api := testutil.NewFakeAPI(t, secret)
	api.FailStatus = http.StatusInternalServerError
	api.FailMessage = "database unavailable"
	c := newClient(t, api)

	_, err := c.ListTasks(context.Background(), email)
	var apiErr *taskapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "database unavailable", apiErr.Message)
	assert.Equal(t, "list tasks failed: HTTP 500: database unavailable", err.Error())
}

func TestWrongSecret_IsUnauthorized(t *testing.T) {
	api := testutil.NewFakeAPI(t, secret)
	c, err := taskapi.NewWithHTTPClient(api.Server.Client(), api.URL(), "wrong", time.Second, nil)
	require.NoError(t, err)

	err = c.DeleteTask(context.Background(), "1")
	assert.True(t, errors.Is(err, service.ErrUnauthorized))
	assert.False(t, errors.Is(err, service.ErrNotFound))
}

func TestUpdateTask(t *testing.T) {
	api := testutil.NewFakeAPI(t, secret)
	id := api.Seed(testutil.APIRecord{Email: email, Title: "old", Desc: "old", DueDate: "2024-06-01"})
	c := newClient(t, api)

	err := c.UpdateTask(context.Background(), "101", email, service.Draft{
		Title:       "new",
		Description: "desc",
		DueDate:     date(2024, 7, 4),
		Priority:    service.Low,
		Status:      service.Complete,
	})
	require.NoError(t, err)

	recs := api.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, testutil.APIRecord{ID: id, Email: email, Title: "new", Desc: "desc", DueDate: "2024-07-04", Priority: 0, Status: 1}, recs[0])

	reqs := api.Requests()
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/api/edit-task/101", reqs[0].Path)
}

func TestUpdateTask_NotFound(t *testing.T) {
	api := testutil.NewFakeAPI(t, secret)
	c := newClient(t, api)

	err := c.UpdateTask(context.Background(), "999", email, service.Draft{Title: "t", Description: "d"})
	assert.True(t, errors.Is(err, service.ErrNotFound))
}

func TestDeleteTask(t *testing.T) {
	api := testutil.NewFakeAPI(t, secret)
	api.Seed(testutil.APIRecord{Email: email, Title: "t", Desc: "d", DueDate: "2024-06-01"})
	c := newClient(t, api)

	require.NoError(t, c.DeleteTask(context.Background(), "101"))
	assert.Empty(t, api.Records())

	reqs := api.Requests()
	assert.Equal(t, http.MethodDelete, reqs[0].Method)
	assert.Equal(t, "/api/delete-task/101", reqs[0].Path)
}

func TestTransportFailure(t *testing.T) {
	api := testutil.NewFakeAPI(t, secret)
	c := newClient(t, api)
	api.Server.Close()

	_, err := c.ListTasks(context.Background(), email)
	var apiErr *taskapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.NotNil(t, apiErr.Err)
}

func TestCancelledContext(t *testing.T) {
	api := testutil.NewFakeAPI(t, secret)
	c := newClient(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListTasks(ctx, email)
	assert.Error(t, err)
	assert.Empty(t, api.Requests())
}

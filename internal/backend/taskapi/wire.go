package taskapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"jot/internal/service"
)

// taskBody is the request body for add-task and edit-task.
type taskBody struct {
	Email    string `json:"email"`
	Title    string `json:"task_title"`
	Desc     string `json:"task_desc"`
	DueDate  string `json:"due_date"`
	Priority int    `json:"priority"`
	Status   int    `json:"status"`
}

func encodeDraft(email string, d service.Draft) taskBody {
	return taskBody{
		Email:    email,
		Title:    d.Title,
		Desc:     d.Description,
		DueDate:  d.DueDate.Format(service.DateLayout),
		Priority: d.Priority.Code(),
		Status:   d.Status.Code(),
	}
}

// taskRecord is one element of the all-task response.
type taskRecord struct {
	ID       flexString `json:"task_id"`
	Title    string     `json:"task_title"`
	Desc     string     `json:"task_desc"`
	DueDate  string     `json:"due_date"`
	Priority flexNum    `json:"priority"`
	Status   flexNum    `json:"status"`
}

func (r taskRecord) decode() (service.Task, error) {
	due, err := service.ParseDate(r.DueDate)
	if err != nil {
		return service.Task{}, fmt.Errorf("task %s: %w", r.ID, err)
	}
	return service.Task{
		ID:          string(r.ID),
		Title:       r.Title,
		Description: r.Desc,
		DueDate:     due,
		Priority:    service.PriorityFromCode(float64(r.Priority)),
		Status:      service.StatusFromCode(float64(r.Status)),
	}, nil
}

// decodeTaskList accepts a bare array or an object wrapping the array
// under "tasks" or "data".
func decodeTaskList(data []byte) ([]taskRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	if data[0] == '[' {
		var records []taskRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var wrapped struct {
		Tasks *[]taskRecord `json:"tasks"`
		Data  *[]taskRecord `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	switch {
	case wrapped.Tasks != nil:
		return *wrapped.Tasks, nil
	case wrapped.Data != nil:
		return *wrapped.Data, nil
	}
	return nil, fmt.Errorf("response has no task array")
}

// createResponse is the add-task response. Only task_id is used.
type createResponse struct {
	ID      flexString `json:"task_id"`
	Message string     `json:"message"`
}

// errorResponse is the optional body of a failed call.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e errorResponse) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// flexString decodes a JSON string or number into a string.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %s", data)
	}
	*s = flexString(n.String())
	return nil
}

// flexNum decodes a JSON number, boolean, or numeric string. The value is
// kept exact so 2.5 is not mistaken for 2. Booleans map to 1/0 and any
// other non-numeric string is truthy.
type flexNum float64

func (n *flexNum) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch raw {
	case "null", "false", `""`:
		*n = 0
		return nil
	case "true":
		*n = 1
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		raw = strings.TrimSpace(v)
		switch strings.ToLower(raw) {
		case "", "0", "false":
			*n = 0
			return nil
		case "true":
			*n = 1
			return nil
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			*n = flexNum(f)
		} else {
			*n = 1
		}
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("expected a number, got %s", data)
	}
	*n = flexNum(f)
	return nil
}

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
)

// APIRecord is a task as stored by FakeAPI, in wire form.
type APIRecord struct {
	ID       int    `json:"task_id"`
	Email    string `json:"email"`
	Title    string `json:"task_title"`
	Desc     string `json:"task_desc"`
	DueDate  string `json:"due_date"`
	Priority int    `json:"priority"`
	Status   int    `json:"status"`
}

// APIRequest is a request received by FakeAPI.
type APIRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

// FakeAPI is an httptest server speaking the task API under /api.
type FakeAPI struct {
	Server *httptest.Server
	Secret string

	mu       sync.Mutex
	nextID   int
	records  []APIRecord
	requests []APIRequest

	// FailStatus, when non-zero, makes every call fail with this status
	// and FailMessage as the JSON "message".
	FailStatus  int
	FailMessage string

	// OmitCreateID drops task_id from add-task responses.
	OmitCreateID bool

	// RawList, when set, is written verbatim as the all-task body.
	RawList string
}

// NewFakeAPI starts a fake task API that accepts secret in the auth header.
// The server is closed when the test ends.
func NewFakeAPI(t interface{ Cleanup(func()) }, secret string) *FakeAPI {
	f := &FakeAPI{Secret: secret, nextID: 100}

	r := chi.NewRouter()
	r.Use(f.record)
	r.Use(f.authenticate)
	r.Route("/api", func(r chi.Router) {
		r.Get("/all-task/{email}", f.listTasks)      // GET /api/all-task/{email}
		r.Post("/add-task", f.addTask)               // POST /api/add-task
		r.Put("/edit-task/{id}", f.editTask)         // PUT /api/edit-task/{id}
		r.Delete("/delete-task/{id}", f.deleteTask) // DELETE /api/delete-task/{id}
	})

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the API base path.
func (f *FakeAPI) URL() string {
	return f.Server.URL + "/api"
}

// Seed stores a record and returns its ID.
func (f *FakeAPI) Seed(rec APIRecord) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec.ID == 0 {
		f.nextID++
		rec.ID = f.nextID
	}
	f.records = append(f.records, rec)
	return rec.ID
}

// Records returns a copy of the stored records.
func (f *FakeAPI) Records() []APIRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]APIRecord, len(f.records))
	copy(out, f.records)
	return out
}

// Requests returns a copy of the received requests.
func (f *FakeAPI) Requests() []APIRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]APIRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := APIRequest{Method: r.Method, Path: r.URL.EscapedPath(), Auth: r.Header.Get("auth")}
		if r.Body != nil && r.ContentLength != 0 {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				req.Body = body
			}
		}
		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.mu.Unlock()

		// Handlers read the decoded body back through lastBody.
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("auth") != f.Secret {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		f.mu.Lock()
		status, msg := f.FailStatus, f.FailMessage
		f.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, map[string]string{"message": msg})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) lastBody() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1].Body
}

func (f *FakeAPI) listTasks(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	f.mu.Lock()
	raw := f.RawList
	var out []APIRecord
	for _, rec := range f.records {
		if rec.Email == email {
			out = append(out, rec)
		}
	}
	f.mu.Unlock()

	if raw != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(raw))
		return
	}
	if out == nil {
		out = []APIRecord{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) addTask(w http.ResponseWriter, r *http.Request) {
	rec := recordFromBody(f.lastBody())

	f.mu.Lock()
	f.nextID++
	rec.ID = f.nextID
	f.records = append(f.records, rec)
	omit := f.OmitCreateID
	f.mu.Unlock()

	if omit {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Task added"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Task added", "task_id": rec.ID})
}

func (f *FakeAPI) editTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad id"})
		return
	}
	rec := recordFromBody(f.lastBody())

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			rec.ID = id
			f.records[i] = rec
			writeJSON(w, http.StatusOK, map[string]string{"message": "Task updated"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found"})
}

func (f *FakeAPI) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad id"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found"})
}

func recordFromBody(body map[string]any) APIRecord {
	str := func(k string) string {
		s, _ := body[k].(string)
		return s
	}
	num := func(k string) int {
		n, _ := body[k].(float64)
		return int(n)
	}
	return APIRecord{
		Email:    str("email"),
		Title:    str("task_title"),
		Desc:     str("task_desc"),
		DueDate:  str("due_date"),
		Priority: num("priority"),
		Status:   num("status"),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

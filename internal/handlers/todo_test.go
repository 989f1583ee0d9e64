package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tkcmada/sample-todo-psql/internal/dto"
	"github.com/tkcmada/sample-todo-psql/internal/repo"
	"github.com/tkcmada/sample-todo-psql/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTodoRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTodoHandler(service.NewTodoService(repo.NewMemoryTodoRepo(), nil))
	api := r.Group("/api/v1")
	api.GET("/todos", h.GetAll)
	api.POST("/todos", h.Create)
	api.PATCH("/todos/:id", h.Update)
	api.DELETE("/todos/:id", h.Delete)
	api.POST("/todos/:id/toggle", h.Toggle)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeTodo(t *testing.T, w *httptest.ResponseRecorder) dto.TodoResponse {
	t.Helper()
	var resp dto.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body=%s", w.Body.String())
	return resp
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) dto.ListTodosResponse {
	t.Helper()
	var resp dto.ListTodosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body=%s", w.Body.String())
	return resp
}

func TestTodoLifecycleOverHTTP(t *testing.T) {
	r := newTodoRouter()

	// create
	w := doJSON(t, r, http.MethodPost, "/api/v1/todos",
		gin.H{"title": "Buy milk", "due_date": nil})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeTodo(t, w)
	assert.False(t, created.DoneFlag)
	assert.Nil(t, created.DueDate)
	assert.NotZero(t, created.ID)

	// list: one item, one CREATE entry
	w = doJSON(t, r, http.MethodGet, "/api/v1/todos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeList(t, w)
	require.Len(t, list.Items, 1)
	require.Len(t, list.Items[0].AuditLogs, 1)
	assert.Equal(t, "CREATE", list.Items[0].AuditLogs[0].Action)

	// toggle
	w = doJSON(t, r, http.MethodPost, "/api/v1/todos/1/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeTodo(t, w).DoneFlag)

	w = doJSON(t, r, http.MethodGet, "/api/v1/todos", nil)
	list = decodeList(t, w)
	require.Len(t, list.Items[0].AuditLogs, 2)
	assert.Equal(t, "TOGGLE", list.Items[0].AuditLogs[0].Action)
	assert.Equal(t, "CREATE", list.Items[0].AuditLogs[1].Action)

	// update title only
	w = doJSON(t, r, http.MethodPatch, "/api/v1/todos/1",
		gin.H{"title": "Buy oat milk"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Buy oat milk", decodeTodo(t, w).Title)

	w = doJSON(t, r, http.MethodGet, "/api/v1/todos", nil)
	list = decodeList(t, w)
	entry := list.Items[0].AuditLogs[0]
	require.Equal(t, "UPDATE", entry.Action)
	var oldSnap, newSnap struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(entry.OldValues, &oldSnap))
	require.NoError(t, json.Unmarshal(entry.NewValues, &newSnap))
	assert.Equal(t, "Buy milk", oldSnap.Title)
	assert.Equal(t, "Buy oat milk", newSnap.Title)

	// delete
	w = doJSON(t, r, http.MethodDelete, "/api/v1/todos/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/v1/todos", nil)
	assert.Empty(t, decodeList(t, w).Items)

	// gone for update/toggle, with the combined message
	w = doJSON(t, r, http.MethodPost, "/api/v1/todos/1/toggle", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Todo not found or has been deleted")

	w = doJSON(t, r, http.MethodPatch, "/api/v1/todos/1", gin.H{"title": "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateWithDueDate(t *testing.T) {
	r := newTodoRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/todos",
		gin.H{"title": "dentist", "due_date": "2026-03-01"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeTodo(t, w)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, "2026-03-01", *created.DueDate)
}

func TestCreateValidation(t *testing.T) {
	r := newTodoRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/todos", gin.H{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/todos",
		gin.H{"title": strings.Repeat("a", 256)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/todos",
		gin.H{"title": "x", "due_date": "03/01/2026"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateClearsDueDateWithNull(t *testing.T) {
	r := newTodoRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/todos",
		gin.H{"title": "dentist", "due_date": "2026-03-01"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/v1/todos/1",
		gin.H{"due_date": nil})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeTodo(t, w)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, "dentist", updated.Title)
}

func TestUpdateIgnoresDoneFlag(t *testing.T) {
	r := newTodoRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/todos", gin.H{"title": "x"})
	require.Equal(t, http.StatusCreated, w.Code)

	// done_flag in the PATCH body is accepted but must not change state.
	w = doJSON(t, r, http.MethodPatch, "/api/v1/todos/1",
		gin.H{"title": "y", "done_flag": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeTodo(t, w).DoneFlag)
}

func TestDeleteMissingIsSuccess(t *testing.T) {
	r := newTodoRouter()

	w := doJSON(t, r, http.MethodDelete, "/api/v1/todos/999999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestInvalidID(t *testing.T) {
	r := newTodoRouter()

	w := doJSON(t, r, http.MethodDelete, "/api/v1/todos/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/todos/0/toggle", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

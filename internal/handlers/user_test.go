package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/tkcmada/sample-todo-psql/internal/dto"
	"github.com/tkcmada/sample-todo-psql/internal/repo"
	"github.com/tkcmada/sample-todo-psql/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewUserHandler(service.NewUserService(repo.NewMemoryUserRepo()))
	api := r.Group("/api/v1")
	api.GET("/users", h.GetAll)
	api.GET("/users/:id", h.GetByID)
	api.POST("/users", h.Create)
	api.PATCH("/users/:id", h.Update)
	api.DELETE("/users/:id", h.Delete)
	return r
}

func TestListSeededUsers(t *testing.T) {
	r := newUserRouter()

	w := doJSON(t, r, http.MethodGet, "/api/v1/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ListUsersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 5)
	assert.Equal(t, "charlie_davis", resp.Items[0].Name)
	// Roles flatten to "app-role" strings for the admin table.
	assert.Contains(t, resp.Items[4].Roles, "app1-admin")
}

func TestUserCRUDOverHTTP(t *testing.T) {
	r := newUserRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/users", gin.H{
		"name":  "dana",
		"email": "dana@example.com",
		"apps":  []string{"app1"},
		"roles": []gin.H{{"app_name": "app1", "role": "user"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dto.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, []string{"app1-user"}, created.Roles)

	w = doJSON(t, r, http.MethodPatch, "/api/v1/users/6", gin.H{"name": "dana2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, "/api/v1/users/6", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/users/6", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateUserValidation(t *testing.T) {
	r := newUserRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/users",
		gin.H{"name": "dana", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/users", gin.H{"email": "a@b.co"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

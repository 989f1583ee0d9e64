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

func newOrgChartRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewOrgChartHandler(service.NewOrgChartService(repo.NewMemoryOrgChartRepo()))
	api := r.Group("/api/v1")
	api.GET("/org-chart/pages", h.GetAllPages)
	api.GET("/org-chart/pages/:id", h.GetPageByID)
	api.POST("/org-chart/pages", h.CreatePage)
	api.PATCH("/org-chart/pages/:id", h.UpdatePage)
	api.DELETE("/org-chart/pages/:id", h.DeletePage)
	api.PUT("/org-chart/pages/:id/chart-data", h.SaveChartData)
	return r
}

func TestOrgChartPageLifecycleOverHTTP(t *testing.T) {
	r := newOrgChartRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/org-chart/pages",
		gin.H{"title": "Engineering", "description": "Q1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var page dto.PageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))

	w = doJSON(t, r, http.MethodPut, "/api/v1/org-chart/pages/1/chart-data",
		gin.H{"chart_data": gin.H{"nodes": []gin.H{{"id": "n1"}}, "edges": []gin.H{}}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.JSONEq(t, `{"nodes":[{"id":"n1"}],"edges":[]}`, string(page.ChartData))

	w = doJSON(t, r, http.MethodDelete, "/api/v1/org-chart/pages/1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/org-chart/pages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.ListPagesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list.Items)

	w = doJSON(t, r, http.MethodGet, "/api/v1/org-chart/pages/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

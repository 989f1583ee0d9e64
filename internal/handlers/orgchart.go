package handlers

import (
	"errors"
	"net/http"

	"github.com/tkcmada/sample-todo-psql/internal/domain"
	"github.com/tkcmada/sample-todo-psql/internal/dto"
	"github.com/tkcmada/sample-todo-psql/internal/repo"
	"github.com/tkcmada/sample-todo-psql/internal/service"

	"github.com/gin-gonic/gin"
)

type OrgChartHandler struct {
	svc *service.OrgChartService
}

func NewOrgChartHandler(svc *service.OrgChartService) *OrgChartHandler {
	return &OrgChartHandler{svc: svc}
}

// GetAllPages godoc
// @Summary      List active org-chart pages
// @Tags         org-chart
// @Produce      json
// @Success      200  {object}  dto.ListPagesResponse
// @Failure      500  {object}  map[string]string
// @Router       /org-chart/pages [get]
func (h *OrgChartHandler) GetAllPages(c *gin.Context) {
	pages, err := h.svc.GetAllPages(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]dto.PageResponse, len(pages))
	for i := range pages {
		items[i] = pageToResponse(pages[i])
	}
	c.JSON(http.StatusOK, dto.ListPagesResponse{Items: items})
}

// GetPageByID godoc
// @Summary      Get an org-chart page
// @Tags         org-chart
// @Produce      json
// @Param        id   path      int  true  "Page ID"
// @Success      200  {object}  dto.PageResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /org-chart/pages/{id} [get]
func (h *OrgChartHandler) GetPageByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetPageByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrPageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pageToResponse(p))
}

// CreatePage godoc
// @Summary      Create an org-chart page
// @Tags         org-chart
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreatePageRequest  true  "Page body"
// @Success      201   {object}  dto.PageResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /org-chart/pages [post]
func (h *OrgChartHandler) CreatePage(c *gin.Context) {
	var req dto.CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.CreatePage(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, pageToResponse(p))
}

// UpdatePage godoc
// @Summary      Update an org-chart page
// @Tags         org-chart
// @Accept       json
// @Produce      json
// @Param        id    path      int  true  "Page ID"
// @Param        body  body      dto.UpdatePageRequest  true  "Partial update"
// @Success      200   {object}  dto.PageResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /org-chart/pages/{id} [patch]
func (h *OrgChartHandler) UpdatePage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.UpdatePage(c.Request.Context(), id, req.Title, req.Description)
	if err != nil {
		if errors.Is(err, repo.ErrPageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pageToResponse(p))
}

// DeletePage godoc
// @Summary      Deactivate an org-chart page
// @Tags         org-chart
// @Param        id   path  int  true  "Page ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /org-chart/pages/{id} [delete]
func (h *OrgChartHandler) DeletePage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeletePage(c.Request.Context(), id); err != nil {
		if errors.Is(err, repo.ErrPageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// SaveChartData godoc
// @Summary      Save a page's chart nodes and edges
// @Tags         org-chart
// @Accept       json
// @Produce      json
// @Param        id    path      int  true  "Page ID"
// @Param        body  body      dto.SaveChartDataRequest  true  "Chart data"
// @Success      200   {object}  dto.PageResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /org-chart/pages/{id}/chart-data [put]
func (h *OrgChartHandler) SaveChartData(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.SaveChartDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.SaveChartData(c.Request.Context(), id, req.ChartData)
	if err != nil {
		if errors.Is(err, repo.ErrPageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pageToResponse(p))
}

func pageToResponse(p domain.TeamStructurePage) dto.PageResponse {
	return dto.PageResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		ChartData:   p.ChartData,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

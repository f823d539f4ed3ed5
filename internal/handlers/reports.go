package handlers

import (
	"errors"
	"net/http"

	"autofocus_analysis/internal/repository"
	"autofocus_analysis/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errLoadReports     = "failed to load reports"
	errInvalidBodyPref = "invalid body: "
)

// LoadReportsRequest is the payload of the load endpoint. An empty dir
// reloads the folder the current reports came from.
type LoadReportsRequest struct {
	Dir string `json:"dir" example:"/data/AutoFocus"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Load report folder
// @Description  Replaces the loaded reports with every *.json file of the folder. Files that cannot be decoded are skipped and listed in failures.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        body  body      LoadReportsRequest  false  "Folder to load"
// @Success      200   {object}  service.LoadSummary
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/reports/load [post]
func (h *Handler) loadReports(c *gin.Context) {
	var req LoadReportsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
			return
		}
	}
	dir := req.Dir
	if dir == "" {
		dir = h.services.Reports.Dir()
	}

	sum, err := h.services.Reports.LoadDirectory(c.Request.Context(), dir)
	switch {
	case errors.Is(err, service.ErrNoDirectory), errors.Is(err, repository.ErrNotDirectory):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadReports, "reports_load_failed", err, "dir", dir)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// @Summary      List loaded reports
// @Tags         reports
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "dir, count, reports"
// @Router       /api/v1/reports [get]
func (h *Handler) listReports(c *gin.Context) {
	reports := h.services.Reports.All()
	c.JSON(http.StatusOK, gin.H{
		"dir":     h.services.Reports.Dir(),
		"count":   len(reports),
		"reports": reports,
	})
}

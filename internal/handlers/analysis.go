package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"autofocus_analysis/internal/analysis"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

const errUpdateFilters = "failed to update filters"

// FilterPatch documents the PATCH payload; every field is optional.
type FilterPatch struct {
	TemperatureFrom    *float64 `json:"temperature_from,omitempty" example:"-5"`
	TemperatureThrough *float64 `json:"temperature_through,omitempty" example:"25"`
	PositionFrom       *float64 `json:"position_from,omitempty" example:"0"`
	PositionThrough    *float64 `json:"position_through,omitempty" example:"20000"`
	RSquaredAbove      *float64 `json:"r_squared_above,omitempty" example:"0.8"`
	SelectedFilter     *string  `json:"selected_filter,omitempty" example:"L"`
	// YYYY-MM-DD; null or "" clears the bound
	DateFrom *string `json:"date_from,omitempty" example:"2024-03-01"`
	DateThru *string `json:"date_thru,omitempty" example:"2024-03-31"`
}

// @Summary      Current analysis
// @Description  Filter settings, counts, distinct dates and filters, and the fitted trend (null when there is no trend).
// @Tags         analysis
// @Produce      json
// @Success      200  {object}  analysis.Snapshot
// @Router       /api/v1/analysis [get]
func (h *Handler) getAnalysis(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Analysis.Snapshot())
}

// @Summary      Update filters
// @Description  Applies every given field at once and recomputes the trend. Nothing changes if any field is rejected.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        body  body      FilterPatch  true  "Fields to change"
// @Success      200   {object}  analysis.Snapshot
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/analysis/filters [patch]
func (h *Handler) patchFilters(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	updates, err := parseFilterPatch(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	snap, err := h.services.Analysis.Update(c.Request.Context(), updates)
	switch {
	case errors.Is(err, analysis.ErrUnknownField), errors.Is(err, analysis.ErrInvalidValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errUpdateFilters, "filters_update_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Filtered reports
// @Tags         analysis
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "version, count, reports"
// @Router       /api/v1/analysis/reports [get]
func (h *Handler) getFilteredReports(c *gin.Context) {
	snap := h.services.Analysis.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"version": snap.Version,
		"count":   len(snap.Filtered),
		"reports": snap.Filtered,
	})
}

// parseFilterPatch turns a JSON object into field updates in a stable order.
func parseFilterPatch(body []byte) ([]analysis.FieldUpdate, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("no filter fields given")
	}
	for key := range raw {
		if !knownField(key) {
			return nil, fmt.Errorf("%w: %q", analysis.ErrUnknownField, key)
		}
	}

	updates := make([]analysis.FieldUpdate, 0, len(raw))
	for _, f := range analysis.Fields {
		msg, ok := raw[string(f)]
		if !ok {
			continue
		}
		v, err := decodeFieldValue(f, msg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		updates = append(updates, analysis.FieldUpdate{Field: f, Value: v})
	}
	return updates, nil
}

func decodeFieldValue(f analysis.FilterField, msg json.RawMessage) (any, error) {
	switch f {
	case analysis.FieldSelectedFilter:
		var s string
		err := json.Unmarshal(msg, &s)
		return s, err
	case analysis.FieldDateFrom, analysis.FieldDateThru:
		var s *string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, err
		}
		if s == nil {
			return nil, nil
		}
		return *s, nil
	default:
		var v *float64
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, err
		}
		if v == nil {
			return nil, errors.New("number required")
		}
		return *v, nil
	}
}

func knownField(key string) bool {
	for _, f := range analysis.Fields {
		if string(f) == key {
			return true
		}
	}
	return false
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/sugarpoints/internal/domain/coach"
	"github.com/yanqian/sugarpoints/internal/domain/foodlog"
	"github.com/yanqian/sugarpoints/internal/domain/profile"
	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	foodlogSvc foodlog.Service
	profileSvc profile.Service
	coachSvc   coach.Service
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(foodlogSvc foodlog.Service, profileSvc profile.Service, coachSvc coach.Service, logger *slog.Logger) *Handler {
	return &Handler{
		foodlogSvc: foodlogSvc,
		profileSvc: profileSvc,
		coachSvc:   coachSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

type classifyRequest struct {
	Total  int `json:"total"`
	Target int `json:"target,omitempty"`
}

// Score converts a portion into SugarPoints without logging it.
func (h *Handler) Score(c *gin.Context) {
	var req foodlog.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.foodlogSvc.Preview(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err, "score_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Classify maps a daily total onto the feedback bands.
func (h *Handler) Classify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, sugarpoints.Classify(req.Total, req.Target))
}

// LogEntry records a food entry for the user.
func (h *Handler) LogEntry(c *gin.Context) {
	var req foodlog.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	view, err := h.foodlogSvc.LogEntry(c.Request.Context(), getUserID(c), req)
	if err != nil {
		abortWithError(c, fromDomainError(err, "log_entry_failed"))
		return
	}
	c.JSON(http.StatusCreated, view)
}

// ListEntries returns the entries of one day, today by default.
func (h *Handler) ListEntries(c *gin.Context) {
	day, err := h.foodlogSvc.Day(c.Request.Context(), getUserID(c), c.Query("date"))
	if err != nil {
		abortWithError(c, fromDomainError(err, "list_entries_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": day.Date, "entries": day.Aggregate.Entries})
}

// GetEntry returns one entry.
func (h *Handler) GetEntry(c *gin.Context) {
	view, err := h.foodlogSvc.GetEntry(c.Request.Context(), getUserID(c), c.Param("entryID"))
	if err != nil {
		abortWithError(c, fromDomainError(err, "get_entry_failed"))
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateEntry replaces an entry and rescores it.
func (h *Handler) UpdateEntry(c *gin.Context) {
	var req foodlog.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	view, err := h.foodlogSvc.UpdateEntry(c.Request.Context(), getUserID(c), c.Param("entryID"), req)
	if err != nil {
		abortWithError(c, fromDomainError(err, "update_entry_failed"))
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeleteEntry removes an entry.
func (h *Handler) DeleteEntry(c *gin.Context) {
	if err := h.foodlogSvc.DeleteEntry(c.Request.Context(), getUserID(c), c.Param("entryID")); err != nil {
		abortWithError(c, fromDomainError(err, "delete_entry_failed"))
		return
	}
	c.Status(http.StatusNoContent)
}

// Day returns the aggregate and status of a calendar day.
func (h *Handler) Day(c *gin.Context) {
	view, err := h.foodlogSvc.Day(c.Request.Context(), getUserID(c), c.Param("date"))
	if err != nil {
		abortWithError(c, fromDomainError(err, "day_failed"))
		return
	}
	c.JSON(http.StatusOK, view)
}

// Progress returns per-day totals between from and to, inclusive.
func (h *Handler) Progress(c *gin.Context) {
	view, err := h.foodlogSvc.Progress(c.Request.Context(), getUserID(c), c.Query("from"), c.Query("to"))
	if err != nil {
		abortWithError(c, fromDomainError(err, "progress_failed"))
		return
	}
	c.JSON(http.StatusOK, view)
}

// Coach answers a question about the user's day.
func (h *Handler) Coach(c *gin.Context) {
	var req coach.Request
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
			return
		}
	}
	resp, err := h.coachSvc.Advise(c.Request.Context(), getUserID(c), req)
	if err != nil {
		abortWithError(c, fromDomainError(err, "coach_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

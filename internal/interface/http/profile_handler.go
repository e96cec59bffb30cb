package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/sugarpoints/internal/domain/profile"
)

// Profile returns the user's profile and effective daily target.
func (h *Handler) Profile(c *gin.Context) {
	view, err := h.profileSvc.Get(c.Request.Context(), getUserID(c))
	if err != nil {
		abortWithError(c, fromDomainError(err, "profile_failed"))
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetTarget stores a custom daily target.
func (h *Handler) SetTarget(c *gin.Context) {
	var req profile.TargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	view, err := h.profileSvc.SetCustomTarget(c.Request.Context(), getUserID(c), req)
	if err != nil {
		abortWithError(c, fromDomainError(err, "profile_failed"))
		return
	}
	c.JSON(http.StatusOK, view)
}

// ClearTarget drops the custom daily target.
func (h *Handler) ClearTarget(c *gin.Context) {
	view, err := h.profileSvc.ClearCustomTarget(c.Request.Context(), getUserID(c))
	if err != nil {
		abortWithError(c, fromDomainError(err, "profile_failed"))
		return
	}
	c.JSON(http.StatusOK, view)
}

// QuizQuestions lists the body-type questionnaire.
func (h *Handler) QuizQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": h.profileSvc.Questions()})
}

// EvaluateQuiz scores a full answer set without a session.
func (h *Handler) EvaluateQuiz(c *gin.Context) {
	var req profile.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	result, err := h.profileSvc.Evaluate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err, "quiz_failed"))
		return
	}
	c.JSON(http.StatusOK, result)
}

// StartQuiz opens a new quiz session.
func (h *Handler) StartQuiz(c *gin.Context) {
	view, err := h.profileSvc.StartQuiz(c.Request.Context(), getUserID(c))
	if err != nil {
		abortWithError(c, fromDomainError(err, "quiz_failed"))
		return
	}
	c.JSON(http.StatusCreated, view)
}

// QuizState returns the progress of a quiz session.
func (h *Handler) QuizState(c *gin.Context) {
	view, err := h.profileSvc.QuizState(c.Request.Context(), getUserID(c), c.Param("sessionID"))
	if err != nil {
		abortWithError(c, fromDomainError(err, "quiz_failed"))
		return
	}
	c.JSON(http.StatusOK, view)
}

// AnswerQuiz records one answer.
func (h *Handler) AnswerQuiz(c *gin.Context) {
	questionID, err := strconv.Atoi(c.Param("questionID"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "question id must be a number", err))
		return
	}
	var req profile.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	view, err := h.profileSvc.AnswerQuiz(c.Request.Context(), getUserID(c), c.Param("sessionID"), questionID, req)
	if err != nil {
		abortWithError(c, fromDomainError(err, "quiz_failed"))
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitQuiz scores the session and stores the result on the profile.
func (h *Handler) SubmitQuiz(c *gin.Context) {
	resp, err := h.profileSvc.SubmitQuiz(c.Request.Context(), getUserID(c), c.Param("sessionID"))
	if err != nil {
		abortWithError(c, fromDomainError(err, "quiz_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

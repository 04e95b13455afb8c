package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
	"github.com/SAP-F-2025/talentflow-assessment/internal/repositories"
	"github.com/SAP-F-2025/talentflow-assessment/internal/services"
	"github.com/SAP-F-2025/talentflow-assessment/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SubmissionHandler serves candidates filling out an assessment and the
// reviewers reading their submissions.
type SubmissionHandler struct {
	BaseHandler
	submissionService   services.SubmissionService
	importExportService services.ImportExportService
}

func NewSubmissionHandler(
	submissionService services.SubmissionService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:         NewBaseHandler(logger),
		submissionService:   submissionService,
		importExportService: importExportService,
	}
}

type answersRequest struct {
	Answers models.AnswerSet `json:"answers"`
}

type submitRequest struct {
	CandidateID uint             `json:"candidateId" binding:"required"`
	Answers     models.AnswerSet `json:"answers"`
}

// GetForm returns the structure and rendered preview a candidate fills out.
// @Router /jobs/{job_id}/assessment/form [get]
func (h *SubmissionHandler) GetForm(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	form, err := h.submissionService.Form(c.Request.Context(), jobID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, form)
}

// ValidateAnswers checks answers without saving them.
// @Router /jobs/{job_id}/assessment/validate [post]
func (h *SubmissionHandler) ValidateAnswers(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	var req answersRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.submissionService.Validate(c.Request.Context(), jobID, req.Answers)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Submit validates and stores the candidate's answers.
// @Router /jobs/{job_id}/assessment/submissions [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	var req submitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Submitting assessment", "job_id", jobID, "candidate_id", req.CandidateID)

	submission, err := h.submissionService.Submit(c.Request.Context(), jobID, req.CandidateID, req.Answers)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// ListSubmissions pages through a job's submissions.
// @Router /jobs/{job_id}/assessment/submissions [get]
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	resp, err := h.submissionService.List(c.Request.Context(), jobID, parseSubmissionFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Router /jobs/{job_id}/assessment/submissions/{submission_id} [get]
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	submissionID := ParseStringIDParam(c, "submission_id")
	if submissionID == "" {
		return
	}

	submission, err := h.submissionService.Get(c.Request.Context(), jobID, submissionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// @Router /jobs/{job_id}/assessment/submissions/stats [get]
func (h *SubmissionHandler) GetStats(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	stats, err := h.submissionService.Stats(c.Request.Context(), jobID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportSubmissions downloads every submission as an Excel workbook.
// @Router /jobs/{job_id}/assessment/submissions/export [get]
func (h *SubmissionHandler) ExportSubmissions(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting submissions", "job_id", jobID)

	data, err := h.importExportService.ExportSubmissionsToExcel(c.Request.Context(), jobID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=job-%d-submissions.xlsx", jobID))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func parseSubmissionFilters(c *gin.Context) repositories.SubmissionFilters {
	page := parseIntQuery(c, "page", 1)
	size := parseIntQuery(c, "size", 50)
	if page < 1 {
		page = 1
	}

	filters := repositories.SubmissionFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortOrder: c.DefaultQuery("sort", "desc"),
		DateFrom:  parseTimeQuery(c, "from"),
		DateTo:    parseTimeQuery(c, "to"),
	}

	if candidateIDStr := c.Query("candidate_id"); candidateIDStr != "" {
		if candidateID, err := strconv.ParseUint(candidateIDStr, 10, 32); err == nil {
			id := uint(candidateID)
			filters.CandidateID = &id
		}
	}

	return filters
}

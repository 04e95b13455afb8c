package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/talentflow-assessment/internal/models"
	"github.com/SAP-F-2025/talentflow-assessment/internal/services"
	"github.com/SAP-F-2025/talentflow-assessment/internal/utils"
)

const maxDocumentSize = 1 << 20

// AssessmentHandler serves the builder: reading and editing the assessment
// attached to a job.
type AssessmentHandler struct {
	BaseHandler
	assessmentService   services.AssessmentService
	importExportService services.ImportExportService
}

func NewAssessmentHandler(
	assessmentService services.AssessmentService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *AssessmentHandler {
	return &AssessmentHandler{
		BaseHandler:         NewBaseHandler(logger),
		assessmentService:   assessmentService,
		importExportService: importExportService,
	}
}

type titleRequest struct {
	Title string `json:"title"`
}

type addQuestionRequest struct {
	Type models.QuestionType `json:"type" binding:"required"`
}

type updateOptionRequest struct {
	Value string `json:"value"`
}

type moveQuestionRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// GetAssessment returns the saved assessment or the unsaved default.
// @Router /jobs/{job_id}/assessment [get]
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	resp, err := h.assessmentService.Get(c.Request.Context(), jobID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	setETag(c, resp.Fingerprint)
	c.JSON(http.StatusOK, resp)
}

var errDocumentTooLarge = fmt.Errorf("document exceeds %d bytes", maxDocumentSize)

// readLimited reads at most maxDocumentSize bytes and fails when r holds more.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDocumentSize {
		return nil, errDocumentTooLarge
	}
	return data, nil
}

// readDocument answers 413 for oversized documents and 400 for read errors.
func (h *AssessmentHandler) readDocument(c *gin.Context, r io.Reader, invalidMsg string) ([]byte, bool) {
	data, err := readLimited(r)
	switch {
	case errors.Is(err, errDocumentTooLarge):
		h.RespondWithError(c, http.StatusRequestEntityTooLarge, "Document too large", err, err.Error())
		return nil, false
	case err != nil:
		h.RespondWithError(c, http.StatusBadRequest, invalidMsg, err, err.Error())
		return nil, false
	}
	return data, true
}

// SaveAssessment replaces the whole structure.
// @Router /jobs/{job_id}/assessment [put]
func (h *AssessmentHandler) SaveAssessment(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	data, ok := h.readDocument(c, c.Request.Body, "Invalid request payload")
	if !ok {
		return
	}

	h.LogRequest(c, "Saving assessment", "job_id", jobID)

	// the body is the bare structure document, checked against the wire schema
	resp, err := h.importExportService.ImportStructure(c.Request.Context(), jobID, data, services.FormatJSON, editContext(c))
	h.respondAssessment(c, resp, err)
}

// ImportAssessment replaces the structure from a JSON or YAML document.
// @Router /jobs/{job_id}/assessment/import [post]
func (h *AssessmentHandler) ImportAssessment(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	var data []byte
	format, known := services.ParseDocumentFormat(c.ContentType())

	if file, err := c.FormFile("file"); err == nil {
		format, known = services.ParseDocumentFormat(strings.ToLower(filepath.Ext(file.Filename)))
		f, err := file.Open()
		if err != nil {
			h.RespondWithError(c, http.StatusBadRequest, "Invalid upload", err, err.Error())
			return
		}
		defer f.Close()
		if data, ok = h.readDocument(c, f, "Invalid upload"); !ok {
			return
		}
	} else if data, ok = h.readDocument(c, c.Request.Body, "Invalid request payload"); !ok {
		return
	}

	if !known {
		h.RespondWithError(c, http.StatusUnsupportedMediaType, "Document must be JSON or YAML", nil)
		return
	}

	h.LogRequest(c, "Importing assessment", "job_id", jobID, "format", format)

	resp, err := h.importExportService.ImportStructure(c.Request.Context(), jobID, data, format, editContext(c))
	h.respondAssessment(c, resp, err)
}

// ExportAssessment downloads the structure as JSON or YAML.
// @Router /jobs/{job_id}/assessment/export [get]
func (h *AssessmentHandler) ExportAssessment(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	format, known := services.ParseDocumentFormat(c.DefaultQuery("format", "json"))
	if !known {
		h.RespondWithError(c, http.StatusBadRequest, "format must be json or yaml", nil)
		return
	}

	data, err := h.importExportService.ExportStructure(c.Request.Context(), jobID, format)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	contentType := "application/json"
	if format == services.FormatYAML {
		contentType = "application/yaml"
	}
	c.Header("Content-Disposition", "attachment; filename=assessment."+string(format))
	c.Data(http.StatusOK, contentType, data)
}

// PreviewAssessment renders the candidate view of the structure.
// @Router /jobs/{job_id}/assessment/preview [get]
func (h *AssessmentHandler) PreviewAssessment(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	preview, err := h.assessmentService.Preview(c.Request.Context(), jobID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// SetTitle renames the assessment.
// @Router /jobs/{job_id}/assessment/title [put]
func (h *AssessmentHandler) SetTitle(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	var req titleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.assessmentService.SetTitle(c.Request.Context(), jobID, req.Title, editContext(c))
	h.respondAssessment(c, resp, err)
}

// ===== SECTIONS =====

// @Router /jobs/{job_id}/assessment/sections [post]
func (h *AssessmentHandler) AddSection(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	var req titleRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.assessmentService.AddSection(c.Request.Context(), jobID, req.Title, editContext(c))
	h.respondCreated(c, resp, err)
}

// @Router /jobs/{job_id}/assessment/sections/{section_id} [put]
func (h *AssessmentHandler) RenameSection(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	sectionID := ParseStringIDParam(c, "section_id")
	if sectionID == "" {
		return
	}
	var req titleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.assessmentService.RenameSection(c.Request.Context(), jobID, sectionID, req.Title, editContext(c))
	h.respondAssessment(c, resp, err)
}

// @Router /jobs/{job_id}/assessment/sections/{section_id} [delete]
func (h *AssessmentHandler) RemoveSection(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	sectionID := ParseStringIDParam(c, "section_id")
	if sectionID == "" {
		return
	}

	resp, err := h.assessmentService.RemoveSection(c.Request.Context(), jobID, sectionID, editContext(c))
	h.respondAssessment(c, resp, err)
}

// ===== QUESTIONS =====

// @Router /jobs/{job_id}/assessment/sections/{section_id}/questions [post]
func (h *AssessmentHandler) AddQuestion(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	sectionID := ParseStringIDParam(c, "section_id")
	if sectionID == "" {
		return
	}
	var req addQuestionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.assessmentService.AddQuestion(c.Request.Context(), jobID, sectionID, req.Type, editContext(c))
	h.respondCreated(c, resp, err)
}

// @Router /jobs/{job_id}/assessment/questions/{question_id} [patch]
func (h *AssessmentHandler) UpdateQuestion(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}
	var req services.UpdateQuestionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.assessmentService.UpdateQuestion(c.Request.Context(), jobID, questionID, &req, editContext(c))
	h.respondAssessment(c, resp, err)
}

// @Router /jobs/{job_id}/assessment/questions/{question_id} [delete]
func (h *AssessmentHandler) RemoveQuestion(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}

	resp, err := h.assessmentService.RemoveQuestion(c.Request.Context(), jobID, questionID, editContext(c))
	h.respondAssessment(c, resp, err)
}

// @Router /jobs/{job_id}/assessment/questions/{question_id}/move [post]
func (h *AssessmentHandler) MoveQuestion(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}
	var req moveQuestionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.assessmentService.MoveQuestion(c.Request.Context(), jobID, questionID, req.Delta, editContext(c))
	h.respondAssessment(c, resp, err)
}

// ===== OPTIONS =====

// @Router /jobs/{job_id}/assessment/questions/{question_id}/options [post]
func (h *AssessmentHandler) AddOption(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}

	resp, err := h.assessmentService.AddOption(c.Request.Context(), jobID, questionID, editContext(c))
	h.respondCreated(c, resp, err)
}

// @Router /jobs/{job_id}/assessment/questions/{question_id}/options/{option_id} [put]
func (h *AssessmentHandler) UpdateOption(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	optionID := ParseStringIDParam(c, "option_id")
	if questionID == "" || optionID == "" {
		return
	}
	var req updateOptionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.assessmentService.UpdateOption(c.Request.Context(), jobID, questionID, optionID, req.Value, editContext(c))
	h.respondAssessment(c, resp, err)
}

// @Router /jobs/{job_id}/assessment/questions/{question_id}/options/{option_id} [delete]
func (h *AssessmentHandler) RemoveOption(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	optionID := ParseStringIDParam(c, "option_id")
	if questionID == "" || optionID == "" {
		return
	}

	resp, err := h.assessmentService.RemoveOption(c.Request.Context(), jobID, questionID, optionID, editContext(c))
	h.respondAssessment(c, resp, err)
}

// ===== CONDITIONS =====

// @Router /jobs/{job_id}/assessment/questions/{question_id}/condition [put]
func (h *AssessmentHandler) SetCondition(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}
	var req services.ConditionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.assessmentService.SetCondition(c.Request.Context(), jobID, questionID, &req, editContext(c))
	h.respondAssessment(c, resp, err)
}

// @Router /jobs/{job_id}/assessment/questions/{question_id}/condition [delete]
func (h *AssessmentHandler) ClearCondition(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}

	resp, err := h.assessmentService.ClearCondition(c.Request.Context(), jobID, questionID, editContext(c))
	h.respondAssessment(c, resp, err)
}

// Helper methods

func (h *AssessmentHandler) respondAssessment(c *gin.Context, resp *services.AssessmentResponse, err error) {
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	setETag(c, resp.Fingerprint)
	c.JSON(http.StatusOK, resp)
}

func (h *AssessmentHandler) respondCreated(c *gin.Context, resp *services.EditResponse, err error) {
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	setETag(c, resp.Fingerprint)
	c.JSON(http.StatusCreated, resp)
}

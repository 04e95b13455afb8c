package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/talentflow-assessment/internal/services"
	"github.com/SAP-F-2025/talentflow-assessment/internal/utils"
)

type HandlerManager struct {
	assessmentHandler *AssessmentHandler
	submissionHandler *SubmissionHandler
	auth              *Authenticator
	base              BaseHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	auth *Authenticator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		assessmentHandler: NewAssessmentHandler(serviceManager.Assessment(), serviceManager.ImportExport(), logger),
		submissionHandler: NewSubmissionHandler(serviceManager.Submission(), serviceManager.ImportExport(), logger),
		auth:              auth,
		base:              NewBaseHandler(logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1", hm.auth.Middleware())

	assessment := v1.Group("/jobs/:job_id/assessment")
	{
		// Candidate routes
		assessment.GET("/form", hm.submissionHandler.GetForm)
		assessment.POST("/validate", hm.submissionHandler.ValidateAnswers)
		assessment.POST("/submissions", hm.submissionHandler.Submit)

		admin := assessment.Group("", hm.base.RequireAdmin())

		// Builder routes
		admin.GET("", hm.assessmentHandler.GetAssessment)
		admin.PUT("", hm.assessmentHandler.SaveAssessment)
		admin.GET("/preview", hm.assessmentHandler.PreviewAssessment)
		admin.POST("/import", hm.assessmentHandler.ImportAssessment)
		admin.GET("/export", hm.assessmentHandler.ExportAssessment)
		admin.PUT("/title", hm.assessmentHandler.SetTitle)

		admin.POST("/sections", hm.assessmentHandler.AddSection)
		admin.PUT("/sections/:section_id", hm.assessmentHandler.RenameSection)
		admin.DELETE("/sections/:section_id", hm.assessmentHandler.RemoveSection)
		admin.POST("/sections/:section_id/questions", hm.assessmentHandler.AddQuestion)

		admin.PATCH("/questions/:question_id", hm.assessmentHandler.UpdateQuestion)
		admin.DELETE("/questions/:question_id", hm.assessmentHandler.RemoveQuestion)
		admin.POST("/questions/:question_id/move", hm.assessmentHandler.MoveQuestion)
		admin.POST("/questions/:question_id/options", hm.assessmentHandler.AddOption)
		admin.PUT("/questions/:question_id/options/:option_id", hm.assessmentHandler.UpdateOption)
		admin.DELETE("/questions/:question_id/options/:option_id", hm.assessmentHandler.RemoveOption)
		admin.PUT("/questions/:question_id/condition", hm.assessmentHandler.SetCondition)
		admin.DELETE("/questions/:question_id/condition", hm.assessmentHandler.ClearCondition)

		// Review routes
		admin.GET("/submissions", hm.submissionHandler.ListSubmissions)
		admin.GET("/submissions/stats", hm.submissionHandler.GetStats)
		admin.GET("/submissions/export", hm.submissionHandler.ExportSubmissions)
		admin.GET("/submissions/:submission_id", hm.submissionHandler.GetSubmission)
	}
}

// NewRouter builds the gin engine with the logging middleware.
func NewRouter(hm *HandlerManager, logger utils.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), utils.ContextLogger(logger), utils.LoggerMiddleware(logger))
	hm.SetupRoutes(router)
	return router
}

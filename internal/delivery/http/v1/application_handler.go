package v1

import (
	"net/http"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewApplicationHandler registers the applicant routes. Admin review lives in AdminHandler.
func NewApplicationHandler(protected *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	applications := protected.Group("/job-applications")
	{
		applications.POST("", handler.ApplyToJob)
		applications.GET("", handler.GetMyApplications)
	}
}

// ApplyToJobRequest is the request payload for applying to a job
type ApplyToJobRequest struct {
	JobID int64 `json:"jobId" binding:"required,gt=0"`
}

// ApplyToJob godoc
// @Summary      Apply to a job
// @Description  Submit an application for a job. The application starts as pending.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        body   body      ApplyToJobRequest  true  "Application data"
// @Success      201    {object}  domain.Application
// @Failure      400    {object}  response.ErrorBody
// @Failure      404    {object}  response.ErrorBody  "Job not found"
// @Router       /job-applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) ApplyToJob(c *gin.Context) {
	var req ApplyToJobRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.applicationUC.ApplyToJob(c.Request.Context(), currentUserID(c), req.JobID)
	if err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusCreated, app)
}

// GetMyApplications godoc
// @Summary      Get my applications
// @Description  Applications submitted by the caller, joined with job title, company and description
// @Tags         applications
// @Produce      json
// @Success      200  {array}   domain.Application
// @Failure      401  {object}  response.ErrorBody
// @Router       /job-applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetMyApplications(c *gin.Context) {
	applications, err := h.applicationUC.GetMyApplications(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, domain.NonNil(applications))
}

package v1

import (
	"net/http"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(public *gin.RouterGroup, protected *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	// Anyone may browse jobs
	public.GET("/jobs", handler.List)

	protectedJobs := protected.Group("/jobs")
	{
		protectedJobs.POST("", handler.Create)
		protectedJobs.PUT("/:id", handler.Update)
		protectedJobs.DELETE("/:id", handler.Delete)
	}
}

type JobRequest struct {
	Title           string  `json:"title"`
	Company         string  `json:"company"`
	Description     string  `json:"description"`
	Location        *string `json:"location"`
	SalaryMin       Number  `json:"salary_min" swaggertype:"number"`
	SalaryMax       Number  `json:"salary_max" swaggertype:"number"`
	SalaryCurrency  string  `json:"salary_currency"`
	JobType         *string `json:"job_type"`
	ExperienceLevel *string `json:"experience_level"`
	Requirements    *string `json:"requirements"`
	Benefits        *string `json:"benefits"`
}

func (r JobRequest) toDomain() *domain.Job {
	job := &domain.Job{
		Title:           r.Title,
		Company:         r.Company,
		Description:     r.Description,
		Location:        r.Location,
		SalaryMin:       r.SalaryMin.Value,
		SalaryMax:       r.SalaryMax.Value,
		SalaryCurrency:  r.SalaryCurrency,
		JobType:         r.JobType,
		ExperienceLevel: r.ExperienceLevel,
		Requirements:    r.Requirements,
		Benefits:        r.Benefits,
	}
	// A zero salary means "not specified"
	if job.SalaryMin != nil && *job.SalaryMin == 0 {
		job.SalaryMin = nil
	}
	if job.SalaryMax != nil && *job.SalaryMax == 0 {
		job.SalaryMax = nil
	}
	return job
}

// ListJobs godoc
// @Summary      List jobs
// @Description  All job postings, newest first
// @Tags         jobs
// @Produce      json
// @Success      200  {array}   domain.Job
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.jobUC.ListJobs(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, jobs)
}

// CreateJob godoc
// @Summary      Create a job
// @Description  Creates a job owned by the caller. salary_currency defaults to MYR.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      JobRequest  true  "Job JSON"
// @Success      201  {object}  domain.Job
// @Failure      400  {object}  response.ErrorBody
// @Failure      401  {object}  response.ErrorBody
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req JobRequest
	if !bindJSON(c, &req) {
		return
	}

	job := req.toDomain()
	if err := h.jobUC.CreateJob(c.Request.Context(), currentUserID(c), job); err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusCreated, job)
}

// UpdateJob godoc
// @Summary      Update a job
// @Description  Replaces every field of a job the caller owns
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id   path      int         true  "Job ID"
// @Param        job  body      JobRequest  true  "Job JSON"
// @Success      200  {object}  domain.Job
// @Failure      404  {object}  response.ErrorBody  "Job not found or unauthorized"
// @Router       /jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req JobRequest
	if !bindJSON(c, &req) {
		return
	}

	job := req.toDomain()
	job.ID = id
	if err := h.jobUC.UpdateJob(c.Request.Context(), currentUserID(c), job); err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, job)
}

// DeleteJob godoc
// @Summary      Delete a job
// @Description  Deletes a job the caller owns together with its applications
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.MessageBody
// @Failure      404  {object}  response.ErrorBody  "Job not found or unauthorized"
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.jobUC.DeleteJob(c.Request.Context(), id, currentUserID(c)); err != nil {
		c.Error(err)
		return
	}

	response.Message(c, http.StatusOK, "Job deleted successfully")
}

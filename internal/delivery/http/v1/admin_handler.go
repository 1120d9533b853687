package v1

import (
	"fmt"
	"net/http"
	"time"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	adminUC       domain.AdminUsecase
	applicationUC domain.ApplicationUsecase
}

func NewAdminHandler(protected *gin.RouterGroup, adminUC domain.AdminUsecase, applicationUC domain.ApplicationUsecase, adminOnly gin.HandlerFunc) {
	handler := &AdminHandler{adminUC: adminUC, applicationUC: applicationUC}

	admin := protected.Group("/admin", adminOnly)
	{
		// Application review
		admin.GET("/applications", handler.ListApplications)
		admin.PUT("/applications/:id/status", handler.UpdateApplicationStatus)

		// User roster
		admin.GET("/users", handler.ListUsers)
		admin.GET("/users/export", handler.ExportUsers)
	}
}

// UpdateStatusRequest is the request payload for updating application status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListApplications godoc
// @Summary      List all applications
// @Description  Every application joined with applicant email, full name and job title/company
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.AdminApplication
// @Failure      403  {object}  response.ErrorBody
// @Router       /admin/applications [get]
func (h *AdminHandler) ListApplications(c *gin.Context) {
	applications, err := h.applicationUC.ListAllApplications(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	rows := make([]domain.AdminApplication, 0, len(applications))
	for _, a := range applications {
		rows = append(rows, a.AdminView())
	}
	response.JSON(c, http.StatusOK, rows)
}

// UpdateApplicationStatus godoc
// @Summary      Update application status
// @Description  Sets the status to pending, accepted or rejected. Any transition is allowed.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Application ID"
// @Param        body  body      UpdateStatusRequest  true  "Status update"
// @Success      200   {object}  domain.Application
// @Failure      400   {object}  response.ErrorBody
// @Failure      404   {object}  response.ErrorBody
// @Router       /admin/applications/{id}/status [put]
func (h *AdminHandler) UpdateApplicationStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.applicationUC.UpdateApplicationStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, app)
}

// ListUsers godoc
// @Summary      List users with application stats
// @Description  Non-admin users, newest first, with profile summary and application counts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.UserSummary
// @Failure      403  {object}  response.ErrorBody
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminUC.ListUsers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, domain.NonNil(users))
}

// ExportUsers godoc
// @Summary      Export the user roster
// @Description  Same rows as /admin/users as an XLSX workbook
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    binary
// @Failure      403  {object}  response.ErrorBody
// @Router       /admin/users/export [get]
func (h *AdminHandler) ExportUsers(c *gin.Context) {
	data, err := h.adminUC.ExportUsers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	filename := fmt.Sprintf("users-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

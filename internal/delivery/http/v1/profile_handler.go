package v1

import (
	"net/http"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase, adminOnly gin.HandlerFunc) {
	handler := &ProfileHandler{profileUC: profileUC}

	profile := protected.Group("/profile")
	{
		profile.GET("/personal-info", handler.GetPersonalInfo)
		profile.POST("/personal-info", handler.SavePersonalInfo)
		profile.GET("/education", handler.GetEducation)
		profile.POST("/education", handler.SaveEducation)
		profile.GET("/employment-history", handler.GetEmploymentHistory)
		profile.POST("/employment-history", handler.SaveEmploymentHistory)
		profile.GET("/complete", handler.GetCompleteProfile)

		profile.GET("/:userId/profile", adminOnly, handler.GetUserProfile)
	}
}

// ============================================================================
// Request payloads
// ============================================================================

type PersonalInfoPayload struct {
	FullName             *string `json:"fullName"`
	IdentificationNumber *string `json:"identificationNumber"`
	DateOfBirth          *string `json:"dateOfBirth"`
	Gender               *string `json:"gender"`
	Nationality          *string `json:"nationality"`
	Race                 *string `json:"race"`
	MaritalStatus        *string `json:"maritalStatus"`
	ContactNumber        *string `json:"contactNumber"`
	CurrentAddress       *string `json:"currentAddress"`
	PermanentAddress     *string `json:"permanentAddress"`
	SameAsCurrentAddress bool    `json:"sameAsCurrentAddress"`
	ExpectedSalary       Number  `json:"expectedSalary" swaggertype:"number"`
	PreferredPosition    *string `json:"preferredPosition"`
}

type PersonalInfoRequest struct {
	PersonalInfo *PersonalInfoPayload `json:"personalInfo" binding:"required"`
}

type EducationPayload struct {
	HighestQualification     *string `json:"highestQualification"`
	FieldOfStudy             *string `json:"fieldOfStudy"`
	Institution              *string `json:"institution"`
	YearGraduated            Number  `json:"yearGraduated" swaggertype:"integer"`
	CGPA                     Number  `json:"cgpa" swaggertype:"number"`
	AdditionalCertifications *string `json:"additionalCertifications"`
}

type EducationRequest struct {
	Education *EducationPayload `json:"education" binding:"required"`
}

type ReferencePerson struct {
	Name     *string `json:"name"`
	Position *string `json:"position"`
	Contact  *string `json:"contact"`
}

type EmploymentPayload struct {
	CompanyName         *string          `json:"companyName"`
	Position            *string          `json:"position"`
	StartDate           *string          `json:"startDate"`
	EndDate             *string          `json:"endDate"`
	IsCurrentlyWorking  bool             `json:"isCurrentlyWorking"`
	KeyResponsibilities *string          `json:"keyResponsibilities"`
	ReasonForLeaving    *string          `json:"reasonForLeaving"`
	ReferencePerson     *ReferencePerson `json:"referencePerson"`
}

type EmploymentHistoryRequest struct {
	EmploymentHistory []EmploymentPayload `json:"employmentHistory" binding:"required"`
}

func (p *PersonalInfoPayload) toDomain() *domain.PersonalInfo {
	return &domain.PersonalInfo{
		FullName:             p.FullName,
		IdentificationNumber: p.IdentificationNumber,
		DateOfBirth:          optDate(p.DateOfBirth),
		Gender:               p.Gender,
		Nationality:          p.Nationality,
		Race:                 p.Race,
		MaritalStatus:        p.MaritalStatus,
		ContactNumber:        p.ContactNumber,
		CurrentAddress:       p.CurrentAddress,
		PermanentAddress:     p.PermanentAddress,
		SameAsCurrentAddress: p.SameAsCurrentAddress,
		ExpectedSalary:       p.ExpectedSalary.Value,
		PreferredPosition:    p.PreferredPosition,
	}
}

func (p *EducationPayload) toDomain() *domain.Education {
	return &domain.Education{
		HighestQualification:     p.HighestQualification,
		FieldOfStudy:             p.FieldOfStudy,
		Institution:              p.Institution,
		YearGraduated:            p.YearGraduated.Int(),
		CGPA:                     p.CGPA.Value,
		AdditionalCertifications: p.AdditionalCertifications,
	}
}

func (p EmploymentPayload) toDomain() domain.EmploymentHistory {
	item := domain.EmploymentHistory{
		CompanyName:         p.CompanyName,
		Position:            p.Position,
		StartDate:           optDate(p.StartDate),
		EndDate:             optDate(p.EndDate),
		IsCurrentlyWorking:  p.IsCurrentlyWorking,
		KeyResponsibilities: p.KeyResponsibilities,
		ReasonForLeaving:    p.ReasonForLeaving,
	}
	if ref := p.ReferencePerson; ref != nil {
		item.ReferenceName = ref.Name
		item.ReferencePosition = ref.Position
		item.ReferenceContact = ref.Contact
	}
	return item
}

// ============================================================================
// Personal info
// ============================================================================

// GetPersonalInfo godoc
// @Summary      Get personal info
// @Description  Returns the caller's personal info, or {} when none has been saved
// @Tags         profile
// @Produce      json
// @Success      200  {object}  domain.PersonalInfo
// @Router       /profile/personal-info [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetPersonalInfo(c *gin.Context) {
	info, err := h.profileUC.GetPersonalInfo(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, domain.EmptyIfNil(info))
}

// SavePersonalInfo godoc
// @Summary      Save personal info
// @Description  Inserts or fully replaces the caller's personal info
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request  body      PersonalInfoRequest  true  "Personal info"
// @Success      200      {object}  domain.PersonalInfo
// @Failure      400      {object}  response.ErrorBody
// @Router       /profile/personal-info [post]
// @Security     BearerAuth
func (h *ProfileHandler) SavePersonalInfo(c *gin.Context) {
	var req PersonalInfoRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.profileUC.SavePersonalInfo(c.Request.Context(), currentUserID(c), req.PersonalInfo.toDomain())
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, info)
}

// ============================================================================
// Education
// ============================================================================

// GetEducation godoc
// @Summary      Get education
// @Tags         profile
// @Produce      json
// @Success      200  {object}  domain.Education
// @Router       /profile/education [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetEducation(c *gin.Context) {
	edu, err := h.profileUC.GetEducation(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, domain.EmptyIfNil(edu))
}

// SaveEducation godoc
// @Summary      Save education
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request  body      EducationRequest  true  "Education"
// @Success      200      {object}  domain.Education
// @Failure      400      {object}  response.ErrorBody
// @Router       /profile/education [post]
// @Security     BearerAuth
func (h *ProfileHandler) SaveEducation(c *gin.Context) {
	var req EducationRequest
	if !bindJSON(c, &req) {
		return
	}

	edu, err := h.profileUC.SaveEducation(c.Request.Context(), currentUserID(c), req.Education.toDomain())
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, edu)
}

// ============================================================================
// Employment history
// ============================================================================

// GetEmploymentHistory godoc
// @Summary      Get employment history
// @Tags         profile
// @Produce      json
// @Success      200  {array}   domain.EmploymentHistory
// @Router       /profile/employment-history [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetEmploymentHistory(c *gin.Context) {
	items, err := h.profileUC.GetEmploymentHistory(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, domain.NonNil(items))
}

// SaveEmploymentHistory godoc
// @Summary      Replace employment history
// @Description  Deletes every existing entry and inserts the given list. An empty list clears the history.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request  body      EmploymentHistoryRequest  true  "Employment history"
// @Success      200      {array}   domain.EmploymentHistory
// @Failure      400      {object}  response.ErrorBody
// @Router       /profile/employment-history [post]
// @Security     BearerAuth
func (h *ProfileHandler) SaveEmploymentHistory(c *gin.Context) {
	var req EmploymentHistoryRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]domain.EmploymentHistory, 0, len(req.EmploymentHistory))
	for _, p := range req.EmploymentHistory {
		items = append(items, p.toDomain())
	}

	saved, err := h.profileUC.ReplaceEmploymentHistory(c.Request.Context(), currentUserID(c), items)
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, domain.NonNil(saved))
}

// ============================================================================
// Aggregate views
// ============================================================================

// GetCompleteProfile godoc
// @Summary      Get the caller's complete profile
// @Description  Every profile section in one document. Missing sections render as {} or [].
// @Tags         profile
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /profile/complete [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetCompleteProfile(c *gin.Context) {
	profile, err := h.profileUC.GetCompleteProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// GetUserProfile godoc
// @Summary      Get any user's complete profile (Admin only)
// @Description  Same shape as /profile/complete plus the user's documents
// @Tags         admin
// @Produce      json
// @Param        userId  path      int  true  "User ID"
// @Success      200     {object}  map[string]interface{}
// @Failure      403     {object}  response.ErrorBody
// @Failure      404     {object}  response.ErrorBody
// @Router       /profile/{userId}/profile [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetUserProfile(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	profile, err := h.profileUC.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

package v1

import (
	"net/http"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// SkillsHandler serves the profile sections mounted outside /profile.
type SkillsHandler struct {
	profileUC domain.ProfileUsecase
}

func NewSkillsHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &SkillsHandler{profileUC: profileUC}

	protected.GET("/skills", handler.GetSkills)
	protected.POST("/skills", handler.SaveSkills)
	protected.GET("/references", handler.GetReferences)
	protected.POST("/references", handler.SaveReferences)
	protected.GET("/declaration", handler.GetDeclaration)
	protected.POST("/declaration", handler.SaveDeclaration)
}

type LanguagePayload struct {
	Language    string  `json:"language"`
	Proficiency *string `json:"proficiency"`
}

type SkillsPayload struct {
	TechnicalSkills        []string          `json:"technicalSkills"`
	SoftSkills             []string          `json:"softSkills"`
	AdditionalCompetencies []string          `json:"additionalCompetencies"`
	Languages              []LanguagePayload `json:"languages"`
}

type SkillsRequest struct {
	Skills *SkillsPayload `json:"skills" binding:"required"`
}

type ReferencePayload struct {
	Name            *string `json:"name"`
	Relationship    *string `json:"relationship"`
	CompanyPosition *string `json:"companyPosition"`
	ContactNumber   *string `json:"contactNumber"`
	Email           *string `json:"email"`
}

type ReferencesRequest struct {
	References []ReferencePayload `json:"references" binding:"required"`
}

type DeclarationPayload struct {
	AgreeToTerms bool    `json:"agreeToTerms"`
	Signature    *string `json:"signature"`
	Date         *string `json:"date"`
}

type DeclarationRequest struct {
	Declaration *DeclarationPayload `json:"declaration" binding:"required"`
}

// GetSkills godoc
// @Summary      Get skills and languages
// @Description  Returns {skills, languages}; skills is {} when none has been saved
// @Tags         profile
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /skills [get]
// @Security     BearerAuth
func (h *SkillsHandler) GetSkills(c *gin.Context) {
	set, err := h.profileUC.GetSkills(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	if set == nil {
		set = &domain.SkillSet{}
	}
	response.JSON(c, http.StatusOK, set)
}

// SaveSkills godoc
// @Summary      Save skills and languages
// @Description  Upserts the skill tags and replaces the language list
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request  body      SkillsRequest  true  "Skills"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  response.ErrorBody
// @Router       /skills [post]
// @Security     BearerAuth
func (h *SkillsHandler) SaveSkills(c *gin.Context) {
	var req SkillsRequest
	if !bindJSON(c, &req) {
		return
	}

	skills := &domain.Skills{
		TechnicalSkills:        req.Skills.TechnicalSkills,
		SoftSkills:             req.Skills.SoftSkills,
		AdditionalCompetencies: req.Skills.AdditionalCompetencies,
	}
	languages := make([]domain.Language, 0, len(req.Skills.Languages))
	for _, l := range req.Skills.Languages {
		languages = append(languages, domain.Language{Language: l.Language, Proficiency: l.Proficiency})
	}

	set, err := h.profileUC.SaveSkills(c.Request.Context(), currentUserID(c), skills, languages)
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, set)
}

// GetReferences godoc
// @Summary      Get references
// @Tags         profile
// @Produce      json
// @Success      200  {array}   domain.Reference
// @Router       /references [get]
// @Security     BearerAuth
func (h *SkillsHandler) GetReferences(c *gin.Context) {
	refs, err := h.profileUC.GetReferences(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, domain.NonNil(refs))
}

// SaveReferences godoc
// @Summary      Replace references
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request  body      ReferencesRequest  true  "References"
// @Success      200      {array}   domain.Reference
// @Failure      400      {object}  response.ErrorBody
// @Router       /references [post]
// @Security     BearerAuth
func (h *SkillsHandler) SaveReferences(c *gin.Context) {
	var req ReferencesRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]domain.Reference, 0, len(req.References))
	for _, r := range req.References {
		items = append(items, domain.Reference{
			Name:            r.Name,
			Relationship:    r.Relationship,
			CompanyPosition: r.CompanyPosition,
			ContactNumber:   r.ContactNumber,
			Email:           r.Email,
		})
	}

	saved, err := h.profileUC.ReplaceReferences(c.Request.Context(), currentUserID(c), items)
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, domain.NonNil(saved))
}

// GetDeclaration godoc
// @Summary      Get declaration
// @Tags         profile
// @Produce      json
// @Success      200  {object}  domain.Declaration
// @Router       /declaration [get]
// @Security     BearerAuth
func (h *SkillsHandler) GetDeclaration(c *gin.Context) {
	decl, err := h.profileUC.GetDeclaration(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, domain.EmptyIfNil(decl))
}

// SaveDeclaration godoc
// @Summary      Save declaration
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request  body      DeclarationRequest  true  "Declaration"
// @Success      200      {object}  domain.Declaration
// @Failure      400      {object}  response.ErrorBody
// @Router       /declaration [post]
// @Security     BearerAuth
func (h *SkillsHandler) SaveDeclaration(c *gin.Context) {
	var req DeclarationRequest
	if !bindJSON(c, &req) {
		return
	}

	decl := &domain.Declaration{
		AgreeToTerms:    req.Declaration.AgreeToTerms,
		Signature:       req.Declaration.Signature,
		DeclarationDate: optDate(req.Declaration.Date),
	}

	saved, err := h.profileUC.SaveDeclaration(c.Request.Context(), currentUserID(c), decl)
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, saved)
}

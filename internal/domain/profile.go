package domain

import (
	"context"
	"encoding/json"
	"time"
)

// DateLayout is the wire and storage form of profile dates.
const DateLayout = "2006-01-02"

// EmptyIfNil renders an absent single-row section as {} instead of null.
func EmptyIfNil[T any](v *T) any {
	if v == nil {
		return struct{}{}
	}
	return v
}

// NonNil keeps absent collections rendering as [] instead of null.
func NonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type PersonalInfo struct {
	ID                   int64     `json:"id"`
	UserID               int64     `json:"user_id"`
	FullName             *string   `json:"full_name" validate:"omitempty,max=255,valid_name"`
	IdentificationNumber *string   `json:"identification_number" validate:"omitempty,max=50"`
	DateOfBirth          *string   `json:"date_of_birth" validate:"omitempty,date_only"`
	Gender               *string   `json:"gender" validate:"omitempty,max=20"`
	Nationality          *string   `json:"nationality" validate:"omitempty,max=100"`
	Race                 *string   `json:"race" validate:"omitempty,max=100"`
	MaritalStatus        *string   `json:"marital_status" validate:"omitempty,max=50"`
	ContactNumber        *string   `json:"contact_number" validate:"omitempty,valid_phone"`
	CurrentAddress       *string   `json:"current_address" validate:"omitempty,max=1000,no_emoji"`
	PermanentAddress     *string   `json:"permanent_address" validate:"omitempty,max=1000,no_emoji"`
	SameAsCurrentAddress bool      `json:"same_as_current_address"`
	ExpectedSalary       *float64  `json:"expected_salary" validate:"omitempty,gte=0"`
	PreferredPosition    *string   `json:"preferred_position" validate:"omitempty,max=255"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type Education struct {
	ID                       int64     `json:"id"`
	UserID                   int64     `json:"user_id"`
	HighestQualification     *string   `json:"highest_qualification" validate:"omitempty,max=255"`
	FieldOfStudy             *string   `json:"field_of_study" validate:"omitempty,max=255"`
	Institution              *string   `json:"institution" validate:"omitempty,max=255"`
	YearGraduated            *int      `json:"year_graduated" validate:"omitempty,gte=1900,max_current_year"`
	CGPA                     *float64  `json:"cgpa" validate:"omitempty,gte=0,lte=10"`
	AdditionalCertifications *string   `json:"additional_certifications" validate:"omitempty,max=5000"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

type EmploymentHistory struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"user_id"`
	CompanyName         *string   `json:"company_name" validate:"omitempty,max=255"`
	Position            *string   `json:"position" validate:"omitempty,max=255"`
	StartDate           *string   `json:"start_date" validate:"omitempty,date_only"`
	EndDate             *string   `json:"end_date" validate:"omitempty,date_only"`
	IsCurrentlyWorking  bool      `json:"is_currently_working"`
	KeyResponsibilities *string   `json:"key_responsibilities" validate:"omitempty,max=5000"`
	ReasonForLeaving    *string   `json:"reason_for_leaving" validate:"omitempty,max=2000"`
	ReferenceName       *string   `json:"reference_name" validate:"omitempty,max=255"`
	ReferencePosition   *string   `json:"reference_position" validate:"omitempty,max=255"`
	ReferenceContact    *string   `json:"reference_contact" validate:"omitempty,max=255"`
	CreatedAt           time.Time `json:"created_at"`
}

type Skills struct {
	ID                     int64     `json:"id"`
	UserID                 int64     `json:"user_id"`
	TechnicalSkills        []string  `json:"technical_skills" validate:"max=100,dive,max=100"`
	SoftSkills             []string  `json:"soft_skills" validate:"max=100,dive,max=100"`
	AdditionalCompetencies []string  `json:"additional_competencies" validate:"max=100,dive,max=255"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

type Language struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Language    string    `json:"language" validate:"required,max=100"`
	Proficiency *string   `json:"proficiency" validate:"omitempty,max=50"`
	CreatedAt   time.Time `json:"created_at"`
}

// SkillSet is the skills row together with the user's languages.
type SkillSet struct {
	Skills    *Skills
	Languages []Language
}

func (s SkillSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Skills    any        `json:"skills"`
		Languages []Language `json:"languages"`
	}{EmptyIfNil(s.Skills), NonNil(s.Languages)})
}

type Reference struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Name            *string   `json:"name" validate:"omitempty,max=255"`
	Relationship    *string   `json:"relationship" validate:"omitempty,max=100"`
	CompanyPosition *string   `json:"company_position" validate:"omitempty,max=255"`
	ContactNumber   *string   `json:"contact_number" validate:"omitempty,valid_phone"`
	Email           *string   `json:"email" validate:"omitempty,email,max=255"`
	CreatedAt       time.Time `json:"created_at"`
}

type Declaration struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	AgreeToTerms    bool      `json:"agree_to_terms"`
	Signature       *string   `json:"signature" validate:"omitempty,max=255"`
	DeclarationDate *string   `json:"declaration_date" validate:"omitempty,date_only"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CompleteProfile is the read-only aggregate of every profile section.
// Documents are only rendered when IncludeDocuments is set (admin view).
type CompleteProfile struct {
	PersonalInfo      *PersonalInfo
	Education         *Education
	EmploymentHistory []EmploymentHistory
	Skills            *Skills
	Languages         []Language
	References        []Reference
	Declaration       *Declaration

	IncludeDocuments bool
	Documents        []Document
}

func (p CompleteProfile) MarshalJSON() ([]byte, error) {
	// A nil embedded pointer is skipped, so absent skills still yield {"languages": []}.
	type skillsView struct {
		*Skills
		Languages []Language `json:"languages"`
	}

	out := map[string]any{
		"personalInfo":      EmptyIfNil(p.PersonalInfo),
		"education":         EmptyIfNil(p.Education),
		"employmentHistory": NonNil(p.EmploymentHistory),
		"skills":            skillsView{Skills: p.Skills, Languages: NonNil(p.Languages)},
		"references":        NonNil(p.References),
		"declaration":       EmptyIfNil(p.Declaration),
	}
	if p.IncludeDocuments {
		out["documents"] = NonNil(p.Documents)
	}
	return json.Marshal(out)
}

type ProfileRepository interface {
	// Single-row sections return nil, nil when the user has not saved them yet.
	GetPersonalInfo(ctx context.Context, userID int64) (*PersonalInfo, error)
	UpsertPersonalInfo(ctx context.Context, info *PersonalInfo) error
	GetEducation(ctx context.Context, userID int64) (*Education, error)
	UpsertEducation(ctx context.Context, edu *Education) error
	GetDeclaration(ctx context.Context, userID int64) (*Declaration, error)
	UpsertDeclaration(ctx context.Context, decl *Declaration) error

	GetEmploymentHistory(ctx context.Context, userID int64) ([]EmploymentHistory, error)
	// ReplaceEmploymentHistory deletes and reinserts the collection in one transaction.
	ReplaceEmploymentHistory(ctx context.Context, userID int64, items []EmploymentHistory) ([]EmploymentHistory, error)
	GetReferences(ctx context.Context, userID int64) ([]Reference, error)
	ReplaceReferences(ctx context.Context, userID int64, items []Reference) ([]Reference, error)

	GetSkills(ctx context.Context, userID int64) (*SkillSet, error)
	// SaveSkills upserts the skills row and replaces the languages in one transaction.
	SaveSkills(ctx context.Context, userID int64, skills *Skills, languages []Language) (*SkillSet, error)

	// GetCompleteProfile reads every section from a single snapshot.
	GetCompleteProfile(ctx context.Context, userID int64) (*CompleteProfile, error)
}

type ProfileUsecase interface {
	GetPersonalInfo(ctx context.Context, userID int64) (*PersonalInfo, error)
	SavePersonalInfo(ctx context.Context, userID int64, info *PersonalInfo) (*PersonalInfo, error)
	GetEducation(ctx context.Context, userID int64) (*Education, error)
	SaveEducation(ctx context.Context, userID int64, edu *Education) (*Education, error)
	GetDeclaration(ctx context.Context, userID int64) (*Declaration, error)
	SaveDeclaration(ctx context.Context, userID int64, decl *Declaration) (*Declaration, error)

	GetEmploymentHistory(ctx context.Context, userID int64) ([]EmploymentHistory, error)
	ReplaceEmploymentHistory(ctx context.Context, userID int64, items []EmploymentHistory) ([]EmploymentHistory, error)
	GetReferences(ctx context.Context, userID int64) ([]Reference, error)
	ReplaceReferences(ctx context.Context, userID int64, items []Reference) ([]Reference, error)

	GetSkills(ctx context.Context, userID int64) (*SkillSet, error)
	SaveSkills(ctx context.Context, userID int64, skills *Skills, languages []Language) (*SkillSet, error)

	GetCompleteProfile(ctx context.Context, userID int64) (*CompleteProfile, error)
	// GetUserProfile is the admin view of any user, documents included.
	GetUserProfile(ctx context.Context, userID int64) (*CompleteProfile, error)
}

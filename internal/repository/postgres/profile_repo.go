package postgres

import (
	"context"
	"fmt"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/database"

	"github.com/lib/pq"
)

// Dates are read back as YYYY-MM-DD text and written through a text cast,
// so the API never sees a time zone shifted timestamp.

type profileRepo struct {
	db database.Pool
}

func NewProfileRepository(db database.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

// Personal info

const personalInfoColumns = `id, user_id, full_name, identification_number, to_char(date_of_birth, 'YYYY-MM-DD'),
	gender, nationality, race, marital_status, contact_number, current_address, permanent_address,
	same_as_current_address, expected_salary, preferred_position, created_at, updated_at`

func scanPersonalInfo(row interface{ Scan(dest ...any) error }, p *domain.PersonalInfo) error {
	return row.Scan(
		&p.ID, &p.UserID, &p.FullName, &p.IdentificationNumber, &p.DateOfBirth,
		&p.Gender, &p.Nationality, &p.Race, &p.MaritalStatus, &p.ContactNumber,
		&p.CurrentAddress, &p.PermanentAddress, &p.SameAsCurrentAddress,
		&p.ExpectedSalary, &p.PreferredPosition, &p.CreatedAt, &p.UpdatedAt,
	)
}

func getPersonalInfo(ctx context.Context, q database.DB, userID int64) (*domain.PersonalInfo, error) {
	var p domain.PersonalInfo
	err := scanPersonalInfo(q.QueryRow(ctx, `SELECT `+personalInfoColumns+` FROM personal_info WHERE user_id = $1`, userID), &p)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get personal info: %w", err)
	}
	return &p, nil
}

func (r *profileRepo) GetPersonalInfo(ctx context.Context, userID int64) (*domain.PersonalInfo, error) {
	return getPersonalInfo(ctx, r.db, userID)
}

func (r *profileRepo) UpsertPersonalInfo(ctx context.Context, p *domain.PersonalInfo) error {
	query := `
		INSERT INTO personal_info (user_id, full_name, identification_number, date_of_birth, gender,
		    nationality, race, marital_status, contact_number, current_address, permanent_address,
		    same_as_current_address, expected_salary, preferred_position)
		VALUES ($1, $2, $3, $4::text::date, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id) DO UPDATE SET
		    full_name = EXCLUDED.full_name,
		    identification_number = EXCLUDED.identification_number,
		    date_of_birth = EXCLUDED.date_of_birth,
		    gender = EXCLUDED.gender,
		    nationality = EXCLUDED.nationality,
		    race = EXCLUDED.race,
		    marital_status = EXCLUDED.marital_status,
		    contact_number = EXCLUDED.contact_number,
		    current_address = EXCLUDED.current_address,
		    permanent_address = EXCLUDED.permanent_address,
		    same_as_current_address = EXCLUDED.same_as_current_address,
		    expected_salary = EXCLUDED.expected_salary,
		    preferred_position = EXCLUDED.preferred_position,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING ` + personalInfoColumns

	row := r.db.QueryRow(ctx, query,
		p.UserID, p.FullName, p.IdentificationNumber, p.DateOfBirth, p.Gender,
		p.Nationality, p.Race, p.MaritalStatus, p.ContactNumber, p.CurrentAddress, p.PermanentAddress,
		p.SameAsCurrentAddress, p.ExpectedSalary, p.PreferredPosition,
	)
	if err := scanPersonalInfo(row, p); err != nil {
		return fmt.Errorf("upsert personal info: %w", err)
	}
	return nil
}

// Education

const educationColumns = `id, user_id, highest_qualification, field_of_study, institution, year_graduated,
	cgpa, additional_certifications, created_at, updated_at`

func scanEducation(row interface{ Scan(dest ...any) error }, e *domain.Education) error {
	return row.Scan(
		&e.ID, &e.UserID, &e.HighestQualification, &e.FieldOfStudy, &e.Institution,
		&e.YearGraduated, &e.CGPA, &e.AdditionalCertifications, &e.CreatedAt, &e.UpdatedAt,
	)
}

func getEducation(ctx context.Context, q database.DB, userID int64) (*domain.Education, error) {
	var e domain.Education
	err := scanEducation(q.QueryRow(ctx, `SELECT `+educationColumns+` FROM education WHERE user_id = $1`, userID), &e)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get education: %w", err)
	}
	return &e, nil
}

func (r *profileRepo) GetEducation(ctx context.Context, userID int64) (*domain.Education, error) {
	return getEducation(ctx, r.db, userID)
}

func (r *profileRepo) UpsertEducation(ctx context.Context, e *domain.Education) error {
	query := `
		INSERT INTO education (user_id, highest_qualification, field_of_study, institution,
		    year_graduated, cgpa, additional_certifications)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
		    highest_qualification = EXCLUDED.highest_qualification,
		    field_of_study = EXCLUDED.field_of_study,
		    institution = EXCLUDED.institution,
		    year_graduated = EXCLUDED.year_graduated,
		    cgpa = EXCLUDED.cgpa,
		    additional_certifications = EXCLUDED.additional_certifications,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING ` + educationColumns

	row := r.db.QueryRow(ctx, query,
		e.UserID, e.HighestQualification, e.FieldOfStudy, e.Institution,
		e.YearGraduated, e.CGPA, e.AdditionalCertifications,
	)
	if err := scanEducation(row, e); err != nil {
		return fmt.Errorf("upsert education: %w", err)
	}
	return nil
}

// Declaration

const declarationColumns = `id, user_id, agree_to_terms, signature, to_char(declaration_date, 'YYYY-MM-DD'),
	created_at, updated_at`

func scanDeclaration(row interface{ Scan(dest ...any) error }, d *domain.Declaration) error {
	return row.Scan(&d.ID, &d.UserID, &d.AgreeToTerms, &d.Signature, &d.DeclarationDate, &d.CreatedAt, &d.UpdatedAt)
}

func getDeclaration(ctx context.Context, q database.DB, userID int64) (*domain.Declaration, error) {
	var d domain.Declaration
	err := scanDeclaration(q.QueryRow(ctx, `SELECT `+declarationColumns+` FROM declarations WHERE user_id = $1`, userID), &d)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get declaration: %w", err)
	}
	return &d, nil
}

func (r *profileRepo) GetDeclaration(ctx context.Context, userID int64) (*domain.Declaration, error) {
	return getDeclaration(ctx, r.db, userID)
}

func (r *profileRepo) UpsertDeclaration(ctx context.Context, d *domain.Declaration) error {
	query := `
		INSERT INTO declarations (user_id, agree_to_terms, signature, declaration_date)
		VALUES ($1, $2, $3, $4::text::date)
		ON CONFLICT (user_id) DO UPDATE SET
		    agree_to_terms = EXCLUDED.agree_to_terms,
		    signature = EXCLUDED.signature,
		    declaration_date = EXCLUDED.declaration_date,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING ` + declarationColumns

	row := r.db.QueryRow(ctx, query, d.UserID, d.AgreeToTerms, d.Signature, d.DeclarationDate)
	if err := scanDeclaration(row, d); err != nil {
		return fmt.Errorf("upsert declaration: %w", err)
	}
	return nil
}

// Employment history

const employmentColumns = `id, user_id, company_name, position, to_char(start_date, 'YYYY-MM-DD'),
	to_char(end_date, 'YYYY-MM-DD'), is_currently_working, key_responsibilities, reason_for_leaving,
	reference_name, reference_position, reference_contact, created_at`

func scanEmployment(row interface{ Scan(dest ...any) error }, e *domain.EmploymentHistory) error {
	return row.Scan(
		&e.ID, &e.UserID, &e.CompanyName, &e.Position, &e.StartDate, &e.EndDate,
		&e.IsCurrentlyWorking, &e.KeyResponsibilities, &e.ReasonForLeaving,
		&e.ReferenceName, &e.ReferencePosition, &e.ReferenceContact, &e.CreatedAt,
	)
}

func getEmploymentHistory(ctx context.Context, q database.DB, userID int64) ([]domain.EmploymentHistory, error) {
	rows, err := q.Query(ctx, `SELECT `+employmentColumns+`
		FROM employment_history WHERE user_id = $1 ORDER BY start_date DESC NULLS LAST, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("get employment history: %w", err)
	}
	defer rows.Close()

	items := []domain.EmploymentHistory{}
	for rows.Next() {
		var e domain.EmploymentHistory
		if err := scanEmployment(rows, &e); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *profileRepo) GetEmploymentHistory(ctx context.Context, userID int64) ([]domain.EmploymentHistory, error) {
	return getEmploymentHistory(ctx, r.db, userID)
}

func (r *profileRepo) ReplaceEmploymentHistory(ctx context.Context, userID int64, items []domain.EmploymentHistory) ([]domain.EmploymentHistory, error) {
	saved := make([]domain.EmploymentHistory, 0, len(items))
	err := database.WithTx(ctx, r.db, func(ctx context.Context, tx database.DB) error {
		if _, err := tx.Exec(ctx, `DELETE FROM employment_history WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clear employment history: %w", err)
		}

		query := `
			INSERT INTO employment_history (user_id, company_name, position, start_date, end_date,
			    is_currently_working, key_responsibilities, reason_for_leaving,
			    reference_name, reference_position, reference_contact)
			VALUES ($1, $2, $3, $4::text::date, $5::text::date, $6, $7, $8, $9, $10, $11)
			RETURNING ` + employmentColumns
		for _, item := range items {
			e := item
			row := tx.QueryRow(ctx, query,
				userID, e.CompanyName, e.Position, e.StartDate, e.EndDate,
				e.IsCurrentlyWorking, e.KeyResponsibilities, e.ReasonForLeaving,
				e.ReferenceName, e.ReferencePosition, e.ReferenceContact,
			)
			if err := scanEmployment(row, &e); err != nil {
				return fmt.Errorf("insert employment history: %w", err)
			}
			saved = append(saved, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// References

const referenceColumns = `id, user_id, name, relationship, company_position, contact_number, email, created_at`

func scanReference(row interface{ Scan(dest ...any) error }, ref *domain.Reference) error {
	return row.Scan(
		&ref.ID, &ref.UserID, &ref.Name, &ref.Relationship, &ref.CompanyPosition,
		&ref.ContactNumber, &ref.Email, &ref.CreatedAt,
	)
}

func getReferences(ctx context.Context, q database.DB, userID int64) ([]domain.Reference, error) {
	rows, err := q.Query(ctx, `SELECT `+referenceColumns+` FROM user_references WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("get references: %w", err)
	}
	defer rows.Close()

	refs := []domain.Reference{}
	for rows.Next() {
		var ref domain.Reference
		if err := scanReference(rows, &ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *profileRepo) GetReferences(ctx context.Context, userID int64) ([]domain.Reference, error) {
	return getReferences(ctx, r.db, userID)
}

func (r *profileRepo) ReplaceReferences(ctx context.Context, userID int64, items []domain.Reference) ([]domain.Reference, error) {
	saved := make([]domain.Reference, 0, len(items))
	err := database.WithTx(ctx, r.db, func(ctx context.Context, tx database.DB) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_references WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clear references: %w", err)
		}

		query := `
			INSERT INTO user_references (user_id, name, relationship, company_position, contact_number, email)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING ` + referenceColumns
		for _, item := range items {
			ref := item
			row := tx.QueryRow(ctx, query, userID, ref.Name, ref.Relationship, ref.CompanyPosition, ref.ContactNumber, ref.Email)
			if err := scanReference(row, &ref); err != nil {
				return fmt.Errorf("insert reference: %w", err)
			}
			saved = append(saved, ref)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Skills and languages

const skillsColumns = `id, user_id, technical_skills, soft_skills, additional_competencies, created_at, updated_at`

// pgx decodes text[] into []string itself. pq.Array is only used for
// parameters.
func scanSkills(row interface{ Scan(dest ...any) error }, s *domain.Skills) error {
	if err := row.Scan(
		&s.ID, &s.UserID,
		&s.TechnicalSkills, &s.SoftSkills, &s.AdditionalCompetencies,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return err
	}
	s.TechnicalSkills = nonNilStrings(s.TechnicalSkills)
	s.SoftSkills = nonNilStrings(s.SoftSkills)
	s.AdditionalCompetencies = nonNilStrings(s.AdditionalCompetencies)
	return nil
}

const languageColumns = `id, user_id, language, proficiency, created_at`

func scanLanguage(row interface{ Scan(dest ...any) error }, l *domain.Language) error {
	return row.Scan(&l.ID, &l.UserID, &l.Language, &l.Proficiency, &l.CreatedAt)
}

func getSkills(ctx context.Context, q database.DB, userID int64) (*domain.Skills, error) {
	var s domain.Skills
	err := scanSkills(q.QueryRow(ctx, `SELECT `+skillsColumns+` FROM user_skills WHERE user_id = $1`, userID), &s)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get skills: %w", err)
	}
	return &s, nil
}

func getLanguages(ctx context.Context, q database.DB, userID int64) ([]domain.Language, error) {
	rows, err := q.Query(ctx, `SELECT `+languageColumns+` FROM user_languages WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("get languages: %w", err)
	}
	defer rows.Close()

	langs := []domain.Language{}
	for rows.Next() {
		var l domain.Language
		if err := scanLanguage(rows, &l); err != nil {
			return nil, err
		}
		langs = append(langs, l)
	}
	return langs, rows.Err()
}

func (r *profileRepo) GetSkills(ctx context.Context, userID int64) (*domain.SkillSet, error) {
	skills, err := getSkills(ctx, r.db, userID)
	if err != nil {
		return nil, err
	}
	langs, err := getLanguages(ctx, r.db, userID)
	if err != nil {
		return nil, err
	}
	return &domain.SkillSet{Skills: skills, Languages: langs}, nil
}

func (r *profileRepo) SaveSkills(ctx context.Context, userID int64, skills *domain.Skills, languages []domain.Language) (*domain.SkillSet, error) {
	set := &domain.SkillSet{Skills: &domain.Skills{}, Languages: make([]domain.Language, 0, len(languages))}
	err := database.WithTx(ctx, r.db, func(ctx context.Context, tx database.DB) error {
		query := `
			INSERT INTO user_skills (user_id, technical_skills, soft_skills, additional_competencies)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id) DO UPDATE SET
			    technical_skills = EXCLUDED.technical_skills,
			    soft_skills = EXCLUDED.soft_skills,
			    additional_competencies = EXCLUDED.additional_competencies,
			    updated_at = CURRENT_TIMESTAMP
			RETURNING ` + skillsColumns
		row := tx.QueryRow(ctx, query, userID,
			pq.Array(nonNilStrings(skills.TechnicalSkills)),
			pq.Array(nonNilStrings(skills.SoftSkills)),
			pq.Array(nonNilStrings(skills.AdditionalCompetencies)),
		)
		if err := scanSkills(row, set.Skills); err != nil {
			return fmt.Errorf("upsert skills: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM user_languages WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clear languages: %w", err)
		}
		for _, item := range languages {
			l := item
			row := tx.QueryRow(ctx,
				`INSERT INTO user_languages (user_id, language, proficiency) VALUES ($1, $2, $3) RETURNING `+languageColumns,
				userID, l.Language, l.Proficiency,
			)
			if err := scanLanguage(row, &l); err != nil {
				return fmt.Errorf("insert language: %w", err)
			}
			set.Languages = append(set.Languages, l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Aggregate

func (r *profileRepo) GetCompleteProfile(ctx context.Context, userID int64) (*domain.CompleteProfile, error) {
	profile := &domain.CompleteProfile{}
	err := database.WithReadTx(ctx, r.db, func(ctx context.Context, tx database.DB) error {
		var err error
		if profile.PersonalInfo, err = getPersonalInfo(ctx, tx, userID); err != nil {
			return err
		}
		if profile.Education, err = getEducation(ctx, tx, userID); err != nil {
			return err
		}
		if profile.EmploymentHistory, err = getEmploymentHistory(ctx, tx, userID); err != nil {
			return err
		}
		if profile.Skills, err = getSkills(ctx, tx, userID); err != nil {
			return err
		}
		if profile.Languages, err = getLanguages(ctx, tx, userID); err != nil {
			return err
		}
		if profile.References, err = getReferences(ctx, tx, userID); err != nil {
			return err
		}
		profile.Declaration, err = getDeclaration(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/SanketZore/Job-Portal-CyberNX/internal/model"
)

// applicationJoinQuery は応募・求人・雇用者・応募者を結合するSELECT句。
// 求人と雇用者はLEFT JOIN（求人削除後の応募を許容）、応募者はINNER JOIN
// （applicant_idにはFK制約があり必ず存在する）。
const applicationJoinQuery = `
	SELECT a.id, a.job_id, a.applicant_id, a.status, a.cover_letter, a.resume_url,
	       a.created_at, a.updated_at,
	       j.id, j.title, j.company, j.location, j.type, j.description, j.requirements,
	       j.salary_min, j.salary_max, j.salary_currency, j.employer_id, j.status,
	       j.created_at, j.updated_at,
	       e.id, e.name, e.company,
	       ap.id, ap.name, ap.email
	FROM applications a
	LEFT JOIN jobs j ON a.job_id = j.id
	LEFT JOIN users e ON j.employer_id = e.id
	JOIN users ap ON a.applicant_id = ap.id`

// PostgresApplicationRepo はPostgreSQLを使用した応募リポジトリ。
type PostgresApplicationRepo struct {
	db *sql.DB
}

// NewPostgresApplicationRepo はPostgresApplicationRepoを生成する。
func NewPostgresApplicationRepo(db *sql.DB) *PostgresApplicationRepo {
	return &PostgresApplicationRepo{db: db}
}

// Create は応募を作成する。
// (job_id, applicant_id)の一意制約違反はErrDuplicateApplicationにマッピングする。
// 存在チェックと挿入を分けず、一意制約付き挿入1回で行うことで同時応募の
// レースを排除する。
func (r *PostgresApplicationRepo) Create(ctx context.Context, app *model.Application) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO applications (id, job_id, applicant_id, status, cover_letter, resume_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		app.ID, app.JobID, app.ApplicantID, app.Status,
		app.CoverLetter, app.ResumeURL, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "applications_job_applicant_unique") {
			return ErrDuplicateApplication
		}
		return fmt.Errorf("failed to insert application: %w", err)
	}
	return nil
}

// FindByID は指定IDの応募を取得する。見つからない場合はnilを返す。
func (r *PostgresApplicationRepo) FindByID(ctx context.Context, id string) (*model.Application, error) {
	app := &model.Application{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, job_id, applicant_id, status, cover_letter, resume_url, created_at, updated_at
		 FROM applications WHERE id = $1`,
		id,
	).Scan(&app.ID, &app.JobID, &app.ApplicantID, &app.Status,
		&app.CoverLetter, &app.ResumeURL, &app.CreatedAt, &app.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find application by ID: %w", err)
	}

	return app, nil
}

// FindByIDJoined は指定IDの応募を求人・雇用者・応募者情報付きで取得する。
// 見つからない場合はnilを返す。
func (r *PostgresApplicationRepo) FindByIDJoined(ctx context.Context, id string) (*ApplicationJoinRow, error) {
	row := r.db.QueryRowContext(ctx, applicationJoinQuery+` WHERE a.id = $1`, id)

	joined, err := scanApplicationJoinRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find joined application: %w", err)
	}
	return joined, nil
}

// ListByJob は指定求人への応募を応募者情報付きで新しい順に返す。
func (r *PostgresApplicationRepo) ListByJob(ctx context.Context, jobID string) ([]ApplicationJoinRow, error) {
	return r.queryJoinRows(ctx,
		applicationJoinQuery+` WHERE a.job_id = $1 ORDER BY a.created_at DESC`,
		jobID)
}

// ListByApplicant は指定応募者の応募を求人・雇用者情報付きで新しい順に返す。
// 求人が削除済みの行も返す（Jobがnil）。除外は呼び出し側の方針に委ねる。
func (r *PostgresApplicationRepo) ListByApplicant(ctx context.Context, applicantID string) ([]ApplicationJoinRow, error) {
	return r.queryJoinRows(ctx,
		applicationJoinQuery+` WHERE a.applicant_id = $1 ORDER BY a.created_at DESC`,
		applicantID)
}

// ListByJobIDs は指定求人ID群への応募を結合情報付きで新しい順に返す。
func (r *PostgresApplicationRepo) ListByJobIDs(ctx context.Context, jobIDs []string) ([]ApplicationJoinRow, error) {
	if len(jobIDs) == 0 {
		return nil, nil
	}
	return r.queryJoinRows(ctx,
		applicationJoinQuery+` WHERE a.job_id = ANY($1) ORDER BY a.created_at DESC`,
		pq.Array(jobIDs))
}

// UpdateStatus は応募の選考状態を更新する。更新した場合はtrueを返す。
func (r *PostgresApplicationRepo) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE applications SET status = $2, updated_at = now() WHERE id = $1`,
		id, status)
	if err != nil {
		return false, fmt.Errorf("failed to update application status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteOwned は指定IDかつ指定応募者が所有する応募を削除する。
// 存在しない場合と所有者が異なる場合を区別せずfalseを返す。
func (r *PostgresApplicationRepo) DeleteOwned(ctx context.Context, id, applicantID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM applications WHERE id = $1 AND applicant_id = $2`,
		id, applicantID)
	if err != nil {
		return false, fmt.Errorf("failed to delete application: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// queryJoinRows は結合クエリを実行しApplicationJoinRowのスライスを返す。
func (r *PostgresApplicationRepo) queryJoinRows(ctx context.Context, query string, args ...any) ([]ApplicationJoinRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	var results []ApplicationJoinRow
	for rows.Next() {
		joined, err := scanApplicationJoinRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		results = append(results, *joined)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}

	return results, nil
}

// scanApplicationJoinRow は結合クエリの1行を読み取る。
// LEFT JOIN側の列はNULL許容でスキャンし、求人が存在する場合のみJobを構築する。
func scanApplicationJoinRow(row interface{ Scan(...any) error }) (*ApplicationJoinRow, error) {
	var (
		joined ApplicationJoinRow

		jobID, jobTitle, jobCompany, jobLocation, jobType  sql.NullString
		jobDescription, jobRequirements                    sql.NullString
		jobSalaryMin, jobSalaryMax                         sql.NullInt64
		jobSalaryCurrency, jobEmployerID, jobStatus        sql.NullString
		jobCreatedAt, jobUpdatedAt                         sql.NullTime
		employerID, employerName, employerCompany          sql.NullString
		applicantID, applicantName, applicantEmail         string
	)

	err := row.Scan(
		&joined.ID, &joined.JobID, &joined.ApplicantID, &joined.Status,
		&joined.CoverLetter, &joined.ResumeURL, &joined.CreatedAt, &joined.UpdatedAt,
		&jobID, &jobTitle, &jobCompany, &jobLocation, &jobType,
		&jobDescription, &jobRequirements,
		&jobSalaryMin, &jobSalaryMax, &jobSalaryCurrency, &jobEmployerID, &jobStatus,
		&jobCreatedAt, &jobUpdatedAt,
		&employerID, &employerName, &employerCompany,
		&applicantID, &applicantName, &applicantEmail,
	)
	if err != nil {
		return nil, err
	}

	if jobID.Valid {
		joined.Job = &model.Job{
			ID:           jobID.String,
			Title:        jobTitle.String,
			Company:      jobCompany.String,
			Location:     jobLocation.String,
			Type:         model.JobType(jobType.String),
			Description:  jobDescription.String,
			Requirements: jobRequirements.String,
			Salary: model.Salary{
				Min:      int(jobSalaryMin.Int64),
				Max:      int(jobSalaryMax.Int64),
				Currency: jobSalaryCurrency.String,
			},
			EmployerID: jobEmployerID.String,
			Status:     model.JobStatus(jobStatus.String),
			CreatedAt:  jobCreatedAt.Time,
			UpdatedAt:  jobUpdatedAt.Time,
		}
	}
	if employerID.Valid {
		joined.Employer = &model.EmployerSummary{
			ID:      employerID.String,
			Name:    employerName.String,
			Company: employerCompany.String,
		}
	}
	joined.Applicant = &model.ApplicantSummary{
		ID:    applicantID,
		Name:  applicantName,
		Email: applicantEmail,
	}

	return &joined, nil
}

// compile-time interface check
var _ ApplicationRepository = (*PostgresApplicationRepo)(nil)

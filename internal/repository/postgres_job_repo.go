package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/SanketZore/Job-Portal-CyberNX/internal/model"
)

// jobColumns はjobsテーブルのSELECT句。scanJobと列順を合わせること。
const jobColumns = `id, title, company, location, type, description, requirements,
	salary_min, salary_max, salary_currency, employer_id, status, created_at, updated_at`

// jobJoinColumns は雇用者要約付きのSELECT句。scanJobWithEmployerと列順を合わせること。
const jobJoinColumns = `j.id, j.title, j.company, j.location, j.type, j.description, j.requirements,
	j.salary_min, j.salary_max, j.salary_currency, j.employer_id, j.status, j.created_at, j.updated_at,
	u.name, u.company`

// PostgresJobRepo はPostgreSQLを使用した求人リポジトリ。
type PostgresJobRepo struct {
	db *sql.DB
}

// NewPostgresJobRepo はPostgresJobRepoを生成する。
func NewPostgresJobRepo(db *sql.DB) *PostgresJobRepo {
	return &PostgresJobRepo{db: db}
}

// scanJob は1行を読み取りJobを構築する。
func scanJob(row interface{ Scan(...any) error }) (*model.Job, error) {
	job := &model.Job{}
	err := row.Scan(&job.ID, &job.Title, &job.Company, &job.Location, &job.Type,
		&job.Description, &job.Requirements,
		&job.Salary.Min, &job.Salary.Max, &job.Salary.Currency,
		&job.EmployerID, &job.Status, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return job, nil
}

// scanJobWithEmployer は雇用者要約付きの1行を読み取りJobを構築する。
// 雇用者が消滅した行でも求人自体は返す（Employerはnil）。
func scanJobWithEmployer(row interface{ Scan(...any) error }) (*model.Job, error) {
	job := &model.Job{}
	var empName, empCompany sql.NullString
	err := row.Scan(&job.ID, &job.Title, &job.Company, &job.Location, &job.Type,
		&job.Description, &job.Requirements,
		&job.Salary.Min, &job.Salary.Max, &job.Salary.Currency,
		&job.EmployerID, &job.Status, &job.CreatedAt, &job.UpdatedAt,
		&empName, &empCompany)
	if err != nil {
		return nil, err
	}
	if empName.Valid {
		job.Employer = &model.EmployerSummary{
			ID:      job.EmployerID,
			Name:    empName.String,
			Company: empCompany.String,
		}
	}
	return job, nil
}

// FindByID は指定IDの求人を雇用者要約付きで取得する。見つからない場合はnilを返す。
func (r *PostgresJobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+jobJoinColumns+` FROM jobs j
		 LEFT JOIN users u ON u.id = j.employer_id
		 WHERE j.id = $1`, id)

	job, err := scanJobWithEmployer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find job by ID: %w", err)
	}
	return job, nil
}

// FindOwned は指定IDかつ指定雇用者が所有する求人を取得する。
// 存在しない場合と所有者が異なる場合を区別せずnilを返す。
func (r *PostgresJobRepo) FindOwned(ctx context.Context, id, employerID string) (*model.Job, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND employer_id = $2`,
		id, employerID)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find owned job: %w", err)
	}
	return job, nil
}

// List はフィルタ条件に合致する求人を雇用者要約付きで新しい順に返す。
// Searchはtitle/company/descriptionへの大文字小文字を区別しない部分一致、
// Locationも同様の部分一致、Statusは完全一致。
// usersテーブルにもcompany列があるため、条件は必ずj.で修飾する。
func (r *PostgresJobRepo) List(ctx context.Context, filter model.JobFilter) ([]*model.Job, error) {
	var conds []string
	var args []any

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		p := fmt.Sprintf("$%d", len(args))
		conds = append(conds, fmt.Sprintf(
			"(j.title ILIKE %s OR j.company ILIKE %s OR j.description ILIKE %s)", p, p, p))
	}
	if filter.Location != "" {
		args = append(args, "%"+filter.Location+"%")
		conds = append(conds, fmt.Sprintf("j.location ILIKE $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("j.status = $%d", len(args)))
	}

	query := `SELECT ` + jobJoinColumns + ` FROM jobs j
		 LEFT JOIN users u ON u.id = j.employer_id`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY j.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*model.Job
	for rows.Next() {
		job, err := scanJobWithEmployer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	return jobs, nil
}

// ListByEmployer は指定雇用者の求人を新しい順で返す。
func (r *PostgresJobRepo) ListByEmployer(ctx context.Context, employerID string) ([]*model.Job, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE employer_id = $1 ORDER BY created_at DESC`,
		employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs by employer: %w", err)
	}
	defer rows.Close()

	var jobs []*model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	return jobs, nil
}

// ListIDsByEmployer は指定雇用者が所有する求人IDの一覧を返す。
func (r *PostgresJobRepo) ListIDsByEmployer(ctx context.Context, employerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM jobs WHERE employer_id = $1`, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job IDs by employer: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan job ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job IDs: %w", err)
	}

	return ids, nil
}

// Create は求人を作成する。
func (r *PostgresJobRepo) Create(ctx context.Context, job *model.Job) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs (id, title, company, location, type, description, requirements,
		 salary_min, salary_max, salary_currency, employer_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		job.ID, job.Title, job.Company, job.Location, job.Type,
		job.Description, job.Requirements,
		job.Salary.Min, job.Salary.Max, job.Salary.Currency,
		job.EmployerID, job.Status, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// Update は求人を上書き更新する。
func (r *PostgresJobRepo) Update(ctx context.Context, job *model.Job) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE jobs
		 SET title = $2, company = $3, location = $4, type = $5, description = $6,
		     requirements = $7, salary_min = $8, salary_max = $9, salary_currency = $10,
		     status = $11, updated_at = $12
		 WHERE id = $1`,
		job.ID, job.Title, job.Company, job.Location, job.Type,
		job.Description, job.Requirements,
		job.Salary.Min, job.Salary.Max, job.Salary.Currency,
		job.Status, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return nil
}

// DeleteOwned は指定IDかつ指定雇用者が所有する求人を削除する。
// 応募はカスケード削除しない（弱参照設計、読み取り側で欠落を許容する）。
func (r *PostgresJobRepo) DeleteOwned(ctx context.Context, id, employerID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM jobs WHERE id = $1 AND employer_id = $2`,
		id, employerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete job: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ JobRepository = (*PostgresJobRepo)(nil)

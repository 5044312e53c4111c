package view

import (
	"log/slog"

	"github.com/SanketZore/Job-Portal-CyberNX/internal/model"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/repository"
)

// NewUserView はユーザーをレスポンス表現に変換する。
func NewUserView(u *model.User) UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Company:   u.Company,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

// NewJobView は求人をレスポンス表現に変換する。
// 結合取得でEmployerが埋まっている場合は雇用者要約も埋め込む。
func NewJobView(j *model.Job) JobView {
	v := JobView{
		ID:           j.ID,
		Title:        j.Title,
		Company:      j.Company,
		Location:     j.Location,
		Type:         string(j.Type),
		Description:  j.Description,
		Requirements: j.Requirements,
		Salary: SalaryView{
			Min:      j.Salary.Min,
			Max:      j.Salary.Max,
			Currency: j.Salary.Currency,
		},
		EmployerID: j.EmployerID,
		Status:     string(j.Status),
		CreatedAt:  formatTime(j.CreatedAt),
		UpdatedAt:  formatTime(j.UpdatedAt),
	}
	if j.Employer != nil {
		v.Employer = &EmployerView{
			ID:      j.Employer.ID,
			Name:    j.Employer.Name,
			Company: j.Employer.Company,
		}
	}
	return v
}

// NewJobViews は求人スライスをレスポンス表現に変換する。
// nilスライスでも空スライスを返し、JSONではnullではなく[]になる。
func NewJobViews(jobs []*model.Job) []JobView {
	views := make([]JobView, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, NewJobView(j))
	}
	return views
}

// NewApplicationView は結合済みの応募行をレスポンス表現に変換する。
// 参照先の求人が削除済みの行はnilを返す（呼び出し側で除外する）。
func NewApplicationView(row *repository.ApplicationJoinRow) *ApplicationView {
	if row.Job == nil {
		return nil
	}

	jobView := NewJobView(row.Job)
	if row.Employer != nil {
		jobView.Employer = &EmployerView{
			ID:      row.Employer.ID,
			Name:    row.Employer.Name,
			Company: row.Employer.Company,
		}
	}

	v := &ApplicationView{
		ID:          row.ID,
		JobID:       row.JobID,
		Job:         &jobView,
		ApplicantID: row.ApplicantID,
		Status:      string(row.Status),
		CoverLetter: row.CoverLetter,
		ResumeURL:   row.ResumeURL,
		CreatedAt:   formatTime(row.CreatedAt),
		UpdatedAt:   formatTime(row.UpdatedAt),
	}

	if row.Applicant != nil {
		v.Applicant = &ApplicantView{
			ID:    row.Applicant.ID,
			Name:  row.Applicant.Name,
			Email: row.Applicant.Email,
		}
	}

	return v
}

// NewApplicationViews は結合済みの応募行の一覧をレスポンス表現に変換する。
// 参照先の求人が削除済みの行はログに記録して除外し、一覧全体は返す。
func NewApplicationViews(rows []repository.ApplicationJoinRow) []ApplicationView {
	views := make([]ApplicationView, 0, len(rows))
	for i := range rows {
		v := NewApplicationView(&rows[i])
		if v == nil {
			slog.Warn("dropping application with missing job reference",
				slog.String("application_id", rows[i].ID),
				slog.String("job_id", rows[i].JobID),
			)
			continue
		}
		views = append(views, *v)
	}
	return views
}

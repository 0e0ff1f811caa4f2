package models

import "time"

type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "Applied"
	StatusReviewed  ApplicationStatus = "Reviewed"
	StatusInterview ApplicationStatus = "Interview"
	StatusRejected  ApplicationStatus = "Rejected"
	StatusHired     ApplicationStatus = "Hired"
)

// ApplicationStatuses lists every status. Any status may move to any other.
var ApplicationStatuses = []ApplicationStatus{
	StatusApplied, StatusReviewed, StatusInterview, StatusRejected, StatusHired,
}

func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

const MaxCoverLetterLen = 200

type Application struct {
	ID          string            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ApplicantID string            `gorm:"column:applicant_id;type:uuid;not null" json:"applicant_id"`
	JobID       string            `gorm:"column:job_id;type:uuid;not null" json:"job_id"`
	ResumeLink  string            `gorm:"column:resume_link;type:varchar(255);not null" json:"resume_link"`
	CoverLetter *string           `gorm:"column:cover_letter;type:varchar(200)" json:"cover_letter"`
	Status      ApplicationStatus `gorm:"column:status;type:application_status;not null" json:"status"`
	AppliedAt   time.Time         `gorm:"column:applied_at;type:timestamptz" json:"applied_at"`
}

func (Application) TableName() string { return "applications" }

// MyApplicationRow is what an applicant sees about one of their submissions.
type MyApplicationRow struct {
	ID          string            `gorm:"column:id" json:"id"`
	JobID       string            `gorm:"column:job_id" json:"job_id"`
	JobTitle    string            `gorm:"column:job_title" json:"job_title"`
	CompanyName string            `gorm:"column:company_name" json:"company_name"`
	Status      ApplicationStatus `gorm:"column:status" json:"status"`
	AppliedAt   time.Time         `gorm:"column:applied_at" json:"applied_at"`
}

// JobApplicationRow is what a company sees about a submission to its job.
type JobApplicationRow struct {
	ID            string            `gorm:"column:id" json:"id"`
	ApplicantID   string            `gorm:"column:applicant_id" json:"applicant_id"`
	ApplicantName string            `gorm:"column:applicant_name" json:"applicant_name"`
	ResumeLink    string            `gorm:"column:resume_link" json:"resume_link"`
	CoverLetter   *string           `gorm:"column:cover_letter" json:"cover_letter"`
	Status        ApplicationStatus `gorm:"column:status" json:"status"`
	AppliedAt     time.Time         `gorm:"column:applied_at" json:"applied_at"`
}

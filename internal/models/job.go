package models

import "time"

type Job struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"column:title;type:varchar(100);not null" json:"title"`
	Description string    `gorm:"column:description;type:varchar(2000);not null" json:"description"`
	Location    *string   `gorm:"column:location;type:varchar(255)" json:"location"`
	CreatedBy   string    `gorm:"column:created_by;type:uuid;index;not null" json:"created_by"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (Job) TableName() string { return "jobs" }

// JobListing is a job joined with its owner's display name.
type JobListing struct {
	Job
	CompanyName string `gorm:"column:company_name" json:"company_name"`
}

// OwnedJob is a row of the owner's dashboard.
type OwnedJob struct {
	Job
	ApplicationCount int64 `gorm:"column:application_count" json:"application_count"`
}

// JobFilter narrows a browse query. Empty fields are ignored.
type JobFilter struct {
	Title       string
	Location    string
	CompanyName string
}

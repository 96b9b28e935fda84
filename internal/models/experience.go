package models

import (
	"encoding/json"
	"errors"
	"time"
)

// Experience is a bookable offering (experiences table). The booking core
// treats experiences as read-only reference data.
type Experience struct {
	ID          int64    `json:"id" db:"id"`
	BundleID    *int64   `json:"bundle_id" db:"bundle_id"`
	Title       string   `json:"title" db:"title"`
	Description *string  `json:"description" db:"description"`
	Location    *string  `json:"location" db:"location"`
	Price       *float64 `json:"price" db:"price"`

	// Populated by queries, not columns
	Schedules []ExperienceSchedule `json:"schedules,omitempty" db:"-"`
	Images    []ExperienceImage    `json:"images,omitempty" db:"-"`
	Tags      []Tag                `json:"tags,omitempty" db:"-"`
}

// Bundle groups related experiences (bundles table)
type Bundle struct {
	ID          int64    `json:"id" db:"id"`
	Title       string   `json:"title" db:"title"`
	Description *string  `json:"description" db:"description"`
	Location    *string  `json:"location" db:"location"`
	Price       *float64 `json:"price" db:"price"`
}

// ExperienceSchedule describes when an experience runs
// (experience_schedules table). EndTime drives past/current booking
// classification and may be null.
type ExperienceSchedule struct {
	ID               int64      `json:"id" db:"id"`
	ExperienceID     int64      `json:"experience_id" db:"experience_id"`
	StartDate        time.Time  `json:"-" db:"start_date"`
	EndDate          *time.Time `json:"-" db:"end_date"`
	RecurringPattern *string    `json:"recurring_pattern" db:"recurring_pattern"`
	DaysOfWeek       string     `json:"days_of_week" db:"days_of_week"`
	StartTime        string     `json:"start_time" db:"start_time"`
	EndTime          *string    `json:"end_time" db:"end_time"`
}

// MarshalJSON serializes schedule dates as ISO calendar dates, with null for
// an absent end date.
func (s ExperienceSchedule) MarshalJSON() ([]byte, error) {
	type alias ExperienceSchedule
	var endDate *string
	if s.EndDate != nil {
		formatted := s.EndDate.Format(dateLayout)
		endDate = &formatted
	}
	return json.Marshal(struct {
		alias
		StartDate string  `json:"start_date"`
		EndDate   *string `json:"end_date"`
	}{
		alias:     alias(s),
		StartDate: s.StartDate.Format(dateLayout),
		EndDate:   endDate,
	})
}

// ScheduleInput is a client-supplied schedule entry for the admin schedule
// endpoints. Pointer fields distinguish missing keys from empty values.
type ScheduleInput struct {
	ID               *int64  `json:"id"`
	StartDate        *string `json:"start_date"`
	EndDate          *string `json:"end_date"`
	RecurringPattern *string `json:"recurring_pattern"`
	DaysOfWeek       *string `json:"days_of_week"`
	StartTime        *string `json:"start_time"`
	EndTime          *string `json:"end_time"`
}

// Validate checks the fields required to create a schedule and returns the
// materialized row.
func (in ScheduleInput) Validate() (ExperienceSchedule, error) {
	if in.StartDate == nil || in.StartTime == nil || in.EndTime == nil || in.DaysOfWeek == nil {
		return ExperienceSchedule{}, errors.New("schedule requires start_date, start_time, end_time and days_of_week")
	}

	startDate, err := ParseDate(*in.StartDate)
	if err != nil {
		return ExperienceSchedule{}, err
	}

	startTime, err := ParseTimeSlot(*in.StartTime)
	if err != nil {
		return ExperienceSchedule{}, err
	}
	endTime, err := ParseTimeSlot(*in.EndTime)
	if err != nil {
		return ExperienceSchedule{}, err
	}

	schedule := ExperienceSchedule{
		StartDate:        startDate,
		RecurringPattern: in.RecurringPattern,
		DaysOfWeek:       *in.DaysOfWeek,
		StartTime:        startTime,
		EndTime:          &endTime,
	}

	if in.EndDate != nil && *in.EndDate != "" {
		endDate, err := ParseDate(*in.EndDate)
		if err != nil {
			return ExperienceSchedule{}, err
		}
		schedule.EndDate = &endDate
	}

	return schedule, nil
}

// ExperienceImage is a gallery entry for an experience
// (experience_images table)
type ExperienceImage struct {
	ID           int64  `json:"id" db:"id"`
	ExperienceID int64  `json:"-" db:"experience_id"`
	ImageURL     string `json:"url" db:"image_url"`
}

// Tag labels experiences for discovery (tags table)
type Tag struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// UpdateExperienceRequest carries the partial update for PUT /experiences/:id
type UpdateExperienceRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	Price       *float64 `json:"price"`
}

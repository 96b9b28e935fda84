package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/roamly/experiences-backend/internal/models"
)

// ExperienceRepository handles experience catalog reads and the admin-only
// schedule and image writes
type ExperienceRepository struct {
	db *sqlx.DB
}

// NewExperienceRepository creates a new ExperienceRepository
func NewExperienceRepository(db *sqlx.DB) *ExperienceRepository {
	return &ExperienceRepository{db: db}
}

const experienceColumns = `id, bundle_id, title, description, location, price`

// GetByID retrieves an experience. Returns sql.ErrNoRows when it does not
// exist.
func (r *ExperienceRepository) GetByID(id int64) (*models.Experience, error) {
	experience := &models.Experience{}
	query := fmt.Sprintf(`SELECT %s FROM experiences WHERE id = $1`, experienceColumns)

	if err := r.db.Get(experience, query, id); err != nil {
		return nil, err
	}
	return experience, nil
}

// List retrieves all experiences ordered by id
func (r *ExperienceRepository) List() ([]models.Experience, error) {
	query := fmt.Sprintf(`SELECT %s FROM experiences ORDER BY id`, experienceColumns)

	experiences := []models.Experience{}
	if err := r.db.Select(&experiences, query); err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	return experiences, nil
}

// Update applies a partial update and returns the stored row
func (r *ExperienceRepository) Update(id int64, req models.UpdateExperienceRequest) (*models.Experience, error) {
	query := fmt.Sprintf(`
		UPDATE experiences
		SET title = COALESCE($1, title),
		    description = COALESCE($2, description),
		    location = COALESCE($3, location),
		    price = COALESCE($4, price)
		WHERE id = $5
		RETURNING %s`, experienceColumns)

	experience := &models.Experience{}
	err := r.db.Get(experience, query, req.Title, req.Description, req.Location, req.Price, id)
	if err != nil {
		return nil, err
	}
	return experience, nil
}

// ScheduleEndTimes returns, per experience, the end_time of its schedule
// when one exists. Experiences without a schedule or with a null end_time
// are absent from the map; bookings for those fall back to the reservation
// start time.
func (r *ExperienceRepository) ScheduleEndTimes(experienceIDs []int64) (map[int64]string, error) {
	endTimes := make(map[int64]string, len(experienceIDs))
	if len(experienceIDs) == 0 {
		return endTimes, nil
	}

	query := `
		SELECT DISTINCT ON (experience_id) experience_id, end_time
		FROM experience_schedules
		WHERE experience_id = ANY($1) AND end_time IS NOT NULL
		ORDER BY experience_id, id`

	rows := []struct {
		ExperienceID int64  `db:"experience_id"`
		EndTime      string `db:"end_time"`
	}{}
	if err := r.db.Select(&rows, query, pq.Array(experienceIDs)); err != nil {
		return nil, fmt.Errorf("failed to load schedule end times: %w", err)
	}

	for _, row := range rows {
		endTimes[row.ExperienceID] = row.EndTime
	}
	return endTimes, nil
}

// ListSchedules retrieves all schedules of an experience
func (r *ExperienceRepository) ListSchedules(experienceID int64) ([]models.ExperienceSchedule, error) {
	query := `
		SELECT id, experience_id, start_date, end_date, recurring_pattern, days_of_week, start_time, end_time
		FROM experience_schedules WHERE experience_id = $1 ORDER BY id`

	schedules := []models.ExperienceSchedule{}
	if err := r.db.Select(&schedules, query, experienceID); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

// AddSchedules inserts all schedules in one transaction
func (r *ExperienceRepository) AddSchedules(experienceID int64, schedules []models.ExperienceSchedule) ([]models.ExperienceSchedule, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO experience_schedules (experience_id, start_date, end_date, recurring_pattern, days_of_week, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	created := make([]models.ExperienceSchedule, 0, len(schedules))
	for _, s := range schedules {
		s.ExperienceID = experienceID
		err := tx.QueryRowx(query,
			s.ExperienceID, s.StartDate, s.EndDate, s.RecurringPattern,
			s.DaysOfWeek, s.StartTime, s.EndTime,
		).Scan(&s.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create schedule: %w", err)
		}
		created = append(created, s)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// UpdateSchedule applies a partial update to a schedule scoped to its
// experience. Returns sql.ErrNoRows when the schedule does not belong to
// the experience.
func (r *ExperienceRepository) UpdateSchedule(experienceID, scheduleID int64, in models.ScheduleInput) (*models.ExperienceSchedule, error) {
	schedule := &models.ExperienceSchedule{}
	err := r.db.Get(schedule, `
		SELECT id, experience_id, start_date, end_date, recurring_pattern, days_of_week, start_time, end_time
		FROM experience_schedules WHERE id = $1 AND experience_id = $2`,
		scheduleID, experienceID)
	if err != nil {
		return nil, err
	}

	if in.StartDate != nil {
		startDate, err := models.ParseDate(*in.StartDate)
		if err != nil {
			return nil, err
		}
		schedule.StartDate = startDate
	}
	if in.EndDate != nil {
		if *in.EndDate == "" {
			schedule.EndDate = nil
		} else {
			endDate, err := models.ParseDate(*in.EndDate)
			if err != nil {
				return nil, err
			}
			schedule.EndDate = &endDate
		}
	}
	if in.RecurringPattern != nil {
		schedule.RecurringPattern = in.RecurringPattern
	}
	if in.DaysOfWeek != nil {
		schedule.DaysOfWeek = *in.DaysOfWeek
	}
	if in.StartTime != nil {
		startTime, err := models.ParseTimeSlot(*in.StartTime)
		if err != nil {
			return nil, err
		}
		schedule.StartTime = startTime
	}
	if in.EndTime != nil {
		endTime, err := models.ParseTimeSlot(*in.EndTime)
		if err != nil {
			return nil, err
		}
		schedule.EndTime = &endTime
	}

	_, err = r.db.Exec(`
		UPDATE experience_schedules
		SET start_date = $1, end_date = $2, recurring_pattern = $3, days_of_week = $4, start_time = $5, end_time = $6
		WHERE id = $7 AND experience_id = $8`,
		schedule.StartDate, schedule.EndDate, schedule.RecurringPattern,
		schedule.DaysOfWeek, schedule.StartTime, schedule.EndTime,
		scheduleID, experienceID)
	if err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}
	return schedule, nil
}

// DeleteSchedules deletes the schedules whose ids are in ids AND belong to
// the experience, returning the number deleted
func (r *ExperienceRepository) DeleteSchedules(experienceID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.db.Exec(
		`DELETE FROM experience_schedules WHERE experience_id = $1 AND id = ANY($2)`,
		experienceID, pq.Array(ids),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete schedules: %w", err)
	}
	return result.RowsAffected()
}

// ListImages retrieves all images of an experience
func (r *ExperienceRepository) ListImages(experienceID int64) ([]models.ExperienceImage, error) {
	images := []models.ExperienceImage{}
	err := r.db.Select(&images,
		`SELECT id, experience_id, image_url FROM experience_images WHERE experience_id = $1 ORDER BY id`,
		experienceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

// FirstImageURLs returns the first image url per experience for search
// results; experiences without images are absent from the map
func (r *ExperienceRepository) FirstImageURLs(experienceIDs []int64) (map[int64]string, error) {
	urls := make(map[int64]string, len(experienceIDs))
	if len(experienceIDs) == 0 {
		return urls, nil
	}

	query := `
		SELECT DISTINCT ON (experience_id) experience_id, image_url
		FROM experience_images
		WHERE experience_id = ANY($1)
		ORDER BY experience_id, id`

	images := []models.ExperienceImage{}
	if err := r.db.Select(&images, query, pq.Array(experienceIDs)); err != nil {
		return nil, fmt.Errorf("failed to load image urls: %w", err)
	}

	for _, img := range images {
		urls[img.ExperienceID] = img.ImageURL
	}
	return urls, nil
}

// AddImages inserts all image urls in one transaction
func (r *ExperienceRepository) AddImages(experienceID int64, urls []string) ([]models.ExperienceImage, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	created := make([]models.ExperienceImage, 0, len(urls))
	for _, url := range urls {
		img := models.ExperienceImage{ExperienceID: experienceID, ImageURL: url}
		err := tx.QueryRowx(
			`INSERT INTO experience_images (experience_id, image_url) VALUES ($1, $2) RETURNING id`,
			experienceID, url,
		).Scan(&img.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to add image: %w", err)
		}
		created = append(created, img)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// DeleteImages deletes the images whose ids are in ids AND belong to the
// experience, returning the number deleted
func (r *ExperienceRepository) DeleteImages(experienceID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.db.Exec(
		`DELETE FROM experience_images WHERE experience_id = $1 AND id = ANY($2)`,
		experienceID, pq.Array(ids),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete images: %w", err)
	}
	return result.RowsAffected()
}

// ListTags retrieves all tags
func (r *ExperienceRepository) ListTags() ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := r.db.Select(&tags, `SELECT id, name FROM tags ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// Exists reports whether an experience with the given id exists
func (r *ExperienceRepository) Exists(id int64) (bool, error) {
	var found int64
	err := r.db.Get(&found, `SELECT id FROM experiences WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

package services

import (
	"database/sql"
	"fmt"

	"github.com/roamly/experiences-backend/internal/database"
	"github.com/roamly/experiences-backend/internal/models"
)

// ExperienceService implements catalog reads and the admin schedule and
// image operations
type ExperienceService struct {
	experiences *database.ExperienceRepository
}

// NewExperienceService creates a new ExperienceService
func NewExperienceService(experiences *database.ExperienceRepository) *ExperienceService {
	return &ExperienceService{experiences: experiences}
}

// List returns all experiences with their images attached
func (s *ExperienceService) List() ([]models.Experience, error) {
	experiences, err := s.experiences.List()
	if err != nil {
		return nil, err
	}
	for i := range experiences {
		images, err := s.experiences.ListImages(experiences[i].ID)
		if err != nil {
			return nil, err
		}
		experiences[i].Images = images
	}
	return experiences, nil
}

// Get returns one experience with its schedules and images
func (s *ExperienceService) Get(id int64) (*models.Experience, error) {
	experience, err := s.experiences.GetByID(id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if experience.Schedules, err = s.experiences.ListSchedules(id); err != nil {
		return nil, err
	}
	if experience.Images, err = s.experiences.ListImages(id); err != nil {
		return nil, err
	}
	return experience, nil
}

// Update applies a partial update to an experience
func (s *ExperienceService) Update(id int64, req models.UpdateExperienceRequest) (*models.Experience, error) {
	experience, err := s.experiences.Update(id, req)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update experience: %w", err)
	}
	return experience, nil
}

// ListSchedules returns the schedules of an experience
func (s *ExperienceService) ListSchedules(experienceID int64) ([]models.ExperienceSchedule, error) {
	if err := s.requireExperience(experienceID); err != nil {
		return nil, err
	}
	return s.experiences.ListSchedules(experienceID)
}

// AddSchedules validates and inserts schedules for an experience. All
// inputs are validated before any write.
func (s *ExperienceService) AddSchedules(experienceID int64, inputs []models.ScheduleInput) ([]models.ExperienceSchedule, error) {
	if err := s.requireExperience(experienceID); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, NewValidationError("at least one schedule is required")
	}

	schedules := make([]models.ExperienceSchedule, 0, len(inputs))
	for _, in := range inputs {
		schedule, err := in.Validate()
		if err != nil {
			return nil, NewValidationError(err.Error())
		}
		schedules = append(schedules, schedule)
	}

	return s.experiences.AddSchedules(experienceID, schedules)
}

// UpdateSchedules applies partial updates to schedules of an experience.
// Every entry must carry the id of a schedule belonging to the experience;
// an id from another experience behaves as missing.
func (s *ExperienceService) UpdateSchedules(experienceID int64, inputs []models.ScheduleInput) ([]models.ExperienceSchedule, error) {
	if err := s.requireExperience(experienceID); err != nil {
		return nil, err
	}

	updated := make([]models.ExperienceSchedule, 0, len(inputs))
	for _, in := range inputs {
		if in.ID == nil {
			return nil, NewValidationError("each schedule must have an id")
		}

		schedule, err := s.experiences.UpdateSchedule(experienceID, *in.ID, in)
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		updated = append(updated, *schedule)
	}
	return updated, nil
}

// DeleteSchedules removes the listed schedules of an experience and
// returns how many were deleted
func (s *ExperienceService) DeleteSchedules(experienceID int64, ids []int64) (int64, error) {
	if err := s.requireExperience(experienceID); err != nil {
		return 0, err
	}
	return s.experiences.DeleteSchedules(experienceID, ids)
}

// ListImages returns the images of an experience
func (s *ExperienceService) ListImages(experienceID int64) ([]models.ExperienceImage, error) {
	if err := s.requireExperience(experienceID); err != nil {
		return nil, err
	}
	return s.experiences.ListImages(experienceID)
}

// AddImages inserts image urls for an experience
func (s *ExperienceService) AddImages(experienceID int64, urls []string) ([]models.ExperienceImage, error) {
	if err := s.requireExperience(experienceID); err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, NewValidationError("at least one image url is required")
	}
	for _, url := range urls {
		if url == "" {
			return nil, NewValidationError("image url cannot be empty")
		}
	}
	return s.experiences.AddImages(experienceID, urls)
}

// DeleteImages removes the listed images of an experience and returns how
// many were deleted
func (s *ExperienceService) DeleteImages(experienceID int64, ids []int64) (int64, error) {
	if err := s.requireExperience(experienceID); err != nil {
		return 0, err
	}
	return s.experiences.DeleteImages(experienceID, ids)
}

// ListTags returns all tags
func (s *ExperienceService) ListTags() ([]models.Tag, error) {
	return s.experiences.ListTags()
}

func (s *ExperienceService) requireExperience(id int64) error {
	exists, err := s.experiences.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

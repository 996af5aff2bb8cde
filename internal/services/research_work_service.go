package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/facultysite/internal/models"
)

// ResearchWorkService manages the ordered list of research projects.
type ResearchWorkService struct {
	db *gorm.DB
}

// NewResearchWorkService constructs a research work service once a database handle is supplied.
func NewResearchWorkService(db *gorm.DB) (*ResearchWorkService, error) {
	if db == nil {
		return nil, errors.New("research work service: db is required")
	}
	return &ResearchWorkService{db: db}, nil
}

// ResearchWorkInput carries research work fields. On update a nil pointer
// leaves the field unchanged. Status defaults to Published.
type ResearchWorkInput struct {
	Title       *string
	Description *string
	Image       *string
	Year        *string
	Category    *string
	Status      *string
	Order       *int
}

// List returns one page of research works.
func (s *ResearchWorkService) List(ctx context.Context, req PageRequest) (Page[models.ResearchWork], error) {
	page, err := listOrdered[models.ResearchWork](ensuredContext(ctx), s.db, req)
	if err != nil {
		return Page[models.ResearchWork]{}, fmt.Errorf("research work service: list research works: %w", err)
	}
	return page, nil
}

// Get loads one research work.
func (s *ResearchWorkService) Get(ctx context.Context, id string) (*models.ResearchWork, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var work models.ResearchWork
	err := s.db.WithContext(ensuredContext(ctx)).Take(&work, "id = ?", strings.TrimSpace(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResearchWorkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("research work service: load research work: %w", err)
	}
	return &work, nil
}

// Create stores a research work.
func (s *ResearchWorkService) Create(ctx context.Context, input ResearchWorkInput) (*models.ResearchWork, error) {
	work := &models.ResearchWork{
		Title:       derefTrim(input.Title),
		Description: derefTrim(input.Description),
		Image:       derefTrim(input.Image),
		Year:        derefTrim(input.Year),
		Category:    derefTrim(input.Category),
		Status:      models.ResearchStatusPublished,
	}
	if work.Title == "" || work.Description == "" || work.Image == "" || work.Year == "" || work.Category == "" {
		return nil, newValidationError("All fields are required")
	}
	if status := trimPtr(input.Status); status != nil && *status != "" {
		work.Status = *status
	}
	if input.Order != nil {
		work.Order = *input.Order
	}
	if err := validateResearchWork(work); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ensuredContext(ctx)).Create(work).Error; err != nil {
		return nil, fmt.Errorf("research work service: create research work: %w", err)
	}
	return work, nil
}

// Update applies the provided fields.
func (s *ResearchWorkService) Update(ctx context.Context, id string, input ResearchWorkInput) (*models.ResearchWork, error) {
	ctx = ensuredContext(ctx)

	work, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	for _, field := range []struct {
		column string
		value  *string
		target *string
	}{
		{"title", input.Title, &work.Title},
		{"description", input.Description, &work.Description},
		{"image", input.Image, &work.Image},
		{"year", input.Year, &work.Year},
		{"category", input.Category, &work.Category},
		{"status", input.Status, &work.Status},
	} {
		value := trimPtr(field.value)
		if value == nil {
			continue
		}
		if *value == "" {
			return nil, newValidationError("%s cannot be empty", field.column)
		}
		*field.target = *value
		updates[field.column] = *value
	}
	if input.Order != nil {
		updates["sort_order"] = *input.Order
	}
	if len(updates) == 0 {
		return work, nil
	}
	if err := validateResearchWork(work); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(work).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("research work service: update research work: %w", err)
	}
	return s.Get(ctx, work.ID)
}

// Delete removes a research work.
func (s *ResearchWorkService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := s.db.WithContext(ensuredContext(ctx)).Where("id = ?", strings.TrimSpace(id)).Delete(&models.ResearchWork{})
	if res.Error != nil {
		return fmt.Errorf("research work service: delete research work: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrResearchWorkNotFound
	}
	return nil
}

func validateResearchWork(work *models.ResearchWork) error {
	switch {
	case work.Status != models.ResearchStatusOngoing && work.Status != models.ResearchStatusPublished:
		return newValidationError("Status must be one of: %s, %s", models.ResearchStatusOngoing, models.ResearchStatusPublished)
	case len(work.Title) > 200:
		return newValidationError("Title cannot be more than 200 characters")
	case len(work.Description) > 1000:
		return newValidationError("Description cannot be more than 1000 characters")
	}
	return nil
}

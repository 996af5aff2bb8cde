package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/facultysite/internal/models"
)

// PublicationService manages the ordered list of publications.
type PublicationService struct {
	db *gorm.DB
}

// NewPublicationService constructs a publication service once a database handle is supplied.
func NewPublicationService(db *gorm.DB) (*PublicationService, error) {
	if db == nil {
		return nil, errors.New("publication service: db is required")
	}
	return &PublicationService{db: db}, nil
}

// PublicationInput carries publication fields. On update a nil pointer leaves
// the field unchanged; on create the text fields are required.
type PublicationInput struct {
	Title     *string
	Authors   *string
	Journal   *string
	Year      *string
	Citations *int
	DOI       *string
	Image     *string
	Order     *int
}

// List returns one page of publications.
func (s *PublicationService) List(ctx context.Context, req PageRequest) (Page[models.Publication], error) {
	page, err := listOrdered[models.Publication](ensuredContext(ctx), s.db, req)
	if err != nil {
		return Page[models.Publication]{}, fmt.Errorf("publication service: list publications: %w", err)
	}
	return page, nil
}

// Get loads one publication.
func (s *PublicationService) Get(ctx context.Context, id string) (*models.Publication, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var publication models.Publication
	err := s.db.WithContext(ensuredContext(ctx)).Take(&publication, "id = ?", strings.TrimSpace(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPublicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("publication service: load publication: %w", err)
	}
	return &publication, nil
}

// Create stores a publication.
func (s *PublicationService) Create(ctx context.Context, input PublicationInput) (*models.Publication, error) {
	publication := &models.Publication{
		Title:   derefTrim(input.Title),
		Authors: derefTrim(input.Authors),
		Journal: derefTrim(input.Journal),
		Year:    derefTrim(input.Year),
		DOI:     derefTrim(input.DOI),
		Image:   derefTrim(input.Image),
	}
	if publication.Title == "" || publication.Authors == "" || publication.Journal == "" ||
		publication.Year == "" || publication.DOI == "" || publication.Image == "" {
		return nil, newValidationError("All fields are required")
	}
	if input.Citations != nil {
		publication.Citations = *input.Citations
	}
	if input.Order != nil {
		publication.Order = *input.Order
	}
	if err := validatePublication(publication); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ensuredContext(ctx)).Create(publication).Error; err != nil {
		return nil, fmt.Errorf("publication service: create publication: %w", err)
	}
	return publication, nil
}

// Update applies the provided fields.
func (s *PublicationService) Update(ctx context.Context, id string, input PublicationInput) (*models.Publication, error) {
	ctx = ensuredContext(ctx)

	publication, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	for _, field := range []struct {
		column string
		name   string
		value  *string
		target *string
	}{
		{"title", "title", input.Title, &publication.Title},
		{"authors", "authors", input.Authors, &publication.Authors},
		{"journal", "journal", input.Journal, &publication.Journal},
		{"year", "year", input.Year, &publication.Year},
		{"doi", "doi", input.DOI, &publication.DOI},
		{"image", "image", input.Image, &publication.Image},
	} {
		value := trimPtr(field.value)
		if value == nil {
			continue
		}
		if *value == "" {
			return nil, newValidationError("%s cannot be empty", field.name)
		}
		*field.target = *value
		updates[field.column] = *value
	}
	if input.Citations != nil {
		publication.Citations = *input.Citations
		updates["citations"] = *input.Citations
	}
	if input.Order != nil {
		updates["sort_order"] = *input.Order
	}
	if len(updates) == 0 {
		return publication, nil
	}
	if err := validatePublication(publication); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(publication).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("publication service: update publication: %w", err)
	}
	return s.Get(ctx, publication.ID)
}

// Delete removes a publication.
func (s *PublicationService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := s.db.WithContext(ensuredContext(ctx)).Where("id = ?", strings.TrimSpace(id)).Delete(&models.Publication{})
	if res.Error != nil {
		return fmt.Errorf("publication service: delete publication: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPublicationNotFound
	}
	return nil
}

func validatePublication(p *models.Publication) error {
	switch {
	case len(p.Title) > 200:
		return newValidationError("Title cannot be more than 200 characters")
	case p.Citations < 0:
		return newValidationError("Citations cannot be negative")
	}
	return nil
}

func derefTrim(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

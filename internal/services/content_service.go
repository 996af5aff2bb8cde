package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/charlesng35/facultysite/internal/models"
	"github.com/charlesng35/facultysite/pkg/validator"
)

// ContentDefaults seed the singleton documents the first time they are read.
type ContentDefaults struct {
	Profile models.Profile
	Social  models.Social
}

// ProfileInput describes profile fields. A nil pointer leaves the field unchanged.
type ProfileInput struct {
	TeacherName     *string
	Title           *string
	Department      *string
	University      *string
	UniversityFull  *string
	Bio             *string
	DetailedBio     *string
	Education       *[]models.Education
	Specializations *[]string
}

// SocialInput describes contact link fields. A nil pointer leaves the field unchanged.
type SocialInput struct {
	Github       *string
	Linkedin     *string
	Researchgate *string
	Email        *string
	Phone        *string
}

// ContentService owns the Profile and Social singleton documents.
type ContentService struct {
	db       *gorm.DB
	defaults ContentDefaults
}

// NewContentService constructs a content service seeded with defaults.
func NewContentService(db *gorm.DB, defaults ContentDefaults) (*ContentService, error) {
	if db == nil {
		return nil, errors.New("content service: db is required")
	}
	return &ContentService{db: db, defaults: defaults}, nil
}

// EnsureDefaults creates both singletons when they are missing. It is safe to
// call from several processes at once.
func (s *ContentService) EnsureDefaults(ctx context.Context) error {
	if _, err := s.Profile(ctx); err != nil {
		return err
	}
	if _, err := s.Social(ctx); err != nil {
		return err
	}
	return nil
}

// Profile returns the profile, creating it from defaults if absent.
func (s *ContentService) Profile(ctx context.Context) (*models.Profile, error) {
	ctx = ensuredContext(ctx)

	seed := s.defaults.Profile
	seed.BaseModel = models.BaseModel{}
	seed.Key = models.SingletonKey
	seed.Education = nonNilSlice(seed.Education)
	seed.Specializations = nonNilSlice(seed.Specializations)

	var profile models.Profile
	if err := ensureSingleton(s.db.WithContext(ctx), &profile, &seed); err != nil {
		return nil, fmt.Errorf("content service: ensure profile: %w", err)
	}
	return &profile, nil
}

// Social returns the contact links, creating them from defaults if absent.
func (s *ContentService) Social(ctx context.Context) (*models.Social, error) {
	ctx = ensuredContext(ctx)

	seed := s.defaults.Social
	seed.BaseModel = models.BaseModel{}
	seed.Key = models.SingletonKey

	var social models.Social
	if err := ensureSingleton(s.db.WithContext(ctx), &social, &seed); err != nil {
		return nil, fmt.Errorf("content service: ensure social: %w", err)
	}
	return &social, nil
}

// UpdateProfile merges the provided fields into the profile. When no profile
// exists yet it is created from the input, which must then be complete.
func (s *ContentService) UpdateProfile(ctx context.Context, input ProfileInput) (*models.Profile, error) {
	ctx = ensuredContext(ctx)

	if input.Education != nil {
		if err := validateEducation(*input.Education); err != nil {
			return nil, err
		}
	}

	var profile models.Profile
	err := s.db.WithContext(ctx).Where("singleton_key = ?", models.SingletonKey).Take(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.createProfile(ctx, input)
	}
	if err != nil {
		return nil, fmt.Errorf("content service: load profile: %w", err)
	}

	updates := map[string]any{}
	required := []struct {
		column string
		field  string
		value  *string
	}{
		{"teacher_name", "teacherName", input.TeacherName},
		{"title", "title", input.Title},
		{"department", "department", input.Department},
		{"university", "university", input.University},
		{"university_full", "universityFull", input.UniversityFull},
		{"bio", "bio", input.Bio},
	}
	for _, field := range required {
		value := trimPtr(field.value)
		if value == nil {
			continue
		}
		if *value == "" {
			return nil, newValidationError("%s cannot be empty", field.field)
		}
		updates[field.column] = *value
	}
	if input.DetailedBio != nil {
		updates["detailed_bio"] = *input.DetailedBio
	}
	if input.Education != nil {
		updates["education"] = datatypes.JSONSlice[models.Education](nonNilSlice(*input.Education))
	}
	if input.Specializations != nil {
		updates["specializations"] = datatypes.JSONSlice[string](nonNilSlice(trimAll(*input.Specializations)))
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&profile).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("content service: update profile: %w", err)
		}
	}

	return s.Profile(ctx)
}

func (s *ContentService) createProfile(ctx context.Context, input ProfileInput) (*models.Profile, error) {
	value := func(ptr *string) string {
		if ptr == nil {
			return ""
		}
		return strings.TrimSpace(*ptr)
	}

	profile := &models.Profile{
		Key:            models.SingletonKey,
		TeacherName:    value(input.TeacherName),
		Title:          value(input.Title),
		Department:     value(input.Department),
		University:     value(input.University),
		UniversityFull: value(input.UniversityFull),
		Bio:            value(input.Bio),
		DetailedBio:    value(input.DetailedBio),
	}

	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"teacherName", profile.TeacherName},
		{"title", profile.Title},
		{"department", profile.Department},
		{"university", profile.University},
		{"universityFull", profile.UniversityFull},
		{"bio", profile.Bio},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return nil, newValidationError("Missing required profile fields: %s", strings.Join(missing, ", "))
	}

	profile.Education = datatypes.JSONSlice[models.Education]{}
	if input.Education != nil {
		profile.Education = nonNilSlice(*input.Education)
	}
	profile.Specializations = datatypes.JSONSlice[string]{}
	if input.Specializations != nil {
		profile.Specializations = nonNilSlice(trimAll(*input.Specializations))
	}

	if err := s.db.WithContext(ctx).Create(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Created concurrently; merge into the winner.
			return s.UpdateProfile(ctx, input)
		}
		return nil, fmt.Errorf("content service: create profile: %w", err)
	}
	return profile, nil
}

// UpdateSocial merges the provided links into the social document, creating
// it when absent.
func (s *ContentService) UpdateSocial(ctx context.Context, input SocialInput) (*models.Social, error) {
	ctx = ensuredContext(ctx)

	if email := trimPtr(input.Email); email != nil && *email != "" {
		if !isEmail(*email) {
			return nil, newValidationError("Please provide a valid email address")
		}
	}

	var social models.Social
	err := s.db.WithContext(ctx).Where("singleton_key = ?", models.SingletonKey).Take(&social).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		social = models.Social{Key: models.SingletonKey}
		applySocial(&social, input)
		if err := s.db.WithContext(ctx).Create(&social).Error; err != nil {
			if isUniqueConstraintError(err) {
				return s.UpdateSocial(ctx, input)
			}
			return nil, fmt.Errorf("content service: create social: %w", err)
		}
		return &social, nil
	}
	if err != nil {
		return nil, fmt.Errorf("content service: load social: %w", err)
	}

	updates := map[string]any{}
	for column, value := range map[string]*string{
		"github":       input.Github,
		"linkedin":     input.Linkedin,
		"researchgate": input.Researchgate,
		"email":        input.Email,
		"phone":        input.Phone,
	} {
		if trimmed := trimPtr(value); trimmed != nil {
			updates[column] = *trimmed
		}
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&social).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("content service: update social: %w", err)
		}
	}
	return s.Social(ctx)
}

func applySocial(social *models.Social, input SocialInput) {
	assign := func(dst *string, src *string) {
		if trimmed := trimPtr(src); trimmed != nil {
			*dst = *trimmed
		}
	}
	assign(&social.Github, input.Github)
	assign(&social.Linkedin, input.Linkedin)
	assign(&social.Researchgate, input.Researchgate)
	assign(&social.Email, input.Email)
	assign(&social.Phone, input.Phone)
}

// ensureSingleton loads the row with the fixed key into dest, inserting seed
// first when none exists. A lost insert race falls back to reading the winner.
func ensureSingleton[T any](db *gorm.DB, dest *T, seed *T) error {
	err := db.Where("singleton_key = ?", models.SingletonKey).Take(dest).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := db.Create(seed).Error; err != nil {
		if !isUniqueConstraintError(err) {
			return err
		}
	}
	return db.Where("singleton_key = ?", models.SingletonKey).Take(dest).Error
}

func validateEducation(entries []models.Education) error {
	for i, entry := range entries {
		if strings.TrimSpace(entry.Degree) == "" || strings.TrimSpace(entry.Institution) == "" {
			return newValidationError("education[%d]: degree and institution are required", i)
		}
	}
	return nil
}

func isEmail(value string) bool {
	return validator.ValidateVar(value, "email") == nil
}

func nonNilSlice[S ~[]E, E any](values S) S {
	if values == nil {
		return S{}
	}
	return values
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

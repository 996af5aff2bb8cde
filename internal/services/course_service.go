package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/facultysite/internal/models"
)

// CourseService manages CRUD operations for courses.
type CourseService struct {
	db *gorm.DB
}

// NewCourseService constructs a course service once a database handle is supplied.
func NewCourseService(db *gorm.DB) (*CourseService, error) {
	if db == nil {
		return nil, errors.New("course service: db is required")
	}
	return &CourseService{db: db}, nil
}

// CourseFilter narrows course and chapter listings. Empty fields match everything.
type CourseFilter struct {
	Semester   string
	CourseCode string
}

func (f CourseFilter) apply(db *gorm.DB) *gorm.DB {
	if semester := strings.TrimSpace(f.Semester); semester != "" {
		db = db.Where("semester = ?", semester)
	}
	if code := strings.TrimSpace(f.CourseCode); code != "" {
		db = db.Where("course_code = ?", code)
	}
	return db
}

// CreateCourseInput captures required fields when creating a course.
type CreateCourseInput struct {
	CourseName string
	CourseCode string
	Semester   string
}

// UpdateCourseInput describes mutable course fields. A nil pointer indicates no change.
type UpdateCourseInput struct {
	CourseName *string
	CourseCode *string
	Semester   *string
}

// List returns courses newest first.
func (s *CourseService) List(ctx context.Context, filter CourseFilter) ([]models.Course, error) {
	ctx = ensuredContext(ctx)

	courses := make([]models.Course, 0)
	if err := filter.apply(s.db.WithContext(ctx)).Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("course service: list courses: %w", err)
	}
	return courses, nil
}

// Get loads one course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	return s.find(s.db.WithContext(ensuredContext(ctx)), id)
}

// Create stores a new course. The (course code, semester) pair must be unused.
func (s *CourseService) Create(ctx context.Context, input CreateCourseInput) (*models.Course, error) {
	ctx = ensuredContext(ctx)

	course := &models.Course{
		CourseName: strings.TrimSpace(input.CourseName),
		CourseCode: strings.TrimSpace(input.CourseCode),
		Semester:   strings.TrimSpace(input.Semester),
	}
	if course.CourseName == "" || course.CourseCode == "" || course.Semester == "" {
		return nil, newValidationError("All fields are required")
	}
	if err := validateCourseLengths(course); err != nil {
		return nil, err
	}

	taken, err := s.codeTaken(s.db.WithContext(ctx), course.CourseCode, course.Semester, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateCourse
	}

	if err := s.db.WithContext(ctx).Create(course).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateCourse
		}
		return nil, fmt.Errorf("course service: create course: %w", err)
	}
	return course, nil
}

// Update applies the provided fields. Moving a course onto a code already used
// in the target semester fails with ErrDuplicateCourse.
func (s *CourseService) Update(ctx context.Context, id string, input UpdateCourseInput) (*models.Course, error) {
	ctx = ensuredContext(ctx)

	var updated *models.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := s.find(tx, id)
		if err != nil {
			return err
		}

		updates := map[string]any{}
		if value := trimPtr(input.CourseName); value != nil {
			if *value == "" {
				return newValidationError("Course name is required")
			}
			course.CourseName = *value
			updates["course_name"] = *value
		}
		if value := trimPtr(input.CourseCode); value != nil {
			if *value == "" {
				return newValidationError("Course code is required")
			}
			course.CourseCode = *value
			updates["course_code"] = *value
		}
		if value := trimPtr(input.Semester); value != nil {
			if *value == "" {
				return newValidationError("Semester is required")
			}
			course.Semester = *value
			updates["semester"] = *value
		}
		if len(updates) == 0 {
			updated = course
			return nil
		}
		if err := validateCourseLengths(course); err != nil {
			return err
		}

		_, codeChanged := updates["course_code"]
		_, semesterChanged := updates["semester"]
		if codeChanged || semesterChanged {
			taken, err := s.codeTaken(tx, course.CourseCode, course.Semester, course.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateCourse
			}
		}

		if err := tx.Model(course).Updates(updates).Error; err != nil {
			if isUniqueConstraintError(err) {
				return ErrDuplicateCourse
			}
			return fmt.Errorf("course service: update course: %w", err)
		}
		updated = course
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, updated.ID)
}

// Delete removes a course. Chapters filed under it are left untouched.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := s.db.WithContext(ensuredContext(ctx)).Where("id = ?", strings.TrimSpace(id)).Delete(&models.Course{})
	if res.Error != nil {
		return fmt.Errorf("course service: delete course: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (s *CourseService) find(db *gorm.DB, id string) (*models.Course, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var course models.Course
	err := db.Take(&course, "id = ?", strings.TrimSpace(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("course service: load course: %w", err)
	}
	return &course, nil
}

func (s *CourseService) codeTaken(db *gorm.DB, code, semester, excludeID string) (bool, error) {
	q := db.Model(&models.Course{}).Where("course_code = ? AND semester = ?", code, semester)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("course service: check course code: %w", err)
	}
	return count > 0, nil
}

func validateCourseLengths(course *models.Course) error {
	switch {
	case len(course.CourseName) > 200:
		return newValidationError("Course name cannot be more than 200 characters")
	case len(course.CourseCode) > 50:
		return newValidationError("Course code cannot be more than 50 characters")
	case len(course.Semester) > 20:
		return newValidationError("Semester cannot be more than 20 characters")
	}
	return nil
}

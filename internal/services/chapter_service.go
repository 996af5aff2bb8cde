package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/charlesng35/facultysite/internal/models"
)

// ChapterOption customises the ChapterService.
type ChapterOption func(*ChapterService)

// WithChapterClock injects the time source used for pdf upload timestamps.
func WithChapterClock(clock func() time.Time) ChapterOption {
	return func(s *ChapterService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// ChapterService manages chapters and their attached pdf files.
type ChapterService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewChapterService constructs a chapter service once a database handle is supplied.
func NewChapterService(db *gorm.DB, opts ...ChapterOption) (*ChapterService, error) {
	if db == nil {
		return nil, errors.New("chapter service: db is required")
	}
	svc := &ChapterService{db: db, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// PdfFileInput describes one attached document. UploadedAt defaults to now.
type PdfFileInput struct {
	FileName   string
	FileURL    string
	FileSize   *int64
	UploadedAt *time.Time
}

// CreateChapterInput captures the fields of a new chapter.
type CreateChapterInput struct {
	ChapterName string
	CourseCode  string
	Semester    string
	PdfFiles    []PdfFileInput
	Order       int
}

// UpdateChapterInput describes mutable chapter fields. A nil PdfFiles keeps the
// current list; a non-nil one replaces it entirely.
type UpdateChapterInput struct {
	ChapterName *string
	PdfFiles    *[]PdfFileInput
	Order       *int
}

// List returns chapters ordered by their explicit order, newest first within a tie.
func (s *ChapterService) List(ctx context.Context, filter CourseFilter) ([]models.Chapter, error) {
	ctx = ensuredContext(ctx)

	chapters := make([]models.Chapter, 0)
	if err := filter.apply(s.db.WithContext(ctx)).Order(orderedListing).Find(&chapters).Error; err != nil {
		return nil, fmt.Errorf("chapter service: list chapters: %w", err)
	}
	return chapters, nil
}

// Get loads one chapter.
func (s *ChapterService) Get(ctx context.Context, id string) (*models.Chapter, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var chapter models.Chapter
	err := s.db.WithContext(ensuredContext(ctx)).Take(&chapter, "id = ?", strings.TrimSpace(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChapterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("chapter service: load chapter: %w", err)
	}
	return &chapter, nil
}

// Create stores a chapter. The referenced course does not have to exist.
func (s *ChapterService) Create(ctx context.Context, input CreateChapterInput) (*models.Chapter, error) {
	ctx = ensuredContext(ctx)

	chapter := &models.Chapter{
		ChapterName: strings.TrimSpace(input.ChapterName),
		CourseCode:  strings.TrimSpace(input.CourseCode),
		Semester:    strings.TrimSpace(input.Semester),
		Order:       input.Order,
	}
	if chapter.ChapterName == "" || chapter.CourseCode == "" || chapter.Semester == "" {
		return nil, newValidationError("Chapter name, course code, and semester are required")
	}
	if len(chapter.ChapterName) > 200 {
		return nil, newValidationError("Chapter name cannot be more than 200 characters")
	}

	files, err := s.pdfFiles(input.PdfFiles)
	if err != nil {
		return nil, err
	}
	chapter.PdfFiles = files

	if err := s.db.WithContext(ctx).Create(chapter).Error; err != nil {
		return nil, fmt.Errorf("chapter service: create chapter: %w", err)
	}
	return chapter, nil
}

// Update applies the provided fields.
func (s *ChapterService) Update(ctx context.Context, id string, input UpdateChapterInput) (*models.Chapter, error) {
	ctx = ensuredContext(ctx)

	chapter, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if value := trimPtr(input.ChapterName); value != nil {
		if *value == "" {
			return nil, newValidationError("Chapter name is required")
		}
		if len(*value) > 200 {
			return nil, newValidationError("Chapter name cannot be more than 200 characters")
		}
		updates["chapter_name"] = *value
	}
	if input.PdfFiles != nil {
		files, err := s.pdfFiles(*input.PdfFiles)
		if err != nil {
			return nil, err
		}
		updates["pdf_files"] = files
	}
	if input.Order != nil {
		updates["sort_order"] = *input.Order
	}
	if len(updates) == 0 {
		return chapter, nil
	}

	if err := s.db.WithContext(ctx).Model(chapter).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("chapter service: update chapter: %w", err)
	}
	return s.Get(ctx, chapter.ID)
}

// Delete removes a chapter.
func (s *ChapterService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := s.db.WithContext(ensuredContext(ctx)).Where("id = ?", strings.TrimSpace(id)).Delete(&models.Chapter{})
	if res.Error != nil {
		return fmt.Errorf("chapter service: delete chapter: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrChapterNotFound
	}
	return nil
}

func (s *ChapterService) pdfFiles(inputs []PdfFileInput) (datatypes.JSONSlice[models.PdfFile], error) {
	files := make(datatypes.JSONSlice[models.PdfFile], 0, len(inputs))
	for i, input := range inputs {
		file := models.PdfFile{
			FileName: strings.TrimSpace(input.FileName),
			FileURL:  strings.TrimSpace(input.FileURL),
			FileSize: input.FileSize,
		}
		if file.FileName == "" || file.FileURL == "" {
			return nil, newValidationError("pdfFiles[%d]: fileName and fileUrl are required", i)
		}
		if file.FileSize != nil && *file.FileSize < 0 {
			return nil, newValidationError("pdfFiles[%d]: fileSize cannot be negative", i)
		}
		if input.UploadedAt != nil && !input.UploadedAt.IsZero() {
			file.UploadedAt = input.UploadedAt.UTC()
		} else {
			file.UploadedAt = s.now().UTC()
		}
		files = append(files, file)
	}
	return files, nil
}

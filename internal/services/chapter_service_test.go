package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/facultysite/internal/models"
)

func TestChapterServiceCreateDefaults(t *testing.T) {
	db := openServiceDB(t)
	clock := newTestClock()
	svc, err := NewChapterService(db, WithChapterClock(clock.Now))
	require.NoError(t, err)
	ctx := context.Background()

	chapter, err := svc.Create(ctx, CreateChapterInput{ChapterName: "Limits", CourseCode: "MAT101", Semester: "1-1"})
	require.NoError(t, err)
	require.NotNil(t, chapter.PdfFiles)
	require.Empty(t, chapter.PdfFiles)
	require.Zero(t, chapter.Order)

	loaded, err := svc.Get(ctx, chapter.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.PdfFiles)

	payload, err := json.Marshal(loaded)
	require.NoError(t, err)
	require.Contains(t, string(payload), `"pdfFiles":[]`)
	require.Contains(t, string(payload), `"order":0`)
}

func TestChapterServiceCreateValidation(t *testing.T) {
	svc, err := NewChapterService(openServiceDB(t))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Create(ctx, CreateChapterInput{ChapterName: "Limits", Semester: "1-1"})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "Chapter name, course code, and semester are required", validationErr.Message)

	_, err = svc.Create(ctx, CreateChapterInput{
		ChapterName: "Limits",
		CourseCode:  "MAT101",
		Semester:    "1-1",
		PdfFiles:    []PdfFileInput{{FileName: "notes.pdf"}},
	})
	require.ErrorAs(t, err, &validationErr)
}

func TestChapterServicePdfFilesRoundTrip(t *testing.T) {
	clock := newTestClock()
	svc, err := NewChapterService(openServiceDB(t), WithChapterClock(clock.Now))
	require.NoError(t, err)
	ctx := context.Background()

	size := int64(2048)
	explicit := time.Date(2023, 12, 24, 10, 0, 0, 0, time.UTC)
	chapter, err := svc.Create(ctx, CreateChapterInput{
		ChapterName: "Limits",
		CourseCode:  "MAT101",
		Semester:    "1-1",
		Order:       2,
		PdfFiles: []PdfFileInput{
			{FileName: "notes.pdf", FileURL: "/uploads/01-03-2024_notes.pdf", FileSize: &size},
			{FileName: "slides.pdf", FileURL: "/uploads/slides.pdf", UploadedAt: &explicit},
		},
	})
	require.NoError(t, err)

	loaded, err := svc.Get(ctx, chapter.ID)
	require.NoError(t, err)
	require.Len(t, loaded.PdfFiles, 2)
	require.Equal(t, "notes.pdf", loaded.PdfFiles[0].FileName)
	require.Equal(t, int64(2048), *loaded.PdfFiles[0].FileSize)
	require.True(t, loaded.PdfFiles[0].UploadedAt.Equal(clock.Now()))
	require.Nil(t, loaded.PdfFiles[1].FileSize)
	require.True(t, loaded.PdfFiles[1].UploadedAt.Equal(explicit))
	require.Equal(t, 2, loaded.Order)
}

func TestChapterServiceUpdateReplacesPdfFiles(t *testing.T) {
	svc, err := NewChapterService(openServiceDB(t))
	require.NoError(t, err)
	ctx := context.Background()

	chapter, err := svc.Create(ctx, CreateChapterInput{
		ChapterName: "Limits",
		CourseCode:  "MAT101",
		Semester:    "1-1",
		PdfFiles:    []PdfFileInput{{FileName: "a.pdf", FileURL: "/uploads/a.pdf"}, {FileName: "b.pdf", FileURL: "/uploads/b.pdf"}},
	})
	require.NoError(t, err)

	order := 5
	updated, err := svc.Update(ctx, chapter.ID, UpdateChapterInput{Order: &order})
	require.NoError(t, err)
	require.Equal(t, 5, updated.Order)
	require.Len(t, updated.PdfFiles, 2)

	replacement := []PdfFileInput{{FileName: "c.pdf", FileURL: "/uploads/c.pdf"}}
	updated, err = svc.Update(ctx, chapter.ID, UpdateChapterInput{PdfFiles: &replacement})
	require.NoError(t, err)
	require.Len(t, updated.PdfFiles, 1)
	require.Equal(t, "c.pdf", updated.PdfFiles[0].FileName)

	empty := []PdfFileInput{}
	updated, err = svc.Update(ctx, chapter.ID, UpdateChapterInput{PdfFiles: &empty})
	require.NoError(t, err)
	require.NotNil(t, updated.PdfFiles)
	require.Empty(t, updated.PdfFiles)

	_, err = svc.Update(ctx, "nope", UpdateChapterInput{Order: &order})
	require.ErrorIs(t, err, ErrChapterNotFound)
}

func TestChapterServiceListOrdering(t *testing.T) {
	db := openServiceDB(t)
	svc, err := NewChapterService(db)
	require.NoError(t, err)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	specs := []struct {
		name     string
		course   string
		order    int
		createdH int
	}{
		{name: "second-old", course: "MAT101", order: 1, createdH: 0},
		{name: "first", course: "MAT101", order: 0, createdH: 1},
		{name: "second-new", course: "MAT101", order: 1, createdH: 2},
		{name: "other", course: "PHY101", order: 0, createdH: 3},
	}
	for _, spec := range specs {
		chapter, err := svc.Create(ctx, CreateChapterInput{ChapterName: spec.name, CourseCode: spec.course, Semester: "1-1", Order: spec.order})
		require.NoError(t, err)
		setCreatedAt(t, db, &models.Chapter{}, chapter.ID, base.Add(time.Duration(spec.createdH)*time.Hour))
	}

	chapters, err := svc.List(ctx, CourseFilter{Semester: "1-1", CourseCode: "MAT101"})
	require.NoError(t, err)
	names := make([]string, 0, len(chapters))
	for _, chapter := range chapters {
		names = append(names, chapter.ChapterName)
	}
	require.Equal(t, []string{"first", "second-new", "second-old"}, names)
}

func TestChapterServiceDelete(t *testing.T) {
	svc, err := NewChapterService(openServiceDB(t))
	require.NoError(t, err)
	ctx := context.Background()

	chapter, err := svc.Create(ctx, CreateChapterInput{ChapterName: "Limits", CourseCode: "MAT101", Semester: "1-1"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, chapter.ID))
	require.ErrorIs(t, svc.Delete(ctx, chapter.ID), ErrChapterNotFound)
	_, err = svc.Get(ctx, chapter.ID)
	require.ErrorIs(t, err, ErrChapterNotFound)
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/facultysite/internal/models"
)

func setCreatedAt(t *testing.T, db *gorm.DB, model any, id string, at time.Time) {
	t.Helper()
	require.NoError(t, db.Model(model).Where("id = ?", id).UpdateColumn("created_at", at).Error)
}

func TestCourseServiceCreateAndGet(t *testing.T) {
	db := openServiceDB(t)
	svc, err := NewCourseService(db)
	require.NoError(t, err)
	ctx := context.Background()

	course, err := svc.Create(ctx, CreateCourseInput{CourseName: " Calculus ", CourseCode: "MAT101", Semester: "1-1"})
	require.NoError(t, err)
	require.NotEmpty(t, course.ID)
	require.Equal(t, "Calculus", course.CourseName)

	loaded, err := svc.Get(ctx, course.ID)
	require.NoError(t, err)
	require.Equal(t, "MAT101", loaded.CourseCode)

	_, err = svc.Get(ctx, "not-a-uuid")
	requireInvalidID(t, err)
	_, err = svc.Get(ctx, "4a3c7c0e-7a4b-4b7f-9d59-4bde5b7c1a11")
	require.ErrorIs(t, err, ErrCourseNotFound)

	_, err = NewCourseService(nil)
	require.Error(t, err)
}

func TestCourseServiceCreateValidation(t *testing.T) {
	svc, err := NewCourseService(openServiceDB(t))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateCourseInput{CourseName: "Calculus", Semester: "1-1"})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "All fields are required", validationErr.Message)
}

func TestCourseServiceRejectsDuplicateCodeInSemester(t *testing.T) {
	svc, err := NewCourseService(openServiceDB(t))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Create(ctx, CreateCourseInput{CourseName: "Calculus", CourseCode: "MAT101", Semester: "1-1"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateCourseInput{CourseName: "Calculus again", CourseCode: "MAT101", Semester: "1-1"})
	require.ErrorIs(t, err, ErrDuplicateCourse)

	_, err = svc.Create(ctx, CreateCourseInput{CourseName: "Calculus II", CourseCode: "MAT101", Semester: "1-2"})
	require.NoError(t, err)
}

func TestCourseServiceListFiltersAndSorts(t *testing.T) {
	db := openServiceDB(t)
	svc, err := NewCourseService(db)
	require.NoError(t, err)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inputs := []CreateCourseInput{
		{CourseName: "Calculus", CourseCode: "MAT101", Semester: "1-1"},
		{CourseName: "Physics", CourseCode: "PHY101", Semester: "1-1"},
		{CourseName: "Algebra", CourseCode: "MAT201", Semester: "2-1"},
	}
	for i, input := range inputs {
		course, err := svc.Create(ctx, input)
		require.NoError(t, err)
		setCreatedAt(t, db, &models.Course{}, course.ID, base.Add(time.Duration(i)*time.Hour))
	}

	all, err := svc.List(ctx, CourseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "MAT201", all[0].CourseCode)
	require.Equal(t, "MAT101", all[2].CourseCode)

	first, err := svc.List(ctx, CourseFilter{Semester: "1-1"})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, "PHY101", first[0].CourseCode)

	byCode, err := svc.List(ctx, CourseFilter{Semester: "1-1", CourseCode: "MAT101"})
	require.NoError(t, err)
	require.Len(t, byCode, 1)

	none, err := svc.List(ctx, CourseFilter{Semester: "4-2"})
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestCourseServiceUpdate(t *testing.T) {
	svc, err := NewCourseService(openServiceDB(t))
	require.NoError(t, err)
	ctx := context.Background()

	calculus, err := svc.Create(ctx, CreateCourseInput{CourseName: "Calculus", CourseCode: "MAT101", Semester: "1-1"})
	require.NoError(t, err)
	physics, err := svc.Create(ctx, CreateCourseInput{CourseName: "Physics", CourseCode: "PHY101", Semester: "1-1"})
	require.NoError(t, err)

	name := "Calculus I"
	updated, err := svc.Update(ctx, calculus.ID, UpdateCourseInput{CourseName: &name})
	require.NoError(t, err)
	require.Equal(t, "Calculus I", updated.CourseName)
	require.Equal(t, "MAT101", updated.CourseCode)

	code := "MAT101"
	_, err = svc.Update(ctx, physics.ID, UpdateCourseInput{CourseCode: &code})
	require.ErrorIs(t, err, ErrDuplicateCourse)

	semester := "1-2"
	moved, err := svc.Update(ctx, physics.ID, UpdateCourseInput{CourseCode: &code, Semester: &semester})
	require.NoError(t, err)
	require.Equal(t, "1-2", moved.Semester)

	blank := "  "
	_, err = svc.Update(ctx, physics.ID, UpdateCourseInput{CourseName: &blank})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.Update(ctx, "4a3c7c0e-7a4b-4b7f-9d59-4bde5b7c1a11", UpdateCourseInput{CourseName: &name})
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseServiceDeleteKeepsChapters(t *testing.T) {
	db := openServiceDB(t)
	courses, err := NewCourseService(db)
	require.NoError(t, err)
	chapters, err := NewChapterService(db)
	require.NoError(t, err)
	ctx := context.Background()

	course, err := courses.Create(ctx, CreateCourseInput{CourseName: "Calculus", CourseCode: "MAT101", Semester: "1-1"})
	require.NoError(t, err)
	chapter, err := chapters.Create(ctx, CreateChapterInput{ChapterName: "Limits", CourseCode: "MAT101", Semester: "1-1"})
	require.NoError(t, err)

	require.NoError(t, courses.Delete(ctx, course.ID))
	require.ErrorIs(t, courses.Delete(ctx, course.ID), ErrCourseNotFound)
	requireInvalidID(t, courses.Delete(ctx, "bogus"))

	_, err = chapters.Get(ctx, chapter.ID)
	require.NoError(t, err)
}

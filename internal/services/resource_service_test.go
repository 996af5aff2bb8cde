package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResourceServiceTree(t *testing.T) {
	db := openServiceDB(t)
	courses, err := NewCourseService(db)
	require.NoError(t, err)
	chapters, err := NewChapterService(db)
	require.NoError(t, err)
	resources, err := NewResourceService(db)
	require.NoError(t, err)
	ctx := context.Background()

	for _, input := range []CreateCourseInput{
		{CourseName: "Physics", CourseCode: "PHY101", Semester: "1-1"},
		{CourseName: "Calculus", CourseCode: "MAT101", Semester: "1-1"},
		{CourseName: "Algebra", CourseCode: "MAT201", Semester: "2-1"},
	} {
		_, err := courses.Create(ctx, input)
		require.NoError(t, err)
	}
	for _, input := range []CreateChapterInput{
		{ChapterName: "Limits", CourseCode: "MAT101", Semester: "1-1", Order: 1},
		{ChapterName: "Sets", CourseCode: "MAT101", Semester: "1-1", Order: 0},
		{ChapterName: "Lost", CourseCode: "CSE999", Semester: "1-1"},
	} {
		_, err := chapters.Create(ctx, input)
		require.NoError(t, err)
	}

	tree, err := resources.Tree(ctx, "")
	require.NoError(t, err)
	require.Len(t, tree, 2)
	require.Equal(t, "1-1", tree[0].Semester)
	require.Equal(t, "2-1", tree[1].Semester)

	first := tree[0].Courses
	require.Len(t, first, 3)
	require.Equal(t, "CSE999", first[0].CourseCode)
	require.True(t, first[0].Orphaned)
	require.Empty(t, first[0].ID)
	require.Equal(t, "MAT101", first[1].CourseCode)
	require.False(t, first[1].Orphaned)
	require.Len(t, first[1].Chapters, 2)
	require.Equal(t, "Sets", first[1].Chapters[0].ChapterName)
	require.Equal(t, "PHY101", first[2].CourseCode)
	require.NotNil(t, first[2].Chapters)
	require.Empty(t, first[2].Chapters)

	filtered, err := resources.Tree(ctx, "2-1")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "MAT201", filtered[0].Courses[0].CourseCode)

	empty, err := resources.Tree(ctx, "9-9")
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestResourceServiceSemesters(t *testing.T) {
	db := openServiceDB(t)
	courses, err := NewCourseService(db)
	require.NoError(t, err)
	chapters, err := NewChapterService(db)
	require.NoError(t, err)
	resources, err := NewResourceService(db)
	require.NoError(t, err)
	ctx := context.Background()

	semesters, err := resources.Semesters(ctx)
	require.NoError(t, err)
	require.Empty(t, semesters)

	_, err = courses.Create(ctx, CreateCourseInput{CourseName: "Algebra", CourseCode: "MAT201", Semester: "2-1"})
	require.NoError(t, err)
	_, err = courses.Create(ctx, CreateCourseInput{CourseName: "Calculus", CourseCode: "MAT101", Semester: "1-1"})
	require.NoError(t, err)
	_, err = chapters.Create(ctx, CreateChapterInput{ChapterName: "Orphan", CourseCode: "X", Semester: "3-2"})
	require.NoError(t, err)
	_, err = chapters.Create(ctx, CreateChapterInput{ChapterName: "Limits", CourseCode: "MAT101", Semester: "1-1"})
	require.NoError(t, err)

	semesters, err = resources.Semesters(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"1-1", "2-1", "3-2"}, semesters)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/facultysite/internal/models"
)

// SemesterNode groups the courses taught in one semester.
type SemesterNode struct {
	Semester string       `json:"semester"`
	Courses  []CourseNode `json:"courses"`
}

// CourseNode is a course with its chapters. Orphaned nodes are synthesised for
// chapters whose course does not exist.
type CourseNode struct {
	ID         string           `json:"id,omitempty"`
	CourseName string           `json:"courseName"`
	CourseCode string           `json:"courseCode"`
	Semester   string           `json:"semester"`
	Orphaned   bool             `json:"orphaned,omitempty"`
	Chapters   []models.Chapter `json:"chapters"`
}

// ResourceService assembles the semester, course and chapter hierarchy.
type ResourceService struct {
	db *gorm.DB
}

// NewResourceService constructs a resource service once a database handle is supplied.
func NewResourceService(db *gorm.DB) (*ResourceService, error) {
	if db == nil {
		return nil, errors.New("resource service: db is required")
	}
	return &ResourceService{db: db}, nil
}

type courseKey struct {
	code     string
	semester string
}

// Tree returns semesters ascending, courses by code and chapters in listing
// order. An empty semester returns every semester.
func (s *ResourceService) Tree(ctx context.Context, semester string) ([]SemesterNode, error) {
	ctx = ensuredContext(ctx)
	filter := CourseFilter{Semester: semester}

	var courses []models.Course
	if err := filter.apply(s.db.WithContext(ctx)).Order("semester ASC, course_code ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("resource service: list courses: %w", err)
	}
	var chapters []models.Chapter
	if err := filter.apply(s.db.WithContext(ctx)).Order(orderedListing).Find(&chapters).Error; err != nil {
		return nil, fmt.Errorf("resource service: list chapters: %w", err)
	}

	nodes := make(map[courseKey]*CourseNode, len(courses))
	order := make([]courseKey, 0, len(courses))
	for _, course := range courses {
		key := courseKey{code: course.CourseCode, semester: course.Semester}
		nodes[key] = &CourseNode{
			ID:         course.ID,
			CourseName: course.CourseName,
			CourseCode: course.CourseCode,
			Semester:   course.Semester,
			Chapters:   []models.Chapter{},
		}
		order = append(order, key)
	}

	for _, chapter := range chapters {
		key := courseKey{code: chapter.CourseCode, semester: chapter.Semester}
		node, ok := nodes[key]
		if !ok {
			node = &CourseNode{
				CourseCode: chapter.CourseCode,
				Semester:   chapter.Semester,
				Orphaned:   true,
				Chapters:   []models.Chapter{},
			}
			nodes[key] = node
			order = append(order, key)
		}
		node.Chapters = append(node.Chapters, chapter)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].semester != order[j].semester {
			return order[i].semester < order[j].semester
		}
		return order[i].code < order[j].code
	})

	tree := make([]SemesterNode, 0)
	for _, key := range order {
		if len(tree) == 0 || tree[len(tree)-1].Semester != key.semester {
			tree = append(tree, SemesterNode{Semester: key.semester, Courses: []CourseNode{}})
		}
		last := &tree[len(tree)-1]
		last.Courses = append(last.Courses, *nodes[key])
	}
	return tree, nil
}

// Semesters lists every semester that has a course or a chapter.
func (s *ResourceService) Semesters(ctx context.Context) ([]string, error) {
	ctx = ensuredContext(ctx)

	var fromCourses, fromChapters []string
	if err := s.db.WithContext(ctx).Model(&models.Course{}).Distinct().Pluck("semester", &fromCourses).Error; err != nil {
		return nil, fmt.Errorf("resource service: course semesters: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Chapter{}).Distinct().Pluck("semester", &fromChapters).Error; err != nil {
		return nil, fmt.Errorf("resource service: chapter semesters: %w", err)
	}

	seen := make(map[string]struct{}, len(fromCourses)+len(fromChapters))
	semesters := make([]string, 0, len(fromCourses)+len(fromChapters))
	for _, semester := range append(fromCourses, fromChapters...) {
		semester = strings.TrimSpace(semester)
		if semester == "" {
			continue
		}
		if _, ok := seen[semester]; ok {
			continue
		}
		seen[semester] = struct{}{}
		semesters = append(semesters, semester)
	}
	sort.Strings(semesters)
	return semesters, nil
}

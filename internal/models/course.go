package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course belongs to a semester. (CourseCode, Semester) is unique.
type Course struct {
	BaseModel

	CourseName string `gorm:"type:varchar(200);not null" json:"courseName"`
	CourseCode string `gorm:"type:varchar(50);not null;uniqueIndex:idx_course_code_semester" json:"courseCode"`
	Semester   string `gorm:"type:varchar(20);not null;uniqueIndex:idx_course_code_semester;index" json:"semester"`
}

// PdfFile is a downloadable document attached to a chapter.
type PdfFile struct {
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl"`
	FileSize   *int64    `json:"fileSize,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Chapter points at its course through (CourseCode, Semester) only; there is
// no foreign key and removing a course leaves its chapters in place.
type Chapter struct {
	BaseModel

	ChapterName string                       `gorm:"type:varchar(200);not null" json:"chapterName"`
	CourseCode  string                       `gorm:"type:varchar(50);not null;index:idx_chapter_course" json:"courseCode"`
	Semester    string                       `gorm:"type:varchar(20);not null;index:idx_chapter_course" json:"semester"`
	PdfFiles    datatypes.JSONSlice[PdfFile] `json:"pdfFiles"`
	Order       int                          `gorm:"column:sort_order;not null;default:0;index" json:"order"`
}

func (c *Chapter) AfterFind(tx *gorm.DB) error {
	if c.PdfFiles == nil {
		c.PdfFiles = datatypes.JSONSlice[PdfFile]{}
	}
	return nil
}

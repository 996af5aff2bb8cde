package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SingletonKey is the fixed key of the only Profile and Social rows.
const SingletonKey = "primary"

// Education is one entry of the profile's education history.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Field       string `json:"field,omitempty"`
}

// Profile is the public biography shown on the home page.
type Profile struct {
	BaseModel

	Key             string                         `gorm:"column:singleton_key;type:varchar(32);uniqueIndex;not null" json:"-"`
	TeacherName     string                         `gorm:"type:varchar(200);not null" json:"teacherName"`
	Title           string                         `gorm:"type:varchar(200);not null" json:"title"`
	Department      string                         `gorm:"type:varchar(200);not null" json:"department"`
	University      string                         `gorm:"type:varchar(200);not null" json:"university"`
	UniversityFull  string                         `gorm:"type:varchar(300);not null" json:"universityFull"`
	Bio             string                         `gorm:"type:text;not null" json:"bio"`
	DetailedBio     string                         `gorm:"type:text" json:"detailedBio"`
	Education       datatypes.JSONSlice[Education] `json:"education"`
	Specializations datatypes.JSONSlice[string]    `json:"specializations"`
}

func (p *Profile) AfterFind(tx *gorm.DB) error {
	if p.Education == nil {
		p.Education = datatypes.JSONSlice[Education]{}
	}
	if p.Specializations == nil {
		p.Specializations = datatypes.JSONSlice[string]{}
	}
	return nil
}

// Social holds the contact links shown in the footer.
type Social struct {
	BaseModel

	Key          string `gorm:"column:singleton_key;type:varchar(32);uniqueIndex;not null" json:"-"`
	Github       string `gorm:"type:varchar(300)" json:"github"`
	Linkedin     string `gorm:"type:varchar(300)" json:"linkedin"`
	Researchgate string `gorm:"type:varchar(300)" json:"researchgate"`
	Email        string `gorm:"type:varchar(320)" json:"email"`
	Phone        string `gorm:"type:varchar(64)" json:"phone"`
}

func (Social) TableName() string { return "social" }

package models

// Publication is a journal or conference paper.
type Publication struct {
	BaseModel

	Title     string `gorm:"type:varchar(200);not null" json:"title"`
	Authors   string `gorm:"type:text;not null" json:"authors"`
	Journal   string `gorm:"type:varchar(300);not null" json:"journal"`
	Year      string `gorm:"type:varchar(10);not null" json:"year"`
	Citations int    `gorm:"not null;default:0" json:"citations"`
	DOI       string `gorm:"column:doi;type:varchar(300);not null" json:"doi"`
	Image     string `gorm:"type:varchar(500);not null" json:"image"`
	Order     int    `gorm:"column:sort_order;not null;default:0;index" json:"order"`
}

// Research work statuses.
const (
	ResearchStatusOngoing   = "Ongoing"
	ResearchStatusPublished = "Published"
)

// ResearchWork is a research project listing.
type ResearchWork struct {
	BaseModel

	Title       string `gorm:"type:varchar(200);not null" json:"title"`
	Description string `gorm:"type:varchar(1000);not null" json:"description"`
	Image       string `gorm:"type:varchar(500);not null" json:"image"`
	Year        string `gorm:"type:varchar(10);not null" json:"year"`
	Category    string `gorm:"type:varchar(100);not null" json:"category"`
	Status      string `gorm:"type:varchar(20);not null;default:Published" json:"status"`
	Order       int    `gorm:"column:sort_order;not null;default:0;index" json:"order"`
}

func (ResearchWork) TableName() string { return "research_works" }

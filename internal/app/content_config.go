package app

import (
	"strings"

	"github.com/charlesng35/facultysite/internal/services"
)

// ContentDefaults overlays configured seed values on the built-in profile and
// social records. Empty values keep the built-in ones.
func (c ContentConfig) ContentDefaults() services.ContentDefaults {
	defaults := services.DefaultContent()

	profile := &defaults.Profile
	override(&profile.TeacherName, c.Profile.TeacherName)
	override(&profile.Title, c.Profile.Title)
	override(&profile.Department, c.Profile.Department)
	override(&profile.University, c.Profile.University)
	override(&profile.UniversityFull, c.Profile.UniversityFull)
	override(&profile.Bio, c.Profile.Bio)
	override(&profile.DetailedBio, c.Profile.DetailedBio)

	var specializations []string
	for _, value := range c.Profile.Specializations {
		if value = strings.TrimSpace(value); value != "" {
			specializations = append(specializations, value)
		}
	}
	if len(specializations) > 0 {
		profile.Specializations = specializations
	}

	social := &defaults.Social
	override(&social.Github, c.Social.Github)
	override(&social.Linkedin, c.Social.Linkedin)
	override(&social.Researchgate, c.Social.Researchgate)
	override(&social.Email, c.Social.Email)
	override(&social.Phone, c.Social.Phone)

	return defaults
}

func override(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

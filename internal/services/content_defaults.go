package services

import "github.com/charlesng35/facultysite/internal/models"

// DefaultContent is the built-in seed used when configuration provides none.
func DefaultContent() ContentDefaults {
	return ContentDefaults{
		Profile: models.Profile{
			TeacherName:    "Dr. Md. Zohurul Islam",
			Title:          "Associate Professor",
			Department:     "Department of Mathematics",
			University:     "Jashore University of Science and Technology (JUST)",
			UniversityFull: "Jashore University of Science and Technology (JUST), Bangladesh",
			Bio: "Dr. Mr. Md. Zohurul Islam has been working as an Associate Professor in the " +
				"Department of Mathematics at Jashore University of Science and Technology (JUST), " +
				"Bangladesh since April 2023.",
			Education: []models.Education{
				{Degree: "PhD in Computational Biophysics", Institution: "University of Technology Sydney, Australia"},
				{Degree: "M.Sc. in Mathematics", Institution: "Khulna University, Bangladesh"},
				{Degree: "B.Sc. in Mathematics", Institution: "Khulna University, Bangladesh"},
			},
			Specializations: []string{
				"Fluid Dynamics",
				"Computational Mathematics",
				"CFD Analysis",
				"Numerical Simulations",
			},
		},
		Social: models.Social{
			Email: "zohurul.islam@just.edu.bd",
			Phone: "+880 1712 345 678",
		},
	}
}

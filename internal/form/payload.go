package form

import (
	"slices"

	"github.com/mbcet/alumnimeet/internal/models"
)

// Record builds the persisted payload from a FieldSet snapshot. Every field is
// carried, including values of fields that are currently hidden; only
// accompanyCount is coerced. Timestamps are left zero for the store to assign.
func Record(f FieldSet, v Variant) models.Registration {
	contributions := slices.Clone(f.Contributions)
	if contributions == nil {
		contributions = []string{}
	}
	return models.Registration{
		Name:                f.Name,
		CourseStudied:       f.CourseStudied,
		YearOfPassout:       f.YearOfPassout,
		Designation:         f.Designation,
		Email:               f.Email,
		WhatsappNumber:      f.WhatsappNumber,
		HighestDegree:       f.HighestDegree,
		HigherStudies:       f.HigherStudies,
		InstitutionName:     f.InstitutionName,
		EntrepreneurDetails: f.EntrepreneurDetails,
		SocialProjects:      f.SocialProjects,
		AccompanyCount:      f.AccompanyCountInt(),
		FoodPreference:      f.FoodPreference,
		Contributions:       contributions,
		Consent:             f.Consent,
		AttendingEvent:      v.Attending(f),
	}
}

package form

// Variant selects between the form with an "attending event" toggle and the
// older form where the attendance fields are always shown.
type Variant struct {
	AttendanceToggle bool
}

// Attending reports whether attendance-gated fields are in play for f.
func (v Variant) Attending(f FieldSet) bool {
	return !v.AttendanceToggle || f.AttendingEvent
}

// Visibility says which conditional parts of the form are relevant.
type Visibility struct {
	AttendanceToggle bool `json:"attendanceToggle"`
	InstitutionName  bool `json:"institutionName"`
	AccompanyCount   bool `json:"accompanyCount"`
	FoodPreference   bool `json:"foodPreference"`
}

// VisibilityOf is recomputed from f on every read. Fields that become hidden
// keep their values.
func VisibilityOf(f FieldSet, v Variant) Visibility {
	attending := v.Attending(f)
	return Visibility{
		AttendanceToggle: v.AttendanceToggle,
		InstitutionName:  f.HigherStudies == "yes",
		AccompanyCount:   attending,
		FoodPreference:   attending,
	}
}

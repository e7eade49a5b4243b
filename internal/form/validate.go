package form

import (
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
)

// ErrorMap maps a field name to its validation message. A missing key means
// the field is valid.
type ErrorMap map[string]string

// Has reports whether field currently has an error.
func (e ErrorMap) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Fields returns the invalid field names, sorted.
func (e ErrorMap) Fields() []string {
	var keys []string
	for k := range e {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (e ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(e))
	maps.Copy(out, e)
	return out
}

const (
	MsgNameRequired          = "Name is required"
	MsgCourseRequired        = "Please select a course"
	MsgYearRequired          = "Pass out batch is required"
	MsgDesignationRequired   = "Designation or current role is required"
	MsgWhatsappRequired      = "WhatsApp number is required"
	MsgEmailRequired         = "Email is required"
	MsgEmailInvalid          = "Invalid email format"
	MsgHigherStudiesRequired = "Please select an option"
	MsgInstitutionRequired   = "Institution name is required"
	MsgAccompanyRequired     = "Number of persons accompanying is required"
	MsgAccompanyRange        = "Number of persons accompanying must be between 0 and 5"
	MsgFoodRequired          = "Please select food preference"
	MsgConsentRequired       = "You must consent to continue"
)

// local@domain.tld with no whitespace anywhere. RE2's \s is ASCII only, so
// Unicode separators, \v and the BOM are excluded explicitly.
var reEmail = regexp.MustCompile(`^[^\s\p{Z}\v\x{FEFF}@]+@[^\s\p{Z}\v\x{FEFF}@]+\.[^\s\p{Z}\v\x{FEFF}@]+$`)

func trim(s string) string { return strings.TrimSpace(s) }

// Validate checks every rule against f and returns the failures. It never
// short-circuits and has no side effects.
func Validate(f FieldSet, v Variant) ErrorMap {
	errs := ErrorMap{}
	vis := VisibilityOf(f, v)

	if trim(f.Name) == "" {
		errs[FieldName] = MsgNameRequired
	}
	if !hasOption(CourseOptions, f.CourseStudied) {
		errs[FieldCourseStudied] = MsgCourseRequired
	}
	if f.YearOfPassout == "" {
		errs[FieldYearOfPassout] = MsgYearRequired
	}
	if trim(f.Designation) == "" {
		errs[FieldDesignation] = MsgDesignationRequired
	}
	if trim(f.WhatsappNumber) == "" {
		errs[FieldWhatsappNumber] = MsgWhatsappRequired
	}
	switch {
	case trim(f.Email) == "":
		errs[FieldEmail] = MsgEmailRequired
	case !reEmail.MatchString(f.Email):
		errs[FieldEmail] = MsgEmailInvalid
	}
	if f.HigherStudies != "yes" && f.HigherStudies != "no" {
		errs[FieldHigherStudies] = MsgHigherStudiesRequired
	}
	if vis.InstitutionName && trim(f.InstitutionName) == "" {
		errs[FieldInstitutionName] = MsgInstitutionRequired
	}
	if vis.AccompanyCount {
		if msg := accompanyError(f.AccompanyCount); msg != "" {
			errs[FieldAccompanyCount] = msg
		}
	}
	if vis.FoodPreference && !hasOption(FoodOptions, f.FoodPreference) {
		errs[FieldFoodPreference] = MsgFoodRequired
	}
	if !f.Consent {
		errs[FieldConsent] = MsgConsentRequired
	}
	return errs
}

func accompanyError(raw string) string {
	s := trim(raw)
	if s == "" {
		return MsgAccompanyRequired
	}
	n, err := strconv.Atoi(s)
	if err != nil || !govalidator.InRangeInt(n, 0, MaxAccompanyCount) {
		return MsgAccompanyRange
	}
	return ""
}

package form

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/asaskevich/govalidator"
)

// Field names double as form input names and persisted record keys.
const (
	FieldName                = "name"
	FieldCourseStudied       = "courseStudied"
	FieldYearOfPassout       = "yearOfPassout"
	FieldDesignation         = "designation"
	FieldEmail               = "email"
	FieldWhatsappNumber      = "whatsappNumber"
	FieldHighestDegree       = "highestDegree"
	FieldHigherStudies       = "higherStudies"
	FieldInstitutionName     = "institutionName"
	FieldEntrepreneurDetails = "entrepreneurDetails"
	FieldSocialProjects      = "socialProjects"
	FieldAccompanyCount      = "accompanyCount"
	FieldFoodPreference      = "foodPreference"
	FieldContributions       = "contributions"
	FieldConsent             = "consent"
	FieldAttendingEvent      = "attendingEvent"
)

const (
	FirstPassoutYear  = 2006
	MaxAccompanyCount = 5
)

// FieldSet holds the current value of every form field. The zero value is not
// the default form; use Defaults.
type FieldSet struct {
	Name                string   `json:"name"`
	CourseStudied       string   `json:"courseStudied"`
	YearOfPassout       string   `json:"yearOfPassout"`
	Designation         string   `json:"designation"`
	Email               string   `json:"email"`
	WhatsappNumber      string   `json:"whatsappNumber"`
	HighestDegree       string   `json:"highestDegree"`
	HigherStudies       string   `json:"higherStudies"`
	InstitutionName     string   `json:"institutionName"`
	EntrepreneurDetails string   `json:"entrepreneurDetails"`
	SocialProjects      string   `json:"socialProjects"`
	AccompanyCount      string   `json:"accompanyCount"`
	FoodPreference      string   `json:"foodPreference"`
	Contributions       []string `json:"contributions"`
	Consent             bool     `json:"consent"`
	AttendingEvent      bool     `json:"attendingEvent"`
}

// Defaults returns a FieldSet with every field at its initial value.
func Defaults() FieldSet {
	return FieldSet{
		AccompanyCount: "0",
		Contributions:  []string{},
	}
}

type textField struct {
	name string
	ref  func(*FieldSet) *string
}

// textFields is the ordered table of every field set through SetField.
var textFields = []textField{
	{FieldName, func(f *FieldSet) *string { return &f.Name }},
	{FieldCourseStudied, func(f *FieldSet) *string { return &f.CourseStudied }},
	{FieldYearOfPassout, func(f *FieldSet) *string { return &f.YearOfPassout }},
	{FieldDesignation, func(f *FieldSet) *string { return &f.Designation }},
	{FieldEmail, func(f *FieldSet) *string { return &f.Email }},
	{FieldWhatsappNumber, func(f *FieldSet) *string { return &f.WhatsappNumber }},
	{FieldHighestDegree, func(f *FieldSet) *string { return &f.HighestDegree }},
	{FieldHigherStudies, func(f *FieldSet) *string { return &f.HigherStudies }},
	{FieldInstitutionName, func(f *FieldSet) *string { return &f.InstitutionName }},
	{FieldEntrepreneurDetails, func(f *FieldSet) *string { return &f.EntrepreneurDetails }},
	{FieldSocialProjects, func(f *FieldSet) *string { return &f.SocialProjects }},
	{FieldAccompanyCount, func(f *FieldSet) *string { return &f.AccompanyCount }},
	{FieldFoodPreference, func(f *FieldSet) *string { return &f.FoodPreference }},
}

func lookupText(name string) (textField, bool) {
	for _, tf := range textFields {
		if tf.name == name {
			return tf, true
		}
	}
	return textField{}, false
}

// TextFields lists the names accepted by SetField, in form order.
func TextFields() []string {
	out := make([]string, 0, len(textFields))
	for _, tf := range textFields {
		out = append(out, tf.name)
	}
	return out
}

// IsTextField reports whether name can be passed to SetField.
func IsTextField(name string) bool {
	_, ok := lookupText(name)
	return ok
}

// Get returns the current value of a text field. It panics on unknown names.
func (f *FieldSet) Get(name string) string {
	tf, ok := lookupText(name)
	if !ok {
		panic(fmt.Sprintf("form: unknown field %q", name))
	}
	return *tf.ref(f)
}

func (f *FieldSet) set(name, value string) {
	tf, ok := lookupText(name)
	if !ok {
		panic(fmt.Sprintf("form: unknown field %q", name))
	}
	*tf.ref(f) = value
}

// HasContribution reports whether token is currently selected.
func (f *FieldSet) HasContribution(token string) bool {
	return slices.Contains(f.Contributions, token)
}

func (f *FieldSet) toggleContribution(token string) {
	if i := slices.Index(f.Contributions, token); i >= 0 {
		f.Contributions = slices.Delete(slices.Clone(f.Contributions), i, i+1)
		return
	}
	f.Contributions = append(slices.Clone(f.Contributions), token)
}

// Clone returns a copy that shares no memory with f.
func (f FieldSet) Clone() FieldSet {
	out := f
	out.Contributions = slices.Clone(f.Contributions)
	if out.Contributions == nil {
		out.Contributions = []string{}
	}
	return out
}

// AccompanyCountInt coerces the stored text to an integer. Blank or
// unparseable text counts as zero.
func (f *FieldSet) AccompanyCountInt() int {
	n, err := strconv.Atoi(trim(f.AccompanyCount))
	if err != nil {
		return 0
	}
	return n
}

// ErrNotNumeric is returned by CheckValue for accompanyCount text that does
// not parse as an integer.
var ErrNotNumeric = errors.New("value must be a whole number")

// CheckValue reports whether value may be stored in the text field name.
// accompanyCount must stay integer-parseable; blank is allowed and left to
// Validate. Callers at the input boundary reject the edit on error.
func CheckValue(name, value string) error {
	if name != FieldAccompanyCount || trim(value) == "" {
		return nil
	}
	if _, err := strconv.Atoi(trim(value)); err != nil {
		return fmt.Errorf("%s %q: %w", name, value, ErrNotNumeric)
	}
	return nil
}

// Option is one entry of a single- or multi-choice catalogue.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var (
	CourseOptions = []Option{
		{"cse", "B.Tech Computer Science & Engineering"},
		{"ct", "B.Tech Information Technology"},
		{"mcse", "M.Tech Computer Science & Engineering"},
	}
	HigherStudiesOptions = []Option{
		{"yes", "Yes"},
		{"no", "No"},
	}
	FoodOptions = []Option{
		{"vegetarian", "Vegetarian"},
		{"non-vegetarian", "Non-Vegetarian"},
	}
	ContributionOptions = []Option{
		{"guest-lecture", "Guest Lecture"},
		{"industry-mentor", "Industry Mentor"},
		{"internship-support", "Internship Support"},
		{"placement-assistance", "Placement Assistance"},
		{"project-guidance", "Project Guidance"},
	}
)

func hasOption(opts []Option, value string) bool {
	return govalidator.IsIn(value, optionValues(opts)...)
}

func optionValues(opts []Option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Value)
	}
	return out
}

// IsContribution reports whether token is a known contribution area.
func IsContribution(token string) bool {
	return hasOption(ContributionOptions, token)
}

// YearOptions lists selectable pass-out years, newest first.
func YearOptions(now time.Time) []string {
	out := make([]string, 0, now.Year()-FirstPassoutYear+1)
	for y := now.Year(); y >= FirstPassoutYear; y-- {
		out = append(out, strconv.Itoa(y))
	}
	return out
}

// Label returns the display label for value, or value itself when unknown.
func Label(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

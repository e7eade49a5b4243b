package models

import "time"

// Registration is one submitted alumni record. Its field set is the schema of
// the remote collection, so every form field is persisted even when the form
// did not require it.
type Registration struct {
	ID        uint      `gorm:"primaryKey" firestore:"-" json:"-"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt,serverTimestamp" json:"updatedAt"`

	Name                string   `firestore:"name" json:"name"`
	CourseStudied       string   `firestore:"courseStudied" json:"courseStudied"`
	YearOfPassout       string   `firestore:"yearOfPassout" json:"yearOfPassout"`
	Designation         string   `firestore:"designation" json:"designation"`
	Email               string   `gorm:"index" firestore:"email" json:"email"`
	WhatsappNumber      string   `firestore:"whatsappNumber" json:"whatsappNumber"`
	HighestDegree       string   `firestore:"highestDegree" json:"highestDegree"`
	HigherStudies       string   `firestore:"higherStudies" json:"higherStudies"`
	InstitutionName     string   `firestore:"institutionName" json:"institutionName"`
	EntrepreneurDetails string   `firestore:"entrepreneurDetails" json:"entrepreneurDetails"`
	SocialProjects      string   `firestore:"socialProjects" json:"socialProjects"`
	AccompanyCount      int      `firestore:"accompanyCount" json:"accompanyCount"`
	FoodPreference      string   `firestore:"foodPreference" json:"foodPreference"`
	Contributions       []string `gorm:"serializer:json;type:text" firestore:"contributions" json:"contributions"`
	Consent             bool     `firestore:"consent" json:"consent"`
	AttendingEvent      bool     `firestore:"attendingEvent" json:"attendingEvent"`
}

package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Application is a submitted scholarship request
type Application struct {
	ID     string  `bson:"_id" json:"id"`
	UserID *string `bson:"user_id" json:"user_id"`

	// Personal
	FullName     string `bson:"full_name" json:"full_name"`
	BirthDate    string `bson:"birth_date" json:"birth_date"`
	BINumber     string `bson:"bi_number" json:"bi_number"`
	Phone        string `bson:"phone" json:"phone"`
	Email        string `bson:"email" json:"email"`
	Address      string `bson:"address" json:"address"`
	Province     string `bson:"province" json:"province"`
	Municipality string `bson:"municipality" json:"municipality"`

	// Academic
	EducationLevel EducationLevel `bson:"education_level" json:"education_level"`
	Institution    string         `bson:"institution" json:"institution"`
	Course         *string        `bson:"course" json:"course"`
	CurrentYear    *int           `bson:"current_year" json:"current_year"`

	ScholarshipType ScholarshipType `bson:"scholarship_type" json:"scholarship_type"`

	// Socioeconomic
	HouseholdIncome  IncomeBracket `bson:"household_income" json:"household_income"`
	HouseholdMembers int           `bson:"household_members" json:"household_members"`
	EmploymentStatus string        `bson:"employment_status" json:"employment_status"`

	Motivation          string `bson:"motivation" json:"motivation"`
	DeclarationAccepted bool   `bson:"declaration_accepted" json:"declaration_accepted"`

	// Administrative
	Status     ApplicationStatus `bson:"status" json:"status"`
	AdminNotes *string           `bson:"admin_notes" json:"admin_notes"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// BeforeCreate sets the defaults a new application starts with
func (a *Application) BeforeCreate(now time.Time) {
	a.Status = StatusNova
	a.AdminNotes = nil
	a.CreatedAt = now
	a.UpdatedAt = now
}

// IsOwnedBy reports whether the application belongs to userID
func (a *Application) IsOwnedBy(userID string) bool {
	return a.UserID != nil && *a.UserID == userID
}

// NumericText holds a numeric form field as typed. It accepts both JSON
// strings and JSON numbers so that text inputs can be posted unchanged.
type NumericText string

// UnmarshalJSON implements json.Unmarshaler
func (n *NumericText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = NumericText(integralNumber(num))
	return nil
}

// integralNumber writes integer-valued JSON numbers such as 4.0 or 1e1 in
// plain integer form; anything else is kept as sent.
func integralNumber(num json.Number) string {
	if i, err := num.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return num.String()
	}
	return strconv.FormatInt(int64(f), 10)
}

// String returns the trimmed text
func (n NumericText) String() string {
	return strings.TrimSpace(string(n))
}

// ApplicationForm is the raw form state collected across the six steps.
// Every field is kept as entered; conversion into an Application happens
// once, at submission.
type ApplicationForm struct {
	FullName     string `json:"full_name"`
	BirthDate    string `json:"birth_date"`
	BINumber     string `json:"bi_number"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Province     string `json:"province"`
	Municipality string `json:"municipality"`
	Address      string `json:"address"`

	EducationLevel string      `json:"education_level"`
	Institution    string      `json:"institution"`
	Course         string      `json:"course"`
	CurrentYear    NumericText `json:"current_year"`

	ScholarshipType string `json:"scholarship_type"`

	HouseholdIncome  string      `json:"household_income"`
	HouseholdMembers NumericText `json:"household_members"`
	EmploymentStatus string      `json:"employment_status"`

	Motivation string `json:"motivation"`

	DeclarationAccepted bool `json:"declaration_accepted"`
}

// ApplicationFormPatch carries the fields a draft save changes. Nil fields
// are left untouched.
type ApplicationFormPatch struct {
	FullName     *string `json:"full_name"`
	BirthDate    *string `json:"birth_date"`
	BINumber     *string `json:"bi_number"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Province     *string `json:"province"`
	Municipality *string `json:"municipality"`
	Address      *string `json:"address"`

	EducationLevel *string      `json:"education_level"`
	Institution    *string      `json:"institution"`
	Course         *string      `json:"course"`
	CurrentYear    *NumericText `json:"current_year"`

	ScholarshipType *string `json:"scholarship_type"`

	HouseholdIncome  *string      `json:"household_income"`
	HouseholdMembers *NumericText `json:"household_members"`
	EmploymentStatus *string      `json:"employment_status"`

	Motivation *string `json:"motivation"`

	DeclarationAccepted *bool `json:"declaration_accepted"`
}

// Apply copies every non-nil patch field into the form
func (p ApplicationFormPatch) Apply(f *ApplicationForm) {
	setString(&f.FullName, p.FullName)
	setString(&f.BirthDate, p.BirthDate)
	setString(&f.BINumber, p.BINumber)
	setString(&f.Phone, p.Phone)
	setString(&f.Email, p.Email)
	setString(&f.Province, p.Province)
	setString(&f.Municipality, p.Municipality)
	setString(&f.Address, p.Address)
	setString(&f.EducationLevel, p.EducationLevel)
	setString(&f.Institution, p.Institution)
	setString(&f.Course, p.Course)
	setString(&f.ScholarshipType, p.ScholarshipType)
	setString(&f.HouseholdIncome, p.HouseholdIncome)
	setString(&f.EmploymentStatus, p.EmploymentStatus)
	setString(&f.Motivation, p.Motivation)
	if p.CurrentYear != nil {
		f.CurrentYear = *p.CurrentYear
	}
	if p.HouseholdMembers != nil {
		f.HouseholdMembers = *p.HouseholdMembers
	}
	if p.DeclarationAccepted != nil {
		f.DeclarationAccepted = *p.DeclarationAccepted
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// CandidateApplication is an application as shown to its owner
type CandidateApplication struct {
	Application
	StatusInfo StatusPresentation `json:"status_info"`
}

// NewCandidateApplication attaches the status presentation to an application
func NewCandidateApplication(app Application) CandidateApplication {
	return CandidateApplication{Application: app, StatusInfo: app.Status.Presentation()}
}

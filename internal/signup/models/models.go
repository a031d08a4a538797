package models

import (
	"fmt"
	"slices"

	lookupmodels "signup/internal/lookup/models"
	"signup/pkg/platform/validation"
)

// Field names a form input. Values are the wire names used by the HTML form and the JSON API.
type Field string

const (
	FieldFirstName      Field = "fName"
	FieldLastName       Field = "lName"
	FieldGender         Field = "gender"
	FieldZip            Field = "zip"
	FieldCity           Field = "city"
	FieldLatitude       Field = "latitude"
	FieldLongitude      Field = "longitude"
	FieldState          Field = "state"
	FieldCounty         Field = "county"
	FieldUsername       Field = "username"
	FieldPassword       Field = "password"
	FieldRetypePassword Field = "retypePassword"
)

// EditableFields lists the inputs a user can change, in form order.
// City and coordinates are resolved from the zip code.
var EditableFields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldGender,
	FieldZip,
	FieldState,
	FieldCounty,
	FieldUsername,
	FieldPassword,
	FieldRetypePassword,
}

// ParseField returns the field named s, or false for unknown names.
func ParseField(s string) (Field, bool) {
	f := Field(s)
	switch f {
	case FieldFirstName, FieldLastName, FieldGender, FieldZip, FieldCity, FieldLatitude,
		FieldLongitude, FieldState, FieldCounty, FieldUsername, FieldPassword, FieldRetypePassword:
		return f, true
	}
	return "", false
}

// Editable reports whether users may set f directly.
func (f Field) Editable() bool {
	return slices.Contains(EditableFields, f)
}

// MaxLength is the longest value accepted for f, in runes.
func (f Field) MaxLength() int {
	switch f {
	case FieldFirstName, FieldLastName:
		return validation.MaxNameLength
	case FieldZip:
		return validation.MaxZipLength
	case FieldState:
		return validation.MaxStateLength
	case FieldCounty:
		return validation.MaxCountyLength
	case FieldUsername:
		return validation.MaxUsernameLength
	case FieldPassword, FieldRetypePassword:
		return validation.MaxPasswordLength
	default:
		return validation.MaxFieldValueLength
	}
}

// Secret reports whether values of f must never be logged or rendered back.
func (f Field) Secret() bool {
	return f == FieldPassword || f == FieldRetypePassword
}

func (f Field) String() string {
	return string(f)
}

type Gender string

const (
	GenderMale   Gender = "m"
	GenderFemale Gender = "f"
)

// IsValid accepts the two radio values and the unselected empty value.
func (g Gender) IsValid() bool {
	return g == "" || g == GenderMale || g == GenderFemale
}

func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	default:
		return ""
	}
}

// FormData holds every form value as entered or resolved.
type FormData struct {
	FirstName      string `json:"fName"`
	LastName       string `json:"lName"`
	Gender         string `json:"gender"`
	Zip            string `json:"zip"`
	City           string `json:"city"`
	Latitude       string `json:"latitude"`
	Longitude      string `json:"longitude"`
	State          string `json:"state"`
	County         string `json:"county"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	RetypePassword string `json:"retypePassword"`
}

// Get returns the value of f.
func (d *FormData) Get(f Field) string {
	if p := d.ref(f); p != nil {
		return *p
	}
	return ""
}

// Set stores v in f. Unknown fields are ignored.
func (d *FormData) Set(f Field, v string) {
	if p := d.ref(f); p != nil {
		*p = v
	}
}

func (d *FormData) ref(f Field) *string {
	switch f {
	case FieldFirstName:
		return &d.FirstName
	case FieldLastName:
		return &d.LastName
	case FieldGender:
		return &d.Gender
	case FieldZip:
		return &d.Zip
	case FieldCity:
		return &d.City
	case FieldLatitude:
		return &d.Latitude
	case FieldLongitude:
		return &d.Longitude
	case FieldState:
		return &d.State
	case FieldCounty:
		return &d.County
	case FieldUsername:
		return &d.Username
	case FieldPassword:
		return &d.Password
	case FieldRetypePassword:
		return &d.RetypePassword
	}
	return nil
}

// Redacted returns a copy with both password inputs blanked.
func (d FormData) Redacted() FormData {
	d.Password = ""
	d.RetypePassword = ""
	return d
}

// Field-level messages.
const (
	MsgZipNotFound      = "Zip code not found"
	MsgZipUnavailable   = "Unable to verify zip code"
	MsgUsernameTaken    = "Username is already taken"
	MsgUsernameRequired = "Username is required"
	MsgPasswordMismatch = "Passwords do not match"
)

// PasswordTooShort is the message for a password under min characters.
func PasswordTooShort(min int) string {
	return fmt.Sprintf("Password must be at least %d characters", min)
}

// FormErrors holds at most one message per validated field.
// Zip is owned by the zip lookup; the others by the submit validation pass.
type FormErrors struct {
	Zip            string `json:"zip,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	RetypePassword string `json:"retypePassword,omitempty"`
}

// Empty reports whether no message is set.
func (e FormErrors) Empty() bool {
	return e == FormErrors{}
}

// Fields returns the names of fields carrying a message.
func (e FormErrors) Fields() []string {
	var out []string
	if e.Zip != "" {
		out = append(out, string(FieldZip))
	}
	if e.Username != "" {
		out = append(out, string(FieldUsername))
	}
	if e.Password != "" {
		out = append(out, string(FieldPassword))
	}
	if e.RetypePassword != "" {
		out = append(out, string(FieldRetypePassword))
	}
	return out
}

// RouteWelcome is where an accepted form navigates.
const RouteWelcome = "/welcome"

// Snapshot is a point-in-time copy of the controller state.
type Snapshot struct {
	Data              FormData             `json:"data"`
	Errors            FormErrors           `json:"errors"`
	UsernameConflict  string               `json:"username_conflict,omitempty"`
	States            []lookupmodels.State `json:"states"`
	Counties          []string             `json:"counties"`
	SuggestedPassword string               `json:"suggested_password,omitempty"`
	Pending           bool                 `json:"pending"`
	Mounted           bool                 `json:"mounted"`
}

// SubmitResult reports the outcome of one submit attempt.
type SubmitResult struct {
	Accepted         bool       `json:"accepted"`
	Route            string     `json:"route,omitempty"`
	Errors           FormErrors `json:"errors"`
	UsernameConflict string     `json:"username_conflict,omitempty"`
	Data             FormData   `json:"-"`
}

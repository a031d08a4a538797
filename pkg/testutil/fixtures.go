package testutil

import (
	"github.com/google/uuid"

	"signup/internal/signup/models"
	id "signup/pkg/domain"
)

// TestIDs provides fixed IDs for deterministic test data.
var TestIDs = struct {
	SessionID1 id.SessionID
	SessionID2 id.SessionID
}{
	SessionID1: id.SessionID(uuid.MustParse("eeee0000-0000-0000-0000-000000000001")),
	SessionID2: id.SessionID(uuid.MustParse("eeee0000-0000-0000-0000-000000000002")),
}

// FieldValue is one input as a user would enter it.
type FieldValue struct {
	Field models.Field
	Value string
}

// FormBuilder provides a fluent interface for building sign-up input.
// The defaults describe a form that passes validation.
type FormBuilder struct {
	data models.FormData
}

// NewFormBuilder creates a FormBuilder with valid defaults.
func NewFormBuilder() *FormBuilder {
	return &FormBuilder{
		data: models.FormData{
			FirstName:      "Zoe",
			LastName:       "Quinn",
			Gender:         string(models.GenderFemale),
			Zip:            "93955",
			State:          "CA",
			County:         "Monterey",
			Username:       "zoeq",
			Password:       "secret123",
			RetypePassword: "secret123",
		},
	}
}

func (b *FormBuilder) WithName(firstName, lastName string) *FormBuilder {
	b.data.FirstName = firstName
	b.data.LastName = lastName
	return b
}

func (b *FormBuilder) WithZip(zip string) *FormBuilder {
	b.data.Zip = zip
	return b
}

func (b *FormBuilder) WithState(state, county string) *FormBuilder {
	b.data.State = state
	b.data.County = county
	return b
}

func (b *FormBuilder) WithUsername(username string) *FormBuilder {
	b.data.Username = username
	return b
}

// WithPassword sets both password inputs.
func (b *FormBuilder) WithPassword(password string) *FormBuilder {
	b.data.Password = password
	b.data.RetypePassword = password
	return b
}

func (b *FormBuilder) WithRetypePassword(retype string) *FormBuilder {
	b.data.RetypePassword = retype
	return b
}

// Build returns the form data.
func (b *FormBuilder) Build() models.FormData {
	return b.data
}

// Fields returns the editable inputs in form order.
func (b *FormBuilder) Fields() []FieldValue {
	out := make([]FieldValue, 0, len(models.EditableFields))
	for _, f := range models.EditableFields {
		out = append(out, FieldValue{Field: f, Value: b.data.Get(f)})
	}
	return out
}

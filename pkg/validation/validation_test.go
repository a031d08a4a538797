package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "signup/pkg/domain-errors"
)

type sampleRequest struct {
	Gender string `json:"gender" validate:"omitempty,oneof=m f"`
	Length int    `json:"length" validate:"min=6,max=64"`
	Value  string `form:"value" validate:"notblank,max=5"`
}

func TestValidate(t *testing.T) {
	valid := sampleRequest{Gender: "f", Length: 8, Value: "abc"}

	t.Run("valid request passes", func(t *testing.T) {
		assert.NoError(t, Validate(valid))
	})

	tests := []struct {
		name    string
		mutate  func(r *sampleRequest)
		message string
	}{
		{name: "oneof reports allowed values", mutate: func(r *sampleRequest) { r.Gender = "x" }, message: "gender must be one of [m f]"},
		{name: "min reports bound", mutate: func(r *sampleRequest) { r.Length = 2 }, message: "length must be at least 6"},
		{name: "max reports bound", mutate: func(r *sampleRequest) { r.Value = "toolong" }, message: "value must be at most 5"},
		{name: "notblank rejects whitespace", mutate: func(r *sampleRequest) { r.Value = "   " }, message: "value must not be blank"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := Validate(req)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "signup/pkg/domain-errors"
)

// LimitsSuite checks the "max passes, max+1 fails" boundary of each helper.
type LimitsSuite struct {
	suite.Suite
}

func TestLimitsSuite(t *testing.T) {
	suite.Run(t, new(LimitsSuite))
}

func (s *LimitsSuite) TestCheckStringLength() {
	s.Run("passes at max", func() {
		s.NoError(CheckStringLength("zip", strings.Repeat("9", MaxZipLength), MaxZipLength))
	})

	s.Run("counts runes not bytes", func() {
		s.NoError(CheckStringLength("first_name", strings.Repeat("é", MaxNameLength), MaxNameLength))
	})

	s.Run("fails past max with validation code", func() {
		err := CheckStringLength("zip", strings.Repeat("9", MaxZipLength+1), MaxZipLength)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "zip exceeds max length of 10")
	})
}

func (s *LimitsSuite) TestCheckByteLength() {
	s.NoError(CheckByteLength("password", strings.Repeat("é", MaxPasswordBytes/2), MaxPasswordBytes))

	err := CheckByteLength("password", strings.Repeat("é", MaxPasswordBytes/2+1), MaxPasswordBytes)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(err.Error(), "password exceeds max size of 72 bytes")
}

func (s *LimitsSuite) TestCheckRange() {
	s.NoError(CheckRange("length", MinSuggestedPasswordLength, MinSuggestedPasswordLength, MaxSuggestedPasswordLength))
	s.NoError(CheckRange("length", MaxSuggestedPasswordLength, MinSuggestedPasswordLength, MaxSuggestedPasswordLength))
	s.Error(CheckRange("length", MinSuggestedPasswordLength-1, MinSuggestedPasswordLength, MaxSuggestedPasswordLength))
	s.Error(CheckRange("length", MaxSuggestedPasswordLength+1, MinSuggestedPasswordLength, MaxSuggestedPasswordLength))
}

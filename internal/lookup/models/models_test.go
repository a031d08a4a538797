package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString(t *testing.T) {
	var payload struct {
		Lat  FlexString `json:"latitude"`
		Long FlexString `json:"longitude"`
		Tz   FlexString `json:"timezone"`
		DST  FlexString `json:"dst"`
	}

	err := json.Unmarshal([]byte(`{"latitude":36.6122,"longitude":" -121.8504 ","timezone":null,"dst":true}`), &payload)

	require.NoError(t, err)
	assert.Equal(t, "36.6122", payload.Lat.String())
	assert.Equal(t, "-121.8504", payload.Long.String())
	assert.Equal(t, "", payload.Tz.String())
	assert.Equal(t, "true", payload.DST.String())
}

func TestFlexStringRejectsObjects(t *testing.T) {
	var f FlexString
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &f))
}

func TestCountyNames(t *testing.T) {
	assert.Equal(t, []string{"Monterey", "Santa Cruz"}, CountyNames([]County{{Name: "Monterey"}, {Name: "Santa Cruz"}}))
	assert.Empty(t, CountyNames(nil))
}

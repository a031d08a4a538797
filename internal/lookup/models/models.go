// Package models holds the values returned by the remote lookup endpoints.
package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// State is one entry of the states list.
type State struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// CityInfo is the resolved location for a zip code.
// Latitude and Longitude are kept as the decimal strings the form displays.
type CityInfo struct {
	Zip       string `json:"zip"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// County is one entry of a state's county list.
type County struct {
	Name string `json:"name"`
}

// UsernameAvailability reports whether a username is free.
type UsernameAvailability struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

// PasswordSuggestion is a generated password.
type PasswordSuggestion struct {
	Password string `json:"password"`
}

// CountyNames flattens a county list to display names.
func CountyNames(counties []County) []string {
	names := make([]string, 0, len(counties))
	for _, c := range counties {
		names = append(names, c.Name)
	}
	return names
}

// FlexString decodes a JSON string, number or boolean into its string form.
// The city endpoint is inconsistent about quoting coordinates.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*f = ""
		return nil
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	case raw == "true" || raw == "false":
		*f = FlexString(raw)
		return nil
	default:
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return err
		}
		*f = FlexString(raw)
		return nil
	}
}

func (f FlexString) String() string {
	return string(f)
}

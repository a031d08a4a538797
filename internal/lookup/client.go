// Package lookup talks to the remote lookup endpoints the sign-up form cross-checks against:
// states list, city by zip, counties by state, username availability and password suggestions.
package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"signup/internal/lookup/models"
	strutil "signup/pkg/platform/strings"
	"signup/pkg/platform/validation"
)

// Endpoint names used for metrics, spans and errors.
const (
	EndpointStates   = "states"
	EndpointCity     = "city"
	EndpointCounties = "counties"
	EndpointUsername = "username"
	EndpointPassword = "password"
)

// Lookups is the full set of remote lookups.
type Lookups interface {
	States(ctx context.Context) ([]models.State, error)
	CityByZip(ctx context.Context, zip string) (*models.CityInfo, error)
	CountiesByState(ctx context.Context, state string) ([]models.County, error)
	UsernameAvailable(ctx context.Context, username string) (*models.UsernameAvailability, error)
	SuggestPassword(ctx context.Context, length int) (*models.PasswordSuggestion, error)
}

// Paths locates each endpoint relative to the adapter's base URL.
type Paths struct {
	States   string
	City     string
	Counties string
	Username string
	Password string
}

// DefaultPaths returns the csumb.space endpoint paths.
func DefaultPaths() Paths {
	return Paths{
		States:   "/allStatesAPI.php",
		City:     "/cityInfoAPI.php",
		Counties: "/countyListAPI.php",
		Username: "/usernamesAPI.php",
		Password: "/suggestedPassword.php",
	}
}

// Client implements Lookups over HTTP.
type Client struct {
	adapter *HTTPAdapter
	paths   Paths
}

// NewClient creates a client. Empty paths fall back to DefaultPaths.
func NewClient(adapter *HTTPAdapter, paths Paths) *Client {
	def := DefaultPaths()
	if paths.States == "" {
		paths.States = def.States
	}
	if paths.City == "" {
		paths.City = def.City
	}
	if paths.Counties == "" {
		paths.Counties = def.Counties
	}
	if paths.Username == "" {
		paths.Username = def.Username
	}
	if paths.Password == "" {
		paths.Password = def.Password
	}
	return &Client{adapter: adapter, paths: paths}
}

type stateDTO struct {
	State string `json:"state"`
	USPS  string `json:"usps"`
}

// States fetches the full states list in the remote's order.
func (c *Client) States(ctx context.Context) ([]models.State, error) {
	var states []models.State
	err := c.adapter.GetJSON(ctx, Call{
		Endpoint: EndpointStates,
		Path:     c.paths.States,
		Decode: func(body []byte) error {
			var dto []stateDTO
			if err := json.Unmarshal(body, &dto); err != nil {
				return err
			}
			states = make([]models.State, 0, len(dto))
			for _, s := range dto {
				code := strings.ToUpper(strings.TrimSpace(s.USPS))
				if code == "" {
					continue
				}
				states = append(states, models.State{Name: strings.TrimSpace(s.State), Code: code})
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return states, nil
}

type cityDTO struct {
	Zip       models.FlexString `json:"zip"`
	City      string            `json:"city"`
	State     string            `json:"state"`
	Latitude  models.FlexString `json:"latitude"`
	Longitude models.FlexString `json:"longitude"`
}

// CityByZip resolves a zip code. A zip the remote does not know yields a not_found
// LookupError; an empty zip is rejected without a request.
func (c *Client) CityByZip(ctx context.Context, zip string) (*models.CityInfo, error) {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return nil, NewLookupError(ErrorBadData, EndpointCity, "zip is required", nil)
	}
	if err := validation.CheckStringLength("zip", zip, validation.MaxZipLength); err != nil {
		return nil, NewLookupError(ErrorBadData, EndpointCity, err.Error(), nil)
	}

	var info *models.CityInfo
	err := c.adapter.GetJSON(ctx, Call{
		Endpoint: EndpointCity,
		Path:     c.paths.City,
		Query:    url.Values{"zip": {zip}},
		Key:      zip,
		Decode: func(body []byte) error {
			if isEmptyBody(body) {
				return NewLookupError(ErrorNotFound, EndpointCity, "no city for zip", nil)
			}
			var dto cityDTO
			if err := json.Unmarshal(body, &dto); err != nil {
				return err
			}
			if strings.TrimSpace(dto.City) == "" {
				return NewLookupError(ErrorNotFound, EndpointCity, "no city for zip", nil)
			}
			info = &models.CityInfo{
				Zip:       zip,
				City:      strings.TrimSpace(dto.City),
				State:     strings.ToUpper(strings.TrimSpace(dto.State)),
				Latitude:  dto.Latitude.String(),
				Longitude: dto.Longitude.String(),
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

type countyDTO struct {
	County string `json:"county"`
}

// CountiesByState lists the counties of a state. An empty body means no counties.
func (c *Client) CountiesByState(ctx context.Context, state string) ([]models.County, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return nil, NewLookupError(ErrorBadData, EndpointCounties, "state is required", nil)
	}

	counties := []models.County{}
	err := c.adapter.GetJSON(ctx, Call{
		Endpoint: EndpointCounties,
		Path:     c.paths.Counties,
		Query:    url.Values{"state": {state}},
		Key:      state,
		Decode: func(body []byte) error {
			if isEmptyBody(body) {
				return nil
			}
			var dto []countyDTO
			if err := json.Unmarshal(body, &dto); err != nil {
				return err
			}
			names := make([]string, 0, len(dto))
			for _, d := range dto {
				names = append(names, d.County)
			}
			for _, name := range strutil.DedupeAndTrim(names) {
				counties = append(counties, models.County{Name: name})
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return counties, nil
}

type usernameDTO struct {
	Available *bool `json:"available"`
}

// UsernameAvailable asks whether username is free. Never cached.
func (c *Client) UsernameAvailable(ctx context.Context, username string) (*models.UsernameAvailability, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, NewLookupError(ErrorBadData, EndpointUsername, "username is required", nil)
	}

	var result *models.UsernameAvailability
	err := c.adapter.GetJSON(ctx, Call{
		Endpoint: EndpointUsername,
		Path:     c.paths.Username,
		Query:    url.Values{"username": {username}},
		Key:      username,
		Decode: func(body []byte) error {
			var dto usernameDTO
			if err := json.Unmarshal(body, &dto); err != nil {
				return err
			}
			if dto.Available == nil {
				return NewLookupError(ErrorContractMismatch, EndpointUsername, "response missing available flag", nil)
			}
			result = &models.UsernameAvailability{Username: username, Available: *dto.Available}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type passwordDTO struct {
	Password string `json:"password"`
}

// SuggestPassword fetches a generated password of the given length. Never cached.
func (c *Client) SuggestPassword(ctx context.Context, length int) (*models.PasswordSuggestion, error) {
	if err := validation.CheckRange("length", length,
		validation.MinSuggestedPasswordLength, validation.MaxSuggestedPasswordLength); err != nil {
		return nil, NewLookupError(ErrorBadData, EndpointPassword, err.Error(), nil)
	}

	var result *models.PasswordSuggestion
	err := c.adapter.GetJSON(ctx, Call{
		Endpoint: EndpointPassword,
		Path:     c.paths.Password,
		Query:    url.Values{"length": {strconv.Itoa(length)}},
		Decode: func(body []byte) error {
			var dto passwordDTO
			if err := json.Unmarshal(body, &dto); err != nil {
				return err
			}
			if dto.Password == "" {
				return NewLookupError(ErrorContractMismatch, EndpointPassword, "response missing password", nil)
			}
			result = &models.PasswordSuggestion{Password: dto.Password}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Health reports the lookup service as unavailable while the breaker is open.
func (c *Client) Health(_ context.Context) error {
	if c.adapter.Breaker().IsOpen() {
		return NewLookupError(ErrorProviderOutage, "all", "circuit open", nil)
	}
	return nil
}

func isEmptyBody(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("false")) || bytes.Equal(trimmed, []byte("null"))
}

var _ Lookups = (*Client)(nil)

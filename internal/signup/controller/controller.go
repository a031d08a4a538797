package controller

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"signup/internal/lookup"
	lookupmodels "signup/internal/lookup/models"
	"signup/internal/platform/metrics"
	"signup/internal/platform/privacy"
	"signup/internal/signup/models"
	dErrors "signup/pkg/domain-errors"
	strutil "signup/pkg/platform/strings"
	"signup/pkg/platform/validation"
)

// Lookups is the set of remote lookups the form depends on.
type Lookups interface {
	States(ctx context.Context) ([]lookupmodels.State, error)
	CityByZip(ctx context.Context, zip string) (*lookupmodels.CityInfo, error)
	CountiesByState(ctx context.Context, state string) ([]lookupmodels.County, error)
	UsernameAvailable(ctx context.Context, username string) (*lookupmodels.UsernameAvailability, error)
	SuggestPassword(ctx context.Context, length int) (*lookupmodels.PasswordSuggestion, error)
}

// Navigator moves the user to another route once the form is accepted.
type Navigator interface {
	Navigate(ctx context.Context, route string) error
}

// ErrClosed is returned by every mutating call after Close.
var ErrClosed = dErrors.New(dErrors.CodeNotFound, "form session closed")

const (
	defaultMinPasswordLength       = 6
	defaultSuggestedPasswordLength = 8
)

// Controller holds one user's form state and orchestrates the field lookups.
//
// Each lookup field (zip, state, username) owns a slot. A change cancels the slot's
// pending timer and in-flight request and bumps its generation; a response is applied
// only while its generation is current, so stale answers never overwrite newer input.
type Controller struct {
	lookups   Lookups
	navigator Navigator
	logger    *slog.Logger
	metrics   *metrics.Metrics

	debounce                time.Duration
	minPasswordLength       int
	suggestedPasswordLength int
	clearStaleCounty        bool

	mu                sync.Mutex
	data              models.FormData
	errors            models.FormErrors
	usernameConflict  string
	states            []lookupmodels.State
	counties          []string
	suggestedPassword string
	mounted           bool
	closed            bool

	slots    map[models.Field]*slot
	inflight int
	idle     chan struct{}
}

type slot struct {
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	active bool
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithDebounce delays each lookup by d after the last change to its field. Zero sends immediately.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

func WithMinPasswordLength(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.minPasswordLength = n
		}
	}
}

func WithSuggestedPasswordLength(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.suggestedPasswordLength = n
		}
	}
}

// WithClearStaleCounty clears the selected county when a new county list no longer contains it.
func WithClearStaleCounty(enabled bool) Option {
	return func(c *Controller) {
		c.clearStaleCounty = enabled
	}
}

func New(lookups Lookups, navigator Navigator, opts ...Option) *Controller {
	c := &Controller{
		lookups:                 lookups,
		navigator:               navigator,
		minPasswordLength:       defaultMinPasswordLength,
		suggestedPasswordLength: defaultSuggestedPasswordLength,
		clearStaleCounty:        true,
		slots:                   make(map[models.Field]*slot),
		idle:                    closedChan(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Mount loads the states list and a suggested password concurrently.
// Lookup failures are logged and leave the values empty. Only the first call does any work.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.mounted {
		c.mu.Unlock()
		return nil
	}
	c.mounted = true
	length := c.suggestedPasswordLength
	c.mu.Unlock()

	var (
		g         errgroup.Group
		states    []lookupmodels.State
		suggested string
	)
	g.Go(func() error {
		result, err := c.lookups.States(ctx)
		if err != nil {
			c.logLookupFailure(ctx, lookup.EndpointStates, err)
			return nil
		}
		states = result
		return nil
	})
	g.Go(func() error {
		result, err := c.lookups.SuggestPassword(ctx, length)
		if err != nil {
			c.logLookupFailure(ctx, lookup.EndpointPassword, err)
			return nil
		}
		suggested = result.Password
		return nil
	})
	_ = g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if states != nil {
		c.states = states
	}
	if suggested != "" {
		c.suggestedPassword = suggested
	}
	return nil
}

// Change stores value in field and schedules the lookup that field depends on.
func (c *Controller) Change(ctx context.Context, field models.Field, value string) error {
	if !field.Editable() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown or read-only field: "+field.String())
	}
	if err := validation.CheckStringLength(field.String(), value, field.MaxLength()); err != nil {
		return err
	}
	if field.Secret() {
		if err := validation.CheckByteLength(field.String(), value, validation.MaxPasswordBytes); err != nil {
			return err
		}
	}
	if field == models.FieldGender && !models.Gender(value).IsValid() {
		return dErrors.New(dErrors.CodeValidation, "gender must be one of [m f]")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	c.data.Set(field, value)
	if c.metrics != nil {
		c.metrics.IncrementFieldChange(field.String())
	}

	switch field {
	case models.FieldZip:
		zip := strings.TrimSpace(value)
		if zip == "" {
			c.clearSlot(field)
			c.errors.Zip = ""
			return nil
		}
		c.schedule(ctx, field, func(ctx context.Context) func() {
			return c.resolveCity(ctx, zip)
		})
	case models.FieldState:
		c.counties = nil
		state := strings.TrimSpace(value)
		if state == "" {
			c.clearSlot(field)
			return nil
		}
		c.schedule(ctx, field, func(ctx context.Context) func() {
			return c.resolveCounties(ctx, state)
		})
	case models.FieldUsername:
		username := strings.TrimSpace(value)
		if username == "" {
			c.clearSlot(field)
			c.usernameConflict = ""
			return nil
		}
		c.schedule(ctx, field, func(ctx context.Context) func() {
			return c.resolveUsername(ctx, username)
		})
	}
	return nil
}

// Settle blocks until no lookup is pending or ctx is done.
func (c *Controller) Settle(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SuggestPassword fetches a fresh password suggestion of the given length.
func (c *Controller) SuggestPassword(ctx context.Context, length int) (string, error) {
	if err := validation.CheckRange("length", length,
		validation.MinSuggestedPasswordLength, validation.MaxSuggestedPasswordLength); err != nil {
		return "", err
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return "", ErrClosed
	}

	result, err := c.lookups.SuggestPassword(ctx, length)
	if err != nil {
		c.logLookupFailure(ctx, lookup.EndpointPassword, err)
		return "", lookup.ToDomainError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", ErrClosed
	}
	c.suggestedPassword = result.Password
	return result.Password, nil
}

// Submit waits for pending lookups, validates the form and navigates to the welcome
// route when it is valid and the username is free.
func (c *Controller) Submit(ctx context.Context) (*models.SubmitResult, error) {
	if err := c.Settle(ctx); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "pending lookups did not finish")
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.validate()
	result := &models.SubmitResult{
		Errors:           c.errors,
		UsernameConflict: c.usernameConflict,
		Data:             c.data,
	}
	validationErrs := models.FormErrors{
		Username:       c.errors.Username,
		Password:       c.errors.Password,
		RetypePassword: c.errors.RetypePassword,
	}
	result.Accepted = validationErrs.Empty() && c.usernameConflict == ""
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.ObserveSubmission(result.Accepted, result.Errors.Fields())
	}
	if !result.Accepted {
		c.logger.InfoContext(ctx, "sign-up rejected",
			"error_fields", result.Errors.Fields(),
			"username_conflict", result.UsernameConflict != "",
		)
		return result, nil
	}

	if err := c.navigator.Navigate(ctx, models.RouteWelcome); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to navigate")
	}
	result.Route = models.RouteWelcome
	c.logger.InfoContext(ctx, "sign-up accepted",
		"username", privacy.MaskUsername(result.Data.Username),
	)
	return result, nil
}

// validate resets the submit-owned errors. The zip error belongs to the zip lookup and is kept.
func (c *Controller) validate() {
	c.errors.Username = ""
	c.errors.Password = ""
	c.errors.RetypePassword = ""

	if strings.TrimSpace(c.data.Username) == "" {
		c.errors.Username = models.MsgUsernameRequired
	}
	if utf8.RuneCountInString(c.data.Password) < c.minPasswordLength {
		c.errors.Password = models.PasswordTooShort(c.minPasswordLength)
	}
	if c.data.Password != c.data.RetypePassword {
		c.errors.RetypePassword = models.MsgPasswordMismatch
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.Snapshot{
		Data:              c.data,
		Errors:            c.errors,
		UsernameConflict:  c.usernameConflict,
		States:            append(make([]lookupmodels.State, 0, len(c.states)), c.states...),
		Counties:          append(make([]string, 0, len(c.counties)), c.counties...),
		SuggestedPassword: c.suggestedPassword,
		Pending:           c.inflight > 0,
		Mounted:           c.mounted,
	}
}

// Close cancels every pending lookup. It is safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for field := range c.slots {
		c.clearSlot(field)
	}
}

func (c *Controller) resolveCity(ctx context.Context, zip string) func() {
	info, err := c.lookups.CityByZip(ctx, zip)
	if ctx.Err() != nil {
		return nil
	}
	switch {
	case err == nil && info != nil && info.City != "":
		return func() {
			c.data.City = info.City
			c.data.Latitude = info.Latitude
			c.data.Longitude = info.Longitude
			c.errors.Zip = ""
		}
	case err == nil, lookup.IsNotFound(err), lookup.GetCategory(err) == lookup.ErrorBadData:
		return func() {
			c.errors.Zip = models.MsgZipNotFound
		}
	case lookup.GetCategory(err) == lookup.ErrorCanceled:
		return nil
	default:
		c.logLookupFailure(ctx, lookup.EndpointCity, err)
		return func() {
			c.errors.Zip = models.MsgZipUnavailable
		}
	}
}

func (c *Controller) resolveCounties(ctx context.Context, state string) func() {
	counties, err := c.lookups.CountiesByState(ctx, state)
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		if lookup.GetCategory(err) != lookup.ErrorCanceled {
			c.logLookupFailure(ctx, lookup.EndpointCounties, err)
		}
		return nil
	}
	names := lookupmodels.CountyNames(counties)
	return func() {
		c.counties = names
		if c.clearStaleCounty && c.data.County != "" && !strutil.ContainsFold(names, c.data.County) {
			c.data.County = ""
		}
	}
}

func (c *Controller) resolveUsername(ctx context.Context, username string) func() {
	result, err := c.lookups.UsernameAvailable(ctx, username)
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		if lookup.GetCategory(err) != lookup.ErrorCanceled {
			c.logLookupFailure(ctx, lookup.EndpointUsername, err,
				"username", privacy.MaskUsername(username))
		}
		return nil
	}
	return func() {
		if result.Available {
			c.usernameConflict = ""
			return
		}
		c.usernameConflict = models.MsgUsernameTaken
	}
}

func (c *Controller) logLookupFailure(ctx context.Context, endpoint string, err error, args ...any) {
	attrs := append([]any{
		"endpoint", endpoint,
		"category", string(lookup.GetCategory(err)),
		"error", err,
	}, args...)
	c.logger.WarnContext(ctx, "lookup failed", attrs...)
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

package usecase

import (
	"fmt"
	"strings"

	"EconDash/internal/domain/models"
	xhttp "EconDash/pkg/http"
	"EconDash/pkg/util"
)

// InvalidInputMessage is what the user sees for any rejected form.
const InvalidInputMessage = "Please enter a valid country and number of months"

// ValidationKind names the reason a submit was rejected.
type ValidationKind string

const (
	MissingCountry ValidationKind = "missing_country"
	InvalidHorizon ValidationKind = "invalid_horizon"
)

// ValidationError is returned by InputValidator.Validate.
type ValidationError struct {
	Kind  ValidationKind
	Input string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %q", e.Kind, e.Input)
}

// Message is the user-facing text for the error.
func (e *ValidationError) Message() string { return InvalidInputMessage }

// InputValidator checks the two form fields. The accepted country set comes
// from configuration: empty means any non-blank text is accepted.
type InputValidator struct {
	countries  map[string]struct{}
	ordered    []string
	maxHorizon int
}

func NewInputValidator(countries []string, maxHorizonMonths int) *InputValidator {
	v := &InputValidator{maxHorizon: maxHorizonMonths}
	if len(countries) > 0 {
		v.countries = make(map[string]struct{}, len(countries))
		for _, c := range countries {
			c = strings.TrimSpace(c)
			if c == "" {
				continue
			}
			if _, dup := v.countries[c]; dup {
				continue
			}
			v.countries[c] = struct{}{}
			v.ordered = append(v.ordered, c)
		}
	}
	return v
}

// Countries returns the closed country list in configured order, or nil for free text.
func (v *InputValidator) Countries() []string {
	return append([]string(nil), v.ordered...)
}

// FreeText reports whether any country name is accepted.
func (v *InputValidator) FreeText() bool { return v.countries == nil }

// MaxHorizon returns the configured upper bound, 0 when unbounded.
func (v *InputValidator) MaxHorizon() int { return v.maxHorizon }

// Validate turns raw form input into a ForecastRequest. It has no side effects.
func (v *InputValidator) Validate(country, horizonMonths string) (models.ForecastRequest, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return models.ForecastRequest{}, &ValidationError{Kind: MissingCountry, Input: country}
	}
	if v.countries != nil {
		if _, ok := v.countries[country]; !ok {
			return models.ForecastRequest{}, &ValidationError{Kind: MissingCountry, Input: country}
		}
	}

	months, ok := util.ParseStrictInt(horizonMonths)
	if !ok || months < 1 || (v.maxHorizon > 0 && months > v.maxHorizon) {
		return models.ForecastRequest{}, &ValidationError{Kind: InvalidHorizon, Input: horizonMonths}
	}

	req := models.ForecastRequest{Country: country, HorizonMonths: months}
	if err := xhttp.Validator().Struct(req); err != nil {
		return models.ForecastRequest{}, &ValidationError{Kind: InvalidHorizon, Input: horizonMonths}
	}
	return req, nil
}

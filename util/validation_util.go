// util/validation_util.go

package util

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	fw_errors "github.com/skyber-io/privacy-firewall/errors"
	"github.com/skyber-io/privacy-firewall/model"
)

type ValidationUtil struct {
	validate *validator.Validate
}

func NewValidationUtil() *ValidationUtil {
	validate := validator.New()
	// Reuse the binding tags gin already reads.
	validate.SetTagName("binding")
	return &ValidationUtil{validate: validate}
}

// ValidateAccessRequest checks the structural validity of a request.
// Failures come back as field-level ValidationErrors, never as a DENY.
func (v *ValidationUtil) ValidateAccessRequest(request model.AccessRequest) error {
	if err := v.validate.Struct(request); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			return fieldErrors(invalid)
		}
		return err
	}

	// A requested override with no authorization id is rejected outright,
	// never downgraded to override=false.
	if request.EmergencyOverride && request.EmergencyAuthorizationID == "" {
		return fw_errors.ValidationErrors{{
			Field:   "emergency_authorization_id",
			Message: "required when emergency_override is requested",
		}}
	}

	if request.Situation == model.SituationEmergency && request.EmergencyAuthorizationID != "" &&
		!strings.HasPrefix(request.EmergencyAuthorizationID, "EMRG-") {
		return fw_errors.ValidationErrors{{
			Field:   "emergency_authorization_id",
			Message: "must carry the EMRG- prefix",
		}}
	}

	if request.Window != nil {
		if err := validateWindow(request.Window); err != nil {
			return err
		}
	}

	if request.Grant != nil && !request.Grant.ValidUntil.IsZero() && !request.Grant.ValidFrom.IsZero() &&
		!request.Grant.ValidFrom.Before(request.Grant.ValidUntil) {
		return fw_errors.ValidationErrors{{
			Field:   "grant.valid_until",
			Message: "must be after grant.valid_from",
		}}
	}

	return nil
}

func validateWindow(w *model.AccessWindow) error {
	var out fw_errors.ValidationErrors
	if w.Start.IsZero() {
		out = append(out, &fw_errors.ValidationError{
			Field:   "access_window.start",
			Message: "is required",
		})
	}
	if w.End.IsZero() {
		out = append(out, &fw_errors.ValidationError{
			Field:   "access_window.end",
			Message: "is required",
		})
	}
	if len(out) > 0 {
		return out
	}
	if !w.Start.Before(w.End) {
		return fw_errors.ValidationErrors{{
			Field:   "access_window.end",
			Message: "must be after access_window.start",
		}}
	}
	return nil
}

func fieldErrors(invalid validator.ValidationErrors) fw_errors.ValidationErrors {
	out := make(fw_errors.ValidationErrors, 0, len(invalid))
	for _, fe := range invalid {
		out = append(out, &fw_errors.ValidationError{
			Field:   fe.Field(),
			Message: "failed " + fe.Tag() + " validation",
		})
	}
	return out
}

// util/validation_util_test.go
package util_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fw_errors "github.com/skyber-io/privacy-firewall/errors"
	"github.com/skyber-io/privacy-firewall/model"
	"github.com/skyber-io/privacy-firewall/util"
)

func validRequest() model.AccessRequest {
	return model.AccessRequest{
		SubjectID:  "emp-1",
		ResourceID: "res-1",
		Action:     "read",
		Urgency:    "normal",
		Situation:  model.SituationNormal,
		Timestamp:  time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC),
	}
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var ve fw_errors.ValidationErrors
	require.True(t, errors.As(err, &ve))
	fields := make([]string, len(ve))
	for i, e := range ve {
		fields[i] = e.Field
	}
	return fields
}

func TestValidateAccessRequest(t *testing.T) {
	v := util.NewValidationUtil()

	t.Run("valid request passes", func(t *testing.T) {
		assert.NoError(t, v.ValidateAccessRequest(validRequest()))
	})

	t.Run("missing subject id", func(t *testing.T) {
		req := validRequest()
		req.SubjectID = ""
		assert.Contains(t, fieldsOf(t, v.ValidateAccessRequest(req)), "SubjectID")
	})

	t.Run("override without authorization id", func(t *testing.T) {
		req := validRequest()
		req.Situation = model.SituationEmergency
		req.EmergencyOverride = true
		assert.Equal(t, []string{"emergency_authorization_id"},
			fieldsOf(t, v.ValidateAccessRequest(req)))
	})

	t.Run("override with authorization id passes", func(t *testing.T) {
		req := validRequest()
		req.Situation = model.SituationEmergency
		req.EmergencyOverride = true
		req.EmergencyAuthorizationID = "EMRG-42"
		assert.NoError(t, v.ValidateAccessRequest(req))
	})

	t.Run("emergency authorization id needs the prefix", func(t *testing.T) {
		req := validRequest()
		req.Situation = model.SituationEmergency
		req.EmergencyAuthorizationID = "BAD-42"
		assert.Equal(t, []string{"emergency_authorization_id"},
			fieldsOf(t, v.ValidateAccessRequest(req)))
	})

	t.Run("window missing start and end", func(t *testing.T) {
		req := validRequest()
		req.Window = &model.AccessWindow{Type: "access_window"}
		assert.Equal(t, []string{"access_window.start", "access_window.end"},
			fieldsOf(t, v.ValidateAccessRequest(req)))
	})

	t.Run("window end must follow start", func(t *testing.T) {
		req := validRequest()
		req.Window = &model.AccessWindow{
			Start: req.Timestamp,
			End:   req.Timestamp.Add(-time.Hour),
		}
		assert.Equal(t, []string{"access_window.end"},
			fieldsOf(t, v.ValidateAccessRequest(req)))
	})

	t.Run("well-formed window passes", func(t *testing.T) {
		req := validRequest()
		req.Window = &model.AccessWindow{
			Start: req.Timestamp.Add(-time.Hour),
			End:   req.Timestamp.Add(time.Hour),
		}
		assert.NoError(t, v.ValidateAccessRequest(req))
	})

	t.Run("grant ordering", func(t *testing.T) {
		req := validRequest()
		req.Grant = &model.TemporalGrant{
			Role:       "oncall_low",
			ValidFrom:  req.Timestamp,
			ValidUntil: req.Timestamp.Add(-time.Hour),
		}
		assert.Equal(t, []string{"grant.valid_until"},
			fieldsOf(t, v.ValidateAccessRequest(req)))
	})
}

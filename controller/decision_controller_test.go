// controller/decision_controller_test.go
package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/skyber-io/privacy-firewall/controller"
	fw_errors "github.com/skyber-io/privacy-firewall/errors"
	logger "github.com/skyber-io/privacy-firewall/logging"
	"github.com/skyber-io/privacy-firewall/model"
	"github.com/skyber-io/privacy-firewall/pdp/policy"
	mock_service "github.com/skyber-io/privacy-firewall/test/service_mock"
)

func setupRouter() *gin.Engine {
	r := gin.Default()
	return r
}

func TestDecisionController(t *testing.T) {
	// Initialize logger
	logger.InitLogger("../logging")
	defer logger.Sync()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDecisionService := mock_service.NewMockIDecisionService(ctrl)
	decisionController := controller.NewDecisionController(mockDecisionService)
	router := setupRouter()
	api := router.Group("/")
	decisionController.RegisterRoutes(api)

	t.Run("Evaluate_Success", func(t *testing.T) {
		mockDecisionService.EXPECT().
			Evaluate(gomock.Any(), gomock.Any()).
			Return(&model.AccessDecision{
				ID:         "1",
				Decision:   model.DecisionAllow,
				Confidence: 0.975,
				Method:     model.MethodConsensusAllow,
			}, nil)

		body := strings.NewReader(`{"subject_id":"emp-1","resource_id":"res-1","action":"read"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/decisions/evaluate", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var decision model.AccessDecision
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &decision))
		assert.Equal(t, model.DecisionAllow, decision.Decision)
		assert.Equal(t, model.MethodConsensusAllow, decision.Method)
	})

	t.Run("Evaluate_Failure_MalformedBody", func(t *testing.T) {
		body := strings.NewReader(`{"subject_id":`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/decisions/evaluate", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Evaluate_Failure_Validation", func(t *testing.T) {
		mockDecisionService.EXPECT().
			Evaluate(gomock.Any(), gomock.Any()).
			Return(nil, fw_errors.ValidationErrors{{
				Field: "emergency_authorization_id", Message: "must carry the EMRG- prefix",
			}})

		body := strings.NewReader(`{"subject_id":"emp-1","resource_id":"res-1","action":"read","situation":"EMERGENCY","emergency_authorization_id":"BAD-1"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/decisions/evaluate", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Evaluate_Failure_UnknownSubject", func(t *testing.T) {
		mockDecisionService.EXPECT().
			Evaluate(gomock.Any(), gomock.Any()).
			Return(nil, &fw_errors.FactLookupError{
				Kind: "employee", ID: "emp-ghost", Err: fw_errors.ErrEmployeeNotFound,
			})

		body := strings.NewReader(`{"subject_id":"emp-ghost","resource_id":"res-1","action":"read"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/decisions/evaluate", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Evaluate_Failure_Database", func(t *testing.T) {
		mockDecisionService.EXPECT().
			Evaluate(gomock.Any(), gomock.Any()).
			Return(nil, fw_errors.ErrDatabaseOperation)

		body := strings.NewReader(`{"subject_id":"emp-1","resource_id":"res-1","action":"read"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/decisions/evaluate", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestPolicyController(t *testing.T) {
	// Initialize logger
	logger.InitLogger("../logging")
	defer logger.Sync()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPolicyService := mock_service.NewMockIPolicyService(ctrl)
	policyController := controller.NewPolicyController(mockPolicyService)
	router := setupRouter()
	api := router.Group("/")
	policyController.RegisterRoutes(api)

	t.Run("ListRules_Success", func(t *testing.T) {
		mockPolicyService.EXPECT().
			ListRules(gomock.Any()).
			Return([]policy.Rule{
				{ID: "ceo-full-access", Priority: 85, Effect: policy.EffectAllow},
			}, uint64(3))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/policies", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var payload map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.EqualValues(t, 3, payload["version"])
	})

	t.Run("Reload_Success", func(t *testing.T) {
		mockPolicyService.EXPECT().
			Reload(gomock.Any()).
			Return(7, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/policies/reload", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var payload map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.EqualValues(t, 7, payload["reloaded"])
	})

	t.Run("Reload_Failure_InvalidRules", func(t *testing.T) {
		mockPolicyService.EXPECT().
			Reload(gomock.Any()).
			Return(0, &fw_errors.PolicyLoadError{Issues: []fw_errors.RuleIssue{
				{RuleID: "bad-rule", Message: "unknown fact"},
			}})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/policies/reload", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Reload_Failure_FileMissing", func(t *testing.T) {
		mockPolicyService.EXPECT().
			Reload(gomock.Any()).
			Return(0, fw_errors.ErrPolicyFileMissing)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/policies/reload", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

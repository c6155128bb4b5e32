package utils_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type providerRequest struct {
	Provider string `json:"provider" validate:"required,oneof=stripe paypal"`
}

func TestParseAndValidate(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name           string
		body           string
		expectedOK     bool
		expectedStatus int
		expectedCode   string
	}{
		{name: "Success - Valid body", body: `{"provider": "stripe"}`, expectedOK: true, expectedStatus: http.StatusOK},
		{name: "Failure - Empty body", body: ``, expectedStatus: http.StatusBadRequest, expectedCode: "BAD_REQUEST"},
		{name: "Failure - Malformed JSON", body: `{"provider":`, expectedStatus: http.StatusBadRequest, expectedCode: "BAD_REQUEST"},
		{name: "Failure - Missing field", body: `{}`, expectedStatus: http.StatusBadRequest, expectedCode: "VALIDATION_ERROR"},
		{name: "Failure - Not in set", body: `{"provider": "cash"}`, expectedStatus: http.StatusBadRequest, expectedCode: "VALIDATION_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			var dest providerRequest

			ok := utils.ParseAndValidate(req, rr, &dest, validate)

			assert.Equal(t, tc.expectedOK, ok)
			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedCode != "" {
				assert.Contains(t, rr.Body.String(), tc.expectedCode)
			}
		})
	}
}

func TestValidateStructMessage(t *testing.T) {
	err := utils.ValidateStruct(validator.New(), providerRequest{Provider: "cash"})

	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid field 'provider': must be one of stripe paypal", appErr.Message)
}

func TestParseID(t *testing.T) {
	id := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetPathValue("id", id.String())

	got, err := utils.ParseID(req, "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	req.SetPathValue("id", "not-a-uuid")
	_, err = utils.ParseID(req, "id")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBadRequest))
}

package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

func DecodeJSONBody(r *http.Request, dest any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		slog.Error("Failed to read request body",
			slog.String("error", err.Error()),
			slog.String("endpoint", r.URL.Path),
		)
		return fmt.Errorf("failed to read request body: %w", err)
	}

	defer r.Body.Close()

	if len(body) == 0 {
		slog.Warn("Empty request body", slog.String("endpoint", r.URL.Path))
		return errors.New("request body cannot be empty")
	}

	if err := json.Unmarshal(body, dest); err != nil {
		slog.Warn("Failed to parse request JSON",
			slog.String("error", err.Error()),
			slog.String("endpoint", r.URL.Path),
		)
		return fmt.Errorf("invalid JSON format: %w", err)
	}

	return nil
}

// ValidateStruct converts the first validator failure into a VALIDATION_ERROR.
func ValidateStruct(validate *validator.Validate, data any) error {
	if err := validate.Struct(data); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
			slog.Error("Unexpected validation error", slog.String("error", err.Error()))
			return appErrors.ValidationError("Invalid input data").WithError(err)
		}

		slog.Warn("Input validation failed", slog.String("error", validationErrs.Error()))

		fe := validationErrs[0]
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			return appErrors.AddValidationError(field, "is required").WithError(err)
		case "min", "gte":
			return appErrors.AddValidationError(field, "must be at least "+fe.Param()).WithError(err)
		case "max", "lte":
			return appErrors.AddValidationError(field, "must be at most "+fe.Param()).WithError(err)
		case "oneof":
			return appErrors.AddValidationError(field, "must be one of "+fe.Param()).WithError(err)
		default:
			return appErrors.AddValidationError(field, "is invalid").WithError(err)
		}
	}

	return nil
}

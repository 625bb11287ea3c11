package apierror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// Validation maps a binding failure to a 400 response. Schema violations
// enumerate the offending fields; malformed JSON gets a generic message.
func Validation(ctx *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]FieldError, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			fields = append(fields, FieldError{
				Field: strings.ToLower(fieldError.Field()[:1]) + fieldError.Field()[1:],
				Rule:  fieldError.Tag(),
			})
		}

		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fields})
		return
	}

	ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bookstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customerForm struct {
	FirstName string `json:"first_name" binding:"required,max=5"`
	Email     string `json:"email" binding:"required,email"`
	Quantity  int    `json:"quantity" binding:"min=1"`
}

func bindErrors(t *testing.T, body string) []dto.ValidationDetail {
	t.Helper()
	SetupValidator()
	gin.SetMode(gin.TestMode)

	var details []dto.ValidationDetail
	router := gin.New()
	router.POST("/customers", func(c *gin.Context) {
		var form customerForm
		err := c.ShouldBindJSON(&form)
		var validationErrs validator.ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		details = ValidationDetails(validationErrs)
		c.Status(http.StatusBadRequest)
	})

	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)
	return details
}

func TestValidationDetails(t *testing.T) {
	t.Run("names fields by their json tag", func(t *testing.T) {
		details := bindErrors(t, `{"email":"not-an-email","quantity":0}`)

		assert.ElementsMatch(t, []dto.ValidationDetail{
			{Field: "first_name", Message: "This field is required"},
			{Field: "email", Message: "Invalid email format"},
			{Field: "quantity", Message: "Must be at least 1"},
		}, details)
	})

	t.Run("distinguishes string length from numeric bounds", func(t *testing.T) {
		details := bindErrors(t, `{"first_name":"Jonathan","email":"j@example.com","quantity":2}`)

		require.Len(t, details, 1)
		assert.Equal(t, "first_name", details[0].Field)
		assert.Equal(t, "Must be at most 5 characters", details[0].Message)
	})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockObserver struct {
	mock.Mock
}

func (m *mockObserver) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.Called(method, route, status, elapsed)
}

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	observer := new(mockObserver)
	router := gin.New()
	router.Use(Metrics(observer))
	router.GET("/invoices/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	observer.On("ObserveRequest", http.MethodGet, "/invoices/:id", http.StatusNotFound, mock.AnythingOfType("time.Duration")).Once()
	observer.On("ObserveRequest", http.MethodGet, "unmatched", http.StatusNotFound, mock.AnythingOfType("time.Duration")).Once()

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/invoices/12", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/no/such/route", nil))

	observer.AssertExpectations(t)
	assert.Len(t, observer.Calls, 2)
}

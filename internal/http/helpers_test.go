package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseLimitOffset(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedLimit  int
		expectedOffset int
	}{
		{"defaults", "/", 50, 0},
		{"explicit", "/?limit=10&offset=20", 10, 20},
		{"limit above max", "/?limit=1000", 50, 0},
		{"zero limit", "/?limit=0", 50, 0},
		{"negative offset", "/?offset=-5", 50, 0},
		{"garbage", "/?limit=abc&offset=xyz", 50, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", tc.query, nil)

			limit, offset := parseLimitOffset(c, 50, 200)

			assert.Equal(t, tc.expectedLimit, limit)
			assert.Equal(t, tc.expectedOffset, offset)
		})
	}
}

func TestRespondInternalError_HidesDetailsAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(loggerKey, zap.New(core))

	respondInternalError(c, errors.New("disk on fire"), "list queue")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk on fire")
	assert.Equal(t, 1, logs.FilterMessage("internal error").Len())
}

func TestRespondError_IncludesCode(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, http.StatusConflict, "sweep_in_progress", "busy")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"busy","code":"sweep_in_progress"}`, w.Body.String())
}

func TestRequestLogger_FallsBackToNop(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	assert.NotNil(t, requestLogger(c))
}

package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Scalingo/sclng-language-stats/config"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestStringToLogrusLogType(t *testing.T) {
	tests := []struct {
		input    string
		expected logrus.Level
	}{
		{input: "error", expected: logrus.ErrorLevel},
		{input: "WARN", expected: logrus.WarnLevel},
		{input: "warning", expected: logrus.WarnLevel},
		{input: " Info ", expected: logrus.InfoLevel},
		{input: "debug", expected: logrus.DebugLevel},
		{input: "trace", expected: logrus.TraceLevel},
		{input: "unknown", expected: logrus.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, StringToLogrusLogType(tt.input))
		})
	}
}

func TestSetup(t *testing.T) {
	cfg := config.GetDefault()
	cfg.Logs.Level = "info"
	cfg.Logs.OutputLogsAsJSON = true

	Setup(*cfg)

	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)
}

func TestRequestLogger(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()
	logrus.SetLevel(logrus.DebugLevel)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if assert.NotNil(t, hook.LastEntry()) {
		assert.Equal(t, "/ping", hook.LastEntry().Data["path"])
		assert.Equal(t, http.StatusNoContent, hook.LastEntry().Data["status"])
	}
}

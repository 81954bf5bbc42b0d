package observability

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		raw  string
		want zerolog.Level
		ok   bool
	}{
		{"debug", zerolog.DebugLevel, true},
		{" WARN ", zerolog.WarnLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"trace", zerolog.TraceLevel, true},
		{"", zerolog.InfoLevel, false},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tc := range cases {
		got, ok := ParseLevel(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	if got := LevelFromEnv(zerolog.InfoLevel); got != zerolog.ErrorLevel {
		t.Fatalf("got %v", got)
	}
	t.Setenv(EnvLogLevel, "")
	if got := LevelFromEnv(zerolog.DebugLevel); got != zerolog.DebugLevel {
		t.Fatalf("got %v", got)
	}
}

func TestInitLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLoggerTo(&buf, "pixsteg-test", zerolog.InfoLevel, FormatJSON)
	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"app":"pixsteg-test"`) {
		t.Fatalf("output = %s", out)
	}
}

func TestRequestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	router := gin.New()
	router.Use(RequestLogger(logger), RequestMetricsMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusTeapot, "pong") })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/ping", "418"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if !strings.Contains(buf.String(), `"level":"warn"`) || !strings.Contains(buf.String(), `"status":418`) {
		t.Fatalf("log = %s", buf.String())
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/ping", "418"))
	if after != before+1 {
		t.Fatalf("request counter %v -> %v", before, after)
	}
}

func TestRecordStegoOperation(t *testing.T) {
	before := testutil.ToFloat64(stegoOperations.WithLabelValues("insert", "capacity"))
	RecordStegoOperation("insert", "capacity", 0)
	if got := testutil.ToFloat64(stegoOperations.WithLabelValues("insert", "capacity")); got != before+1 {
		t.Fatalf("counter = %v", got)
	}
}

package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCaptionOperation(t *testing.T) {
	CaptionOperationsTotal.Reset()

	RecordCaptionOperation("add", nil)
	RecordCaptionOperation("add", nil)
	RecordCaptionOperation("add", errors.New("empty"))

	ok := testutil.ToFloat64(CaptionOperationsTotal.WithLabelValues("add", "ok"))
	if ok != 2.0 {
		t.Errorf("Expected ok counter to be 2.0, got %f", ok)
	}
	failed := testutil.ToFloat64(CaptionOperationsTotal.WithLabelValues("add", "error"))
	if failed != 1.0 {
		t.Errorf("Expected error counter to be 1.0, got %f", failed)
	}
}

func TestRecordExport(t *testing.T) {
	ExportsTotal.Reset()

	RecordExport("srt")

	if got := testutil.ToFloat64(ExportsTotal.WithLabelValues("srt")); got != 1.0 {
		t.Errorf("Expected export counter to be 1.0, got %f", got)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/api/captions", "200", 0.01)

	counter := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/captions", "200"))
	if counter != 1.0 {
		t.Errorf("Expected counter to be 1.0, got %f", counter)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordExport("vtt")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "cueline_exports_total") {
		t.Error("exposition is missing cueline_exports_total")
	}
}

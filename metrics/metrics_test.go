package metrics_test

import (
	"bytes"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-lab/rtnetlink/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil/promlint"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(m prometheus.Metric) float64 {
	var mm dto.Metric
	m.Write(&mm)
	ctr := mm.GetCounter()
	if ctr == nil {
		return -1
	}
	return *ctr.Value
}

func TestCounters(t *testing.T) {
	metrics.DecodedMessages.WithLabelValues("link").Inc()
	metrics.DecodedMessages.WithLabelValues("link").Inc()
	metrics.DecodeErrors.WithLabelValues("link").Inc()

	if v := counterValue(metrics.DecodedMessages.WithLabelValues("link")); v < 2 {
		t.Errorf("DecodedMessages = %v, want at least 2", v)
	}
	if v := counterValue(metrics.DecodeErrors.WithLabelValues("link")); v < 1 {
		t.Errorf("DecodeErrors = %v, want at least 1", v)
	}
}

func TestLintMetrics(t *testing.T) {
	metrics.MessageSizeHistogram.WithLabelValues("link").Observe(32)

	server := httptest.NewServer(promhttp.Handler())
	defer server.Close()

	metricReader, err := http.Get(server.URL)
	if err != nil || metricReader == nil {
		t.Fatalf("Could not GET metrics: %v", err)
	}
	metricBytes, err := ioutil.ReadAll(metricReader.Body)
	if err != nil {
		t.Fatalf("Could not read metrics: %v", err)
	}
	metricsLinter := promlint.New(bytes.NewBuffer(metricBytes))
	problems, err := metricsLinter.Lint()
	if err != nil {
		t.Errorf("Could not lint metrics: %v", err)
	}
	for _, p := range problems {
		t.Errorf("Bad metric %v: %v", p.Metric, p.Text)
	}
}

// ABOUTME: Tests for the wizard command helpers
// ABOUTME: Covers default loading and the post-run summary

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pelikan-io/capacity-calculator/backend/models"
)

func TestWizardDefaults_Local(t *testing.T) {
	req, err := wizardDefaults(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Flavor != models.FlavorCache || req.QPS != models.DefaultQPS {
		t.Errorf("expected local defaults, got %+v", req)
	}
}

func TestWizardDefaults_FromBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sizing := models.DefaultSizingRequest("")
		sizing.QPS = 123
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.DefaultsResponse{Sizing: sizing})
	}))
	defer server.Close()

	apiURL = server.URL
	defer func() { apiURL = "" }()

	req, err := wizardDefaults(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.QPS != 123 {
		t.Errorf("expected backend qps 123, got %v", req.QPS)
	}
	if req.Flavor != models.FlavorCache {
		t.Errorf("expected empty flavor to default to cache, got %s", req.Flavor)
	}
}

func TestWizardDefaults_BackendDown(t *testing.T) {
	apiURL = "http://localhost:99999"
	defer func() { apiURL = "" }()

	if _, err := wizardDefaults(context.Background(), false); err == nil {
		t.Error("expected error when backend is unreachable")
	}
}

func TestPrintWizardSummary(t *testing.T) {
	var buf bytes.Buffer
	printWizardSummary(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output without a result, got %q", buf.String())
	}

	printWizardSummary(&buf, &models.CalculationResult{
		Allocation: models.JobAllocation{RAMGB: 4, InstanceCount: 20},
		Bottleneck: models.BottleneckFaultTolerance,
	})
	if got := buf.String(); !strings.Contains(got, "20 instances of 4 GB RAM (fault-tolerance bound)") {
		t.Errorf("unexpected summary %q", got)
	}
}

// ABOUTME: Tests for the cluster command
// ABOUTME: Covers request layering, output modes, and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelikan-io/capacity-calculator/backend/models"
	"github.com/pelikan-io/capacity-calculator/backend/services"
	"github.com/spf13/pflag"
)

func parseClusterFlags(t *testing.T, args ...string) (*pflag.FlagSet, clusterOptions) {
	t.Helper()
	var opts clusterOptions
	fs := pflag.NewFlagSet("cluster", pflag.ContinueOnError)
	bindClusterFlags(fs, &opts)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}
	return fs, opts
}

// sizingServer answers cluster sizing calls with the real calculator.
func sizingServer(t *testing.T) *httptest.Server {
	t.Helper()
	calc := services.NewClusterCalculator()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/sizing/cluster" {
			http.NotFound(w, r)
			return
		}
		var req models.SizingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		res, err := calc.Calculate(req)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(models.ErrorResponse{Error: err.Error()})
			return
		}
		json.NewEncoder(w).Encode(res)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestBuildSizingRequest_Defaults(t *testing.T) {
	fs, opts := parseClusterFlags(t)

	req, err := buildSizingRequest(fs, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Flavor != models.FlavorCache {
		t.Errorf("expected cache flavor, got %s", req.Flavor)
	}
	if req.QPS != models.DefaultQPS || req.KeyCount != models.DefaultKeyCount {
		t.Errorf("expected defaults, got %+v", req)
	}
	if len(req.RAMCandidatesGB) != 2 {
		t.Errorf("expected default RAM tiers, got %v", req.RAMCandidatesGB)
	}
}

func TestBuildSizingRequest_Flags(t *testing.T) {
	fs, opts := parseClusterFlags(t,
		"--qps", "2000000", "--ram-gb", "8,16", "--tls", "--flavor", "rds", "--failure-domain", "10")

	req, err := buildSizingRequest(fs, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Flavor != models.FlavorReplicatedCache {
		t.Errorf("expected alias to resolve to replicated-cache, got %s", req.Flavor)
	}
	if req.QPS != 2e6 || !req.TLS || req.FailureDomainPercent != 10 {
		t.Errorf("unexpected request %+v", req)
	}
	if len(req.RAMCandidatesGB) != 2 || req.RAMCandidatesGB[0] != 8 || req.RAMCandidatesGB[1] != 16 {
		t.Errorf("expected RAM tiers [8 16], got %v", req.RAMCandidatesGB)
	}
}

func TestBuildSizingRequest_FlagsOverrideWorkloadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workload.yaml")
	body := "flavor: replicated-cache\nqps: 500000\nkey_count: 1000000\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	fs, opts := parseClusterFlags(t, "--file", path, "--key-count", "42")

	req, err := buildSizingRequest(fs, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Flavor != models.FlavorReplicatedCache {
		t.Errorf("expected flavor from file, got %s", req.Flavor)
	}
	if req.QPS != 500000 {
		t.Errorf("expected qps from file, got %v", req.QPS)
	}
	if req.KeyCount != 42 {
		t.Errorf("expected flag to override file key_count, got %d", req.KeyCount)
	}
	if req.ItemSize != models.DefaultItemSize {
		t.Errorf("expected default item size, got %d", req.ItemSize)
	}
}

func TestBuildSizingRequest_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flavor", []string{"--flavor", "memcached"}},
		{"missing file", []string{"--file", "/nonexistent/workload.yaml"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fs, opts := parseClusterFlags(t, tc.args...)
			if _, err := buildSizingRequest(fs, opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunCluster_LocalPlain(t *testing.T) {
	req := models.DefaultSizingRequest(models.FlavorCache)

	var buf bytes.Buffer
	exitCode := runCluster(context.Background(), &buf, newLocalCalculator(), &req, outputPlain, 80)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	for _, want := range []string{"Instances:        20", "fault-tolerance", "2^26 buckets", "(selected)"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, buf.String())
		}
	}
}

func TestRunCluster_Styled(t *testing.T) {
	req := models.DefaultSizingRequest(models.FlavorCache)

	var buf bytes.Buffer
	if exitCode := runCluster(context.Background(), &buf, newLocalCalculator(), &req, outputStyled, 100); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Cluster Sizing") {
		t.Error("expected styled report")
	}
}

func TestRunCluster_BackendJSON(t *testing.T) {
	server := sizingServer(t)
	req := models.DefaultSizingRequest(models.FlavorStatelessPing)
	req.QPS = 1e8

	var buf bytes.Buffer
	c, source := newCalculatorFor(server.URL)
	exitCode := runCluster(context.Background(), &buf, c, &req, outputJSON, 0)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if source != server.URL {
		t.Errorf("expected source %s, got %s", server.URL, source)
	}

	var res models.CalculationResult
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if res.Allocation.InstanceCount != 1667 {
		t.Errorf("expected 1667 instances, got %d", res.Allocation.InstanceCount)
	}
}

func TestRunCluster_InvalidRequest(t *testing.T) {
	server := sizingServer(t)
	req := models.DefaultSizingRequest(models.FlavorCache)
	req.QPS = 0

	for name, calc := range map[string]calculator{
		"local":   newLocalCalculator(),
		"backend": mustCalculatorFor(server.URL),
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if exitCode := runCluster(context.Background(), &buf, calc, &req, outputPlain, 80); exitCode != 2 {
				t.Errorf("expected exit code 2, got %d", exitCode)
			}
			if !strings.Contains(buf.String(), "Error:") || !strings.Contains(buf.String(), "qps") {
				t.Errorf("expected qps error, got %q", buf.String())
			}
		})
	}
}

func TestRunCluster_ConnectionError(t *testing.T) {
	req := models.DefaultSizingRequest(models.FlavorCache)

	var buf bytes.Buffer
	exitCode := runCluster(context.Background(), &buf, mustCalculatorFor("http://localhost:99999"), &req, outputPlain, 80)

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Error:") {
		t.Error("expected error message in output")
	}
}

func TestLocalCalculator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := models.DefaultSizingRequest(models.FlavorCache)
	if _, err := newLocalCalculator().SizeCluster(ctx, &req); err == nil {
		t.Error("expected error for canceled context")
	}
}

func newCalculatorFor(url string) (calculator, string) {
	apiURL = url
	defer func() { apiURL = "" }()
	return newCalculator(false)
}

func mustCalculatorFor(url string) calculator {
	c, _ := newCalculatorFor(url)
	return c
}

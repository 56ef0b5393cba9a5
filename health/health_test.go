package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/zero-day-ai/pathbridge/transport"
)

func TestBinaryCheck(t *testing.T) {
	tests := []struct {
		name          string
		binary        string
		expectHealthy bool
	}{
		{
			name:          "existing binary sh",
			binary:        "sh",
			expectHealthy: true,
		},
		{
			name:          "non-existent binary",
			binary:        "this-binary-definitely-does-not-exist-12345",
			expectHealthy: false,
		},
		{
			name:          "empty binary name",
			binary:        "",
			expectHealthy: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := BinaryCheck(tt.binary)

			if tt.expectHealthy && !status.IsHealthy() {
				t.Errorf("expected healthy status, got %s: %s", status.Status, status.Message)
			}
			if !tt.expectHealthy && status.IsHealthy() {
				t.Errorf("expected unhealthy status, got %s: %s", status.Status, status.Message)
			}
			if status.Message == "" {
				t.Error("expected non-empty message")
			}
		})
	}
}

func TestFileCheck(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plan.txt")
	if err := os.WriteFile(file, []byte("REACH-GOAL\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if s := FileCheck(file); !s.IsHealthy() {
		t.Errorf("file: expected healthy, got %s: %s", s.Status, s.Message)
	}
	if s := FileCheck(dir); !s.IsHealthy() {
		t.Errorf("dir: expected healthy, got %s: %s", s.Status, s.Message)
	}
	if s := FileCheck(filepath.Join(dir, "missing")); !s.IsUnhealthy() {
		t.Errorf("missing: expected unhealthy, got %s", s.Status)
	}
	if s := FileCheck(""); !s.IsUnhealthy() {
		t.Errorf("empty: expected unhealthy, got %s", s.Status)
	}
}

func TestPipeCheck(t *testing.T) {
	dir := t.TempDir()

	fifo := filepath.Join(dir, "req")
	if err := transport.EnsureFIFO(fifo, 0o600); err != nil {
		t.Fatal(err)
	}
	if s := PipeCheck(fifo); !s.IsHealthy() {
		t.Errorf("fifo: expected healthy, got %s: %s", s.Status, s.Message)
	}

	regular := filepath.Join(dir, "regular")
	if err := os.WriteFile(regular, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if s := PipeCheck(regular); !s.IsUnhealthy() {
		t.Errorf("regular file: expected unhealthy, got %s", s.Status)
	}

	if s := PipeCheck(filepath.Join(dir, "later")); !s.IsDegraded() {
		t.Errorf("missing in writable dir: expected degraded, got %s: %s", s.Status, s.Message)
	}

	if s := PipeCheck(filepath.Join(dir, "nodir", "req")); !s.IsUnhealthy() {
		t.Errorf("missing dir: expected unhealthy, got %s", s.Status)
	}
}

func TestRedisCheck(t *testing.T) {
	mr := miniredis.RunT(t)

	if s := RedisCheck(context.Background(), fmt.Sprintf("redis://%s", mr.Addr())); !s.IsHealthy() {
		t.Errorf("expected healthy, got %s: %s", s.Status, s.Message)
	}
	if s := RedisCheck(context.Background(), "invalid://url"); !s.IsUnhealthy() {
		t.Errorf("invalid URL: expected unhealthy, got %s", s.Status)
	}

	addr := mr.Addr()
	mr.Close()
	if s := RedisCheck(context.Background(), fmt.Sprintf("redis://%s", addr)); !s.IsUnhealthy() {
		t.Errorf("closed server: expected unhealthy, got %s", s.Status)
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name   string
		checks []Status
		want   string
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Status{healthy("a"), healthy("b")}, StatusHealthy},
		{"one degraded", []Status{healthy("a"), degraded("b", nil)}, StatusDegraded},
		{"unhealthy wins", []Status{degraded("a", nil), unhealthy("b", nil)}, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Combine(tt.checks...); got.Status != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Status)
			}
		})
	}
}

func TestCombineReportsNames(t *testing.T) {
	got := Combine(
		unhealthy("no such file", nil).Named("request pipe"),
		healthy("ok").Named("companion"),
	)
	failed, ok := got.Details["failed_checks"].([]string)
	if !ok || len(failed) != 1 || failed[0] != "request pipe" {
		t.Errorf("unexpected failed checks: %v", got.Details["failed_checks"])
	}
}

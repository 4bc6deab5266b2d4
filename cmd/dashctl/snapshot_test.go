package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/subcommands"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// setupDashctlEnv points the CLI at fake backend and quote provider servers.
func setupDashctlEnv(t *testing.T, holdingsStatus int) {
	t.Helper()

	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/holdings/7" {
			http.NotFound(w, r)
			return
		}
		if holdingsStatus != http.StatusOK {
			w.WriteHeader(holdingsStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"1","symbol":"AAPL","name":"Apple","quantity":10,"purchasePrice":100,"assetType":"STOCK"}]`))
	}))
	t.Cleanup(backendSrv.Close)

	quoteSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quote":
			w.Write([]byte(`{"c":120}`))
		case "/news":
			w.Write([]byte(`[{"headline":"Markets rally","source":"Wire","url":"https://example.com/a","datetime":1700000000}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(quoteSrv.Close)

	t.Setenv("BACKEND_URL", backendSrv.URL)
	t.Setenv("PORTFOLIO_ID", "7")
	t.Setenv("FINNHUB_URL", quoteSrv.URL)
	t.Setenv("FINNHUB_TOKEN", "test-token")
	t.Setenv("FINNHUB_TOKEN_ENCRYPTED", "")
}

func TestSnapshotCmd(t *testing.T) {
	t.Run("prints the valued snapshot as JSON", func(t *testing.T) {
		setupDashctlEnv(t, http.StatusOK)

		cmd := &snapshotCmd{}
		f := flag.NewFlagSet("snapshot", flag.ContinueOnError)
		cmd.SetFlags(f)
		if err := f.Parse([]string{"-json"}); err != nil {
			t.Fatalf("Failed to parse flags: %v", err)
		}

		var status subcommands.ExitStatus
		out := runWithStdio(t, "", func() {
			status = cmd.Execute(context.Background(), f)
		})
		if status != subcommands.ExitSuccess {
			t.Fatalf("Expected ExitSuccess, got %v (output %q)", status, out)
		}

		var snap model.Snapshot
		if err := json.Unmarshal([]byte(out), &snap); err != nil {
			t.Fatalf("Output is not a snapshot: %v", err)
		}
		if snap.Status != model.StatusActive {
			t.Errorf("Expected status active, got %s", snap.Status)
		}
		if len(snap.Holdings) != 1 || snap.Holdings[0].Symbol != "AAPL" {
			t.Fatalf("Expected one AAPL row, got %+v", snap.Holdings)
		}
		if snap.Summary.TotalValue != 1200 {
			t.Errorf("Expected total value 1200, got %v", snap.Summary.TotalValue)
		}
	})

	t.Run("plain markdown lists the holdings", func(t *testing.T) {
		setupDashctlEnv(t, http.StatusOK)

		cmd := &snapshotCmd{}
		f := flag.NewFlagSet("snapshot", flag.ContinueOnError)
		cmd.SetFlags(f)
		if err := f.Parse([]string{"-plain"}); err != nil {
			t.Fatalf("Failed to parse flags: %v", err)
		}

		var status subcommands.ExitStatus
		out := runWithStdio(t, "", func() {
			status = cmd.Execute(context.Background(), f)
		})
		if status != subcommands.ExitSuccess {
			t.Fatalf("Expected ExitSuccess, got %v", status)
		}
		if !strings.Contains(out, "AAPL") {
			t.Errorf("Expected AAPL in output, got %q", out)
		}
	})

	t.Run("backend failure exits with failure", func(t *testing.T) {
		setupDashctlEnv(t, http.StatusInternalServerError)

		cmd := &snapshotCmd{}
		f := flag.NewFlagSet("snapshot", flag.ContinueOnError)
		cmd.SetFlags(f)
		if err := f.Parse([]string{"-json"}); err != nil {
			t.Fatalf("Failed to parse flags: %v", err)
		}

		var status subcommands.ExitStatus
		runWithStdio(t, "", func() {
			status = cmd.Execute(context.Background(), f)
		})
		if status != subcommands.ExitFailure {
			t.Errorf("Expected ExitFailure, got %v", status)
		}
	})
}

func TestNewsCmd(t *testing.T) {
	t.Run("prints headlines", func(t *testing.T) {
		setupDashctlEnv(t, http.StatusOK)

		cmd := &newsCmd{}
		f := flag.NewFlagSet("news", flag.ContinueOnError)
		cmd.SetFlags(f)
		if err := f.Parse([]string{"-plain", "-n", "5"}); err != nil {
			t.Fatalf("Failed to parse flags: %v", err)
		}

		var status subcommands.ExitStatus
		out := runWithStdio(t, "", func() {
			status = cmd.Execute(context.Background(), f)
		})
		if status != subcommands.ExitSuccess {
			t.Fatalf("Expected ExitSuccess, got %v", status)
		}
		if !strings.Contains(out, "[Markets rally](https://example.com/a)") {
			t.Errorf("Expected headline link in output, got %q", out)
		}
	})

	t.Run("rejects a non-positive count", func(t *testing.T) {
		cmd := &newsCmd{}
		f := flag.NewFlagSet("news", flag.ContinueOnError)
		cmd.SetFlags(f)
		if err := f.Parse([]string{"-n", "0"}); err != nil {
			t.Fatalf("Failed to parse flags: %v", err)
		}

		if status := cmd.Execute(context.Background(), f); status != subcommands.ExitUsageError {
			t.Errorf("Expected ExitUsageError, got %v", status)
		}
	})
}

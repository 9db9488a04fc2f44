package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthServer(t *testing.T, code int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProbeHealth_OK(t *testing.T) {
	srv := healthServer(t, http.StatusOK, `{"status":200}`)
	assert.NoError(t, probeHealth(context.Background(), srv.URL+"/", time.Second))
}

func TestProbeHealth_DatabaseDown(t *testing.T) {
	srv := healthServer(t, http.StatusInternalServerError, `{"detail":"Database connection failed"}`)

	err := probeHealth(context.Background(), srv.URL, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Database connection failed")
}

func TestProbeHealth_Unreachable(t *testing.T) {
	assert.Error(t, probeHealth(context.Background(), "http://127.0.0.1:1", time.Second))
}

func TestProbeCommand(t *testing.T) {
	srv := healthServer(t, http.StatusOK, `{"status":200}`)

	cmd := &cobra.Command{Use: "statusapi"}
	cmd.AddCommand(newProbeCmd())

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"probe", "--url", srv.URL})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "ok\n", out.String())
}

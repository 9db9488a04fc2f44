package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/imroc/req/v3"
	"github.com/openmined/statusapi/internal/server/handlers/api"
	"github.com/openmined/statusapi/internal/server/handlers/health"
	"github.com/openmined/statusapi/internal/version"
	"github.com/spf13/cobra"
)

const defaultProbeURL = "http://127.0.0.1:8000"

func init() {
	rootCmd.AddCommand(newProbeCmd())
}

func newProbeCmd() *cobra.Command {
	var url string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check a running server's /health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := probeHealth(cmd.Context(), url, timeout); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return err
		},
	}

	cmd.Flags().StringVarP(&url, "url", "u", defaultProbeURL, "Base URL of the server")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 5*time.Second, "Request timeout")
	return cmd
}

func probeHealth(ctx context.Context, baseURL string, timeout time.Duration) error {
	client := req.C().
		SetTimeout(timeout).
		SetUserAgent(version.AppName + "/" + version.Version)

	var ok health.HealthResponse
	var failed api.ErrorResponse
	target := strings.TrimRight(baseURL, "/") + "/health"

	res, err := client.R().
		SetContext(ctx).
		SetSuccessResult(&ok).
		SetErrorResult(&failed).
		Get(target)
	if err != nil {
		return fmt.Errorf("probe %s: %w", target, err)
	}

	if res.StatusCode != http.StatusOK {
		if failed.Detail != "" {
			return fmt.Errorf("probe %s: %s: %s", target, res.Status, failed.Detail)
		}
		return fmt.Errorf("probe %s: %s", target, res.Status)
	}
	return nil
}

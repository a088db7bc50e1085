package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	healthcheckTimeout int
	healthcheckURL     string
)

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check if the server is healthy",
	Long: `Calls /api/healthz and exits 0 when the server reports healthy.

Used by the Docker HEALTHCHECK directive.

Exit codes:
  0 - healthy
  1 - unhealthy or unreachable
  2 - invalid response`,
	RunE: runHealthcheck,
}

func init() {
	healthcheckCmd.Flags().IntVar(&healthcheckTimeout, "timeout", 5, "timeout in seconds")
	healthcheckCmd.Flags().StringVar(&healthcheckURL, "url", "", "health check URL (default: http://localhost:{SERVER_PORT}/api/healthz)")
}

func runHealthcheck(cmd *cobra.Command, args []string) error {
	url := healthcheckURL
	if url == "" {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		url = fmt.Sprintf("http://localhost:%s/api/healthz", port)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(healthcheckTimeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "health check failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = resp.Body.Close() }()

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		fmt.Fprintf(os.Stderr, "invalid response: %v\n", err)
		os.Exit(2)
	}

	switch payload.Status {
	case "healthy", "degraded":
		fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", payload.Status)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "status: %s\n", payload.Status)
		os.Exit(1)
	}
	return nil
}

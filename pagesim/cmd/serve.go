package cmd

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/pkg/browser"
	"github.com/sarchlab/pagesim/monitoring"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the monitoring server to create and step runs over HTTP.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "Port to listen on. 0 picks a free port.")
	serveCmd.Flags().Bool("open", false, "Open the monitoring page in a browser.")
}

func runServe(cmd *cobra.Command, _ []string) error {
	port, _ := cmd.Flags().GetInt("port")
	open, _ := cmd.Flags().GetBool("open")

	m := monitoring.NewMonitor().
		WithLogger(logger).
		WithLimits(limits).
		WithPortNumber(port)

	addr, err := m.StartServer()
	if err != nil {
		return err
	}

	if open {
		url := fmt.Sprintf("http://localhost:%d", addr.(*net.TCPAddr).Port)
		if err := browser.OpenURL(url); err != nil {
			logger.Warn("cannot open browser", "url", url, "err", err)
		}
	}

	<-cmd.Context().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return m.Shutdown(ctx)
}

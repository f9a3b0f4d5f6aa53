package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// startPrometheusServer optionally exposes castlink process metrics. The
// endpoint is independent from the relay listener, so scraping keeps working
// while a handshake is in flight.
func startPrometheusServer(c *cli.Context) {
	if !c.Bool("metrics") {
		return
	}
	metricsAddr := fmt.Sprintf("%s:%d", c.String("metrics-host"), c.Int("metrics-port"))
	http.Handle("/metrics", promhttp.Handler())
	logrus.Infof("Exposing castlink metrics on %s/metrics", metricsAddr)
	go func() {
		metricsServer := &http.Server{
			Addr:              metricsAddr,
			ReadHeaderTimeout: 3 * time.Second,
		}
		if listenErr := metricsServer.ListenAndServe(); listenErr != nil {
			logrus.Fatalf("Metrics server terminated: %v", listenErr)
		}
	}()
}

package monitoring

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/arl/statsviz"
	"github.com/okieraised/udashboard/internal/config"
	"github.com/okieraised/udashboard/internal/constants"
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

func getMonitoringPort() int {
	port := viper.GetInt(config.AgentMonitoringPort)
	if port <= 0 {
		return constants.AgentDefaultMonitoringPort
	}
	return port
}

// NewMonitoringServer serves the runtime dashboard under /debug/statsviz/ and
// prometheus metrics under /metrics until ctx is done.
func NewMonitoringServer(ctx context.Context) error {
	log.Default().Info("Starting monitoring server")
	vizServer := http.NewServeMux()
	err := statsviz.Register(vizServer)
	if err != nil {
		return errors.Wrap(err, "failed to register statsviz handlers")
	}
	vizServer.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", getMonitoringPort()),
		Handler:           vizServer,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Default().Info("Shutting down monitoring server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Default().Error(errors.Wrap(err, "failed to shutdown monitoring server").Error())
		}
		return nil
	case err := <-errCh:
		wErr := errors.Wrap(err, "failed to start monitoring server")
		log.Default().Error(wErr.Error())
		return wErr
	}
}

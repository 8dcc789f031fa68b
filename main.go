package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/joho/godotenv"
	"github.com/okieraised/udashboard/internal/agent/frame_archiver"
	"github.com/okieraised/udashboard/internal/config"
	"github.com/okieraised/udashboard/internal/constants"
	"github.com/okieraised/udashboard/internal/dashboard"
	"github.com/okieraised/udashboard/internal/infrastructure/local_cache"
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"github.com/okieraised/udashboard/internal/infrastructure/mqtt_client"
	"github.com/okieraised/udashboard/internal/infrastructure/s3_client"
	"github.com/okieraised/udashboard/internal/infrastructure/tracer_client"
	"github.com/okieraised/udashboard/internal/ir"
	"github.com/okieraised/udashboard/internal/pipeline"
	"github.com/okieraised/udashboard/internal/server/grpc_server"
	"github.com/okieraised/udashboard/internal/server/monitoring"
	"github.com/okieraised/udashboard/internal/server/rest_server"
	"github.com/okieraised/udashboard/internal/server/rest_server/routers"
	"github.com/okieraised/udashboard/internal/server/rest_server/services/v1/restful"
	"github.com/okieraised/udashboard/internal/server/rest_server/services/v1/ws"
	"github.com/okieraised/udashboard/internal/signaling"
	"github.com/okieraised/udashboard/internal/telemetry"
	"github.com/okieraised/udashboard/internal/utilities"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var once sync.Once

func mirrorEnvCase() {
	for _, kv := range os.Environ() {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		k, v := kv[:i], kv[i+1:]
		_ = os.Setenv(strings.ToUpper(k), v)
		_ = os.Setenv(strings.ToLower(k), v)
	}
}

func loadDotenvIfExists(filename string, overload bool) (bool, error) {
	if _, err := os.Stat(filename); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if overload {
		return true, godotenv.Overload(filename)
	}
	return true, godotenv.Load(filename)
}

func readConfigIfExists(path string, merge bool) (bool, error) {
	viper.SetConfigFile(path)
	var err error
	if merge {
		err = viper.MergeInConfig()
	} else {
		err = viper.ReadInConfig()
	}
	if err == nil {
		return true, nil
	}
	var nf viper.ConfigFileNotFoundError
	if errors.As(err, &nf) || os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func detectProfile() string {
	from := func(k string) (string, bool) {
		if v, ok := os.LookupEnv(k); ok {
			return strings.ToLower(v), true
		}
		if v, ok := os.LookupEnv(strings.ToUpper(k)); ok {
			return strings.ToLower(v), true
		}
		if v, ok := os.LookupEnv(strings.ToLower(k)); ok {
			return strings.ToLower(v), true
		}
		return "", false
	}
	if v, ok := from("APP_ENV"); ok {
		return v
	}
	return "dev"
}

func Load() error {
	envFound, err := loadDotenvIfExists(".env", false)
	if err != nil {
		return err
	}
	if envFound {
		mirrorEnvCase()
	}
	profile := detectProfile()

	if found, err := loadDotenvIfExists("."+profile+".env", true); err != nil {
		return err
	} else if found {
		mirrorEnvCase()
	}

	cfgFound, err := readConfigIfExists("conf/config.toml", false)
	if err != nil {
		return err
	}

	if !envFound && !cfgFound {
		return fmt.Errorf("no configuration sources found: missing both .env and conf/config.toml")
	}

	if _, err := readConfigIfExists("conf/"+profile+".config.toml", true); err != nil {
		return err
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	return nil
}

func durationSetting(key string, def time.Duration) time.Duration {
	d, err := utilities.ParseOrDefault(viper.GetString(key), def)
	if err != nil || d <= 0 {
		log.Default().Warn(fmt.Sprintf("Invalid duration for [%s], using default [%s]", key, def))
		return def
	}
	return d
}

func intSetting(key string, def int) int {
	if v := viper.GetInt(key); v > 0 {
		return v
	}
	return def
}

func agentID() string {
	if id := viper.GetString(config.AgentID); id != "" {
		return id
	}
	host, err := os.Hostname()
	if err != nil {
		return "udashboard"
	}
	return host
}

// validateDashboard logs every problem in cfg before failing.
func validateDashboard(cfg *ir.Config) error {
	err := cfg.Validate()
	for _, e := range multierr.Errors(err) {
		log.Default().Error("Invalid dashboard", zap.Error(e))
	}
	return err
}

func init() {
	once.Do(func() {
		err := Load()
		if err != nil {
			panic(fmt.Sprintf("Failed to setup service configuration: %v", err))
		}

		// Init default logger
		err = log.InitDefault()
		if err != nil {
			panic(err)
		}

		if viper.GetBool(config.AgentEnableArchive) {
			log.Default().Info("Started initializing client connection to external S3 storage")
			s3Opts := []s3_client.Option{
				s3_client.WithRegion(viper.GetString(config.S3Region)),
				s3_client.WithEndpoint(viper.GetString(config.S3Endpoint), viper.GetBool(config.S3UsePathStyle)),
				s3_client.WithRetry(5, 30*time.Second),
				s3_client.WithHTTPClient(
					&http.Client{
						Transport: &http.Transport{
							TLSClientConfig: &tls.Config{
								InsecureSkipVerify: viper.GetBool(config.S3TLSInsecureSkipVerify),
							},
						},
					},
				),
			}
			if viper.GetString(config.S3AccessKey) != "" {
				s3Opts = append(s3Opts, s3_client.WithStaticCredentials(
					viper.GetString(config.S3AccessKey), viper.GetString(config.S3SecretKey), ""),
				)
			}
			err = s3_client.NewS3Client(context.Background(), s3Opts...)
			if err != nil {
				log.Default().Fatal(fmt.Sprintf("Failed to initialize client connection to external S3 storage: %v", err))
			}
			log.Default().Info("Finished initializing client connection to external S3 storage")
		}

		// Initialize MQTT client if enabled
		if viper.GetBool(config.AgentEnableMQTT) {
			log.Default().Info("Started initializing client connection to MQTT broker")
			err = mqtt_client.NewMQTTClient(
				viper.GetString(config.MqttEndpoint),
				viper.GetString(config.MqttClientId),
				mqtt_client.WithAutoReconnect(viper.GetBool(config.MqttAutoReconnect)),
				mqtt_client.WithConnectTimeout(durationSetting(config.MqttConnectTimeout, constants.MqttDefaultConnectTimeout)),
				mqtt_client.WithTLSInsecureSkipVerify(viper.GetBool(config.MqttTLSInsecureSkipVerify)),
			)
			if err != nil {
				log.Default().Fatal(fmt.Sprintf("Failed to initialize client connection to MQTT broker: %v", err))
			}
			log.Default().Info("Finished initializing client connection to MQTT broker")
		}

		// Initialize OTEL tracer if enabled
		if viper.GetBool(config.AgentEnableTracing) {
			log.Default().Info("Started initializing OTEL tracer")
			tracerOpts := []tracer_client.Option{
				tracer_client.WithEndpoint(viper.GetString(config.TracingEndpoint)),
				tracer_client.WithInsecure(viper.GetBool(config.TracingInsecure)),
				tracer_client.WithAgentID(agentID()),
			}
			if ratio := viper.GetFloat64(config.TracingSampleRatio); ratio > 0 {
				tracerOpts = append(tracerOpts, tracer_client.WithSampleRatio(ratio))
			}
			_, err = tracer_client.NewTracerClient(tracerOpts...)
			if err != nil {
				log.Default().Fatal(fmt.Sprintf("Failed to initialize OTEL tracer: %v", err))
			}
			log.Default().Info("Finished initializing OTEL tracer")
		}

		log.Default().Info("Finished initializing connection to external services")
	})
}

func main() {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	defer func() {
		_ = tracer_client.Shutdown(context.Background())
		mqtt_client.Close(250 * time.Millisecond)
		_ = log.Sync()
	}()

	dash := dashboard.EngineBay()
	if err := validateDashboard(dash); err != nil {
		log.Default().Error(fmt.Sprintf("Refusing to start with an invalid dashboard: %v", err))
		return
	}

	// Initialize local cache
	log.Default().Info("Started initializing local cache")
	cacheOpts := []local_cache.Option{
		local_cache.WithMaxCost(local_cache.MaxCostForPages(len(dash.Pages))),
		local_cache.WithOnEvict(func(item *ristretto.Item) {
			log.Default().Debug(fmt.Sprintf("Evicted frame cache entry [%d]", item.Key))
		}),
	}
	if viper.GetBool(config.AgentEnableMonitoring) {
		cacheOpts = append(cacheOpts, local_cache.WithMetrics())
	}
	err := local_cache.NewLocalCache(cacheOpts...)
	if err != nil {
		log.Default().Fatal(fmt.Sprintf("Failed to initialize local cache: %v", err))
	}
	log.Default().Info("Finished initializing local cache")

	store := telemetry.NewStore(dash.Channels)
	hub := signaling.NewWebsocketHub(agentID())
	healthReporter := grpc_server.NewHealthReporter()

	engine := pipeline.NewEngine(dash, store,
		pipeline.WithInterval(durationSetting(config.DashboardFrameInterval, constants.DefaultFrameInterval)),
		pipeline.WithParallelGauges(intSetting(config.DashboardParallelGauges, constants.DefaultParallelGauges)),
		pipeline.WithFrameCache(local_cache.Cache(), durationSetting(config.DashboardFrameCacheTTL, constants.DefaultFrameCacheTTL)),
		pipeline.WithPublisher(hub),
		pipeline.WithFirstFrameHook(healthReporter.MarkServing),
		pipeline.WithMetrics(pipeline.NewMetrics(prometheus.DefaultRegisterer)),
	)

	// Init other services
	parentCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(parentCtx)

	hub.Run(ctx)

	// Frame engine
	g.Go(func() error {
		return engine.Run(ctx)
	})

	// Channel samples from the broker
	if viper.GetBool(config.AgentEnableMQTT) {
		g.Go(func() error {
			source := telemetry.NewMQTTSource(mqtt_client.Client(), store,
				telemetry.WithTopicPrefix(viper.GetString(config.MqttChannelTopicPrefix)),
				telemetry.WithQoS(byte(viper.GetInt(config.MqttChannelQoS))),
			)
			return source.Start(ctx)
		})
	}

	if viper.GetBool(config.AgentEnableKafka) {
		reader, err := telemetry.NewKafkaReader(telemetry.KafkaReaderConfig{
			Brokers: viper.GetStringSlice(config.KafkaBrokers),
			Topic:   viper.GetString(config.KafkaChannelTopic),
			GroupID: viper.GetString(config.KafkaGroupID),
		})
		if err != nil {
			log.Default().Fatal(fmt.Sprintf("Failed to initialize kafka reader: %v", err))
		}
		g.Go(func() error {
			return telemetry.NewKafkaSource(reader, store).Start(ctx)
		})
	}

	// Frame archive
	if viper.GetBool(config.AgentEnableArchive) {
		g.Go(func() error {
			archiver := frame_archiver.NewArchiver(engine, s3_client.Client(), viper.GetString(config.DashboardArchiveBucket),
				frame_archiver.WithInterval(durationSetting(config.DashboardArchiveInterval, constants.DefaultArchiveInterval)),
				frame_archiver.WithPrefix(viper.GetString(config.DashboardArchivePrefix)),
			)
			return archiver.Run(ctx)
		})
	}

	// Init GRPC server
	if viper.GetBool(config.AgentEnableGRPC) {
		g.Go(func() error {
			gErr := grpc_server.NewGRPCServer(ctx, healthReporter, nil)
			if gErr != nil {
				return gErr
			}
			return ctx.Err()
		})
	}

	// Init profiling
	g.Go(func() error {
		if viper.GetBool(config.AgentEnableMonitoring) {
			mErr := monitoring.NewMonitoringServer(ctx)
			if mErr != nil {
				return mErr
			}
		}

		return ctx.Err()
	})

	// Init HTTP server
	g.Go(func() error {
		// app state
		appState := routers.NewAppState()

		// v1 restful svc
		v1RestState := routers.NewV1RestState()
		v1RestState.SetHealthcheckService(
			restful.NewHealthcheckService(
				restful.WithEngineStatus(engine),
				restful.WithClientCounter(hub),
				restful.WithCacheRatio(local_cache.Cache().Metrics),
			),
		)
		v1RestState.SetFrameService(
			restful.NewFrameService(
				restful.WithFrameCache(local_cache.Cache()),
				restful.WithPageCount(len(dash.Pages)),
			),
		)
		v1RestState.SetChannelService(
			restful.NewChannelService(
				restful.WithTelemetryStore(store),
			),
		)
		v1RestState.SetDashboardService(
			restful.NewDashboardService(
				restful.WithDashboardConfig(dash),
			),
		)
		appState.SetV1RestState(v1RestState)

		websocketState := routers.NewWebsocketState()
		websocketState.SetWebsocketService(
			ws.NewWebsocketService(
				ws.WithWebsocketHub(hub),
			),
		)
		appState.SetWebsocketState(websocketState)

		rootRouter := routers.NewRootRouter(appState, rest_server.HTTPRequestTimeout())
		rErr := rest_server.NewHTTPServer(ctx, rootRouter.InitRouters)
		if rErr != nil {
			return rErr
		}
		return ctx.Err()
	})

	select {
	case sig := <-sigCh:
		log.Default().Debug(fmt.Sprintf("Signal received: %v", sig))
		cancel()

		done := make(chan error, 1)
		go func() {
			done <- g.Wait()
		}()

		select {
		case err = <-done:
			log.Default().Info("All tasks exited, shutting down agent")
			return
		case sig2 := <-sigCh:
			log.Default().Debug(fmt.Sprintf("Second signal received: %v", sig2))
			return
		case <-time.After(constants.GraceWaitPeriod):
			log.Default().Info("Grace period timed out, forcing exit")
			return
		}

	case err = <-func() chan error {
		ch := make(chan error, 1)
		go func() {
			ch <- g.Wait()
		}()
		return ch
	}():
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Default().Error(fmt.Sprintf("Services finished early with error: %v", err))
			return
		}
		log.Default().Info("Services finished")
	}
}

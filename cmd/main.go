package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Artexxx/HR-Employees-CSV/internal/api"
	"github.com/Artexxx/HR-Employees-CSV/internal/config"
	"github.com/Artexxx/HR-Employees-CSV/internal/dto"
	"github.com/Artexxx/HR-Employees-CSV/internal/exchange/producer"
	"github.com/Artexxx/HR-Employees-CSV/internal/repository/employee"
	"github.com/Artexxx/HR-Employees-CSV/internal/storage/csvfile"
	"github.com/Artexxx/HR-Employees-CSV/internal/storage/pgtable"
	"github.com/Artexxx/HR-Employees-CSV/library/pg"
	"github.com/Artexxx/HR-Employees-CSV/library/yamlreader"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zerolog.TimeFieldFormat = time.RFC3339

	cfg := MustNewConfig(parseFlags())

	level, err := zerolog.ParseLevel(cfg.Log.Level.Value)
	if err != nil {
		log.Fatal().Err(err).Str("level", cfg.Log.Level.Value).Msg("неизвестный уровень логирования")
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("driver", cfg.Storage.Driver.Value).
		Str("write_mode", cfg.Storage.WriteMode.Value).
		Str("concurrency", cfg.Storage.Concurrency.Value).
		Bool("kafka", cfg.Kafka.Enabled.Value).
		Msg("конфигурация загружена")

	storage, closeStorage := mustInitStorage(rootCtx, cfg)
	defer closeStorage()

	employeeRepo, err := employee.NewRepository(storage, employee.Concurrency(cfg.Storage.Concurrency.Value), log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("employee repository init failed")
	}

	deps := api.ServiceDeps{
		Port:         cfg.UserAPI.Port.Value,
		EmployeeRepo: employeeRepo,
		Logger:       log.Logger,
	}

	if cfg.Kafka.Enabled.Value {
		employeeProducer, err := initEmployeeProducer(cfg.Kafka)
		if err != nil {
			log.Fatal().Err(err).Msg("kafka producer init failed")
		}
		defer func() { _ = employeeProducer.Close() }()

		deps.Producer = employeeProducer
	}

	apiService := api.NewService(deps)

	group, gctx := errgroup.WithContext(rootCtx)

	group.Go(func() error {
		log.Info().Msg("запуск HTTP API")
		if err := apiService.Start(gctx); err != nil {
			log.Error().Err(err).Msg("HTTP API завершился с ошибкой")

			return err
		}

		log.Info().Msg("HTTP API остановлен")

		return nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = group.Wait()
	}()

	select {
	case <-rootCtx.Done():
		log.Info().Msg("signal received, graceful shutdown...")
		waitWithTimeout(done, 10*time.Second)
		log.Info().Msg("all services stopped")
	case <-done:
		log.Info().Msg("all services stopped")
	}
}

// mustInitStorage returns the configured dataset accessor and its cleanup.
func mustInitStorage(ctx context.Context, cfg *config.Config) (employee.Storage, func()) {
	switch cfg.Storage.Driver.Value {
	case config.DriverPostgres:
		pgClient, err := pg.NewPG(ctx, cfg.Postgres.Conn.Value, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres init failed")
		}

		store := pgtable.NewStore(pgClient.Pool(), log.Logger)
		if err := store.Migrate(ctx, dto.Columns()...); err != nil {
			pgClient.Close()
			log.Fatal().Err(err).Msg("postgres migrate failed")
		}

		return store, pgClient.Close
	default:
		path := cfg.Storage.Path.Value
		if _, err := os.Stat(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("файл набора данных недоступен, запросы будут завершаться ошибкой")
		}

		store, err := csvfile.NewStore(path, csvfile.WriteMode(cfg.Storage.WriteMode.Value), log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("csv storage init failed")
		}

		return store, func() {}
	}
}

func initEmployeeProducer(kafkaConfig config.KafkaConfig) (*producer.EmployeeProducer, error) {
	sCfg := sarama.NewConfig()
	sCfg.Version = sarama.V3_3_2_0
	sCfg.ClientID = kafkaConfig.ProducerClientID.Value
	sCfg.Producer.Return.Successes = true
	sCfg.Producer.RequiredAcks = sarama.WaitForAll
	sCfg.Producer.Idempotent = true
	sCfg.Net.MaxOpenRequests = 1
	sCfg.Producer.Retry.Max = 5
	sCfg.Producer.Retry.Backoff = 200 * time.Millisecond

	sp, err := sarama.NewSyncProducer([]string{kafkaConfig.Bootstrap.Value}, sCfg)
	if err != nil {
		return nil, err
	}

	return producer.NewEmployeeProducer(
		sp,
		producer.Config{
			Topic:  kafkaConfig.Topic.Value,
			Source: kafkaConfig.ProducerClientID.Value,
		},
		log.Logger,
	), nil
}

func waitWithTimeout(done <-chan struct{}, timeout time.Duration) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return
	case <-timer.C:
		log.Warn().Dur("timeout", timeout).Msg("graceful shutdown")
	}
}

func MustNewConfig(path string) *config.Config {
	cfg, err := yamlreader.NewConfig[config.Config](path)

	if err != nil {
		log.Fatal().Str("path", path).Err(err).Msg("ошибка чтения конфигурации приложения")
		return nil
	}

	return cfg
}

func parseFlags() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	_ = godotenv.Load(".env")

	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	if configPath == "" {
		configPath = "config/application-local.yaml"
	}
	return configPath
}

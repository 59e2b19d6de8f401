package config

import (
	"errors"
	"fmt"

	"github.com/Artexxx/HR-Employees-CSV/library/pg"
	"github.com/Artexxx/HR-Employees-CSV/library/yamlenv"
)

const (
	DriverCSV      = "csv"
	DriverPostgres = "postgres"
)

type Config struct {
	Postgres pg.PostgresConfig `yaml:"postgres"`
	Kafka    KafkaConfig       `yaml:"kafka"`
	UserAPI  ApiConfig         `yaml:"userAPI"`
	Storage  StorageConfig     `yaml:"storage"`
	Log      LogConfig         `yaml:"log"`
}

type KafkaConfig struct {
	Enabled          *yamlenv.Env[bool]   `yaml:"enabled"`
	Bootstrap        *yamlenv.Env[string] `yaml:"bootstrap"`
	ProducerClientID *yamlenv.Env[string] `yaml:"producer_client_id"`
	Topic            *yamlenv.Env[string] `yaml:"topic"`
}

type ApiConfig struct {
	Port *yamlenv.Env[int] `yaml:"port"`
}

type StorageConfig struct {
	Driver      *yamlenv.Env[string] `yaml:"driver"`
	Path        *yamlenv.Env[string] `yaml:"path"`
	WriteMode   *yamlenv.Env[string] `yaml:"write_mode"`
	Concurrency *yamlenv.Env[string] `yaml:"concurrency"`
}

type LogConfig struct {
	Level *yamlenv.Env[string] `yaml:"level"`
}

// Validate fills optional values with defaults and rejects configs missing
// what the selected storage driver and Kafka setting need.
func (c *Config) Validate() error {
	if c.UserAPI.Port == nil {
		c.UserAPI.Port = yamlenv.New(8000)
	}
	if c.Log.Level == nil {
		c.Log.Level = yamlenv.New("info")
	}
	if c.Storage.Driver == nil || c.Storage.Driver.Value == "" {
		c.Storage.Driver = yamlenv.New(DriverCSV)
	}
	if c.Storage.WriteMode == nil {
		c.Storage.WriteMode = yamlenv.New("atomic")
	}
	if c.Storage.Concurrency == nil {
		c.Storage.Concurrency = yamlenv.New("serialize")
	}
	if c.Kafka.Enabled == nil {
		c.Kafka.Enabled = yamlenv.New(false)
	}

	var errs []error

	switch c.Storage.Driver.Value {
	case DriverCSV:
		if c.Storage.Path == nil || c.Storage.Path.Value == "" {
			errs = append(errs, errors.New("storage.path is required for the csv driver"))
		}
	case DriverPostgres:
		if c.Postgres.Conn == nil || c.Postgres.Conn.Value == "" {
			errs = append(errs, errors.New("postgres.conn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver.Value))
	}

	if c.Kafka.Enabled.Value {
		if c.Kafka.Bootstrap == nil || c.Kafka.Bootstrap.Value == "" {
			errs = append(errs, errors.New("kafka.bootstrap is required when kafka is enabled"))
		}
		if c.Kafka.Topic == nil || c.Kafka.Topic.Value == "" {
			errs = append(errs, errors.New("kafka.topic is required when kafka is enabled"))
		}
		if c.Kafka.ProducerClientID == nil {
			c.Kafka.ProducerClientID = yamlenv.New("employees-csv-api")
		}
	}

	return errors.Join(errs...)
}

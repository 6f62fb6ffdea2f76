package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration decodes YAML strings like "24h" or bare nanosecond integers.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if n, err := strconv.ParseInt(value.Value, 10, 64); err == nil {
		*d = Duration(n)
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config carries everything the api and worker binaries need. Values come
// from an optional YAML file with environment variables layered on top, so
// container deployments override without a file change.
type Config struct {
	ServiceName string `yaml:"service_name"`
	HTTPAddr    string `yaml:"http_addr"`
	GRPCAddr    string `yaml:"grpc_addr"`
	LogLevel    string `yaml:"log_level"`

	Database struct {
		URL      string `yaml:"url"`
		MaxConns int32  `yaml:"max_conns"`
	} `yaml:"database"`

	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`

	Storage struct {
		Root string `yaml:"root"`
	} `yaml:"storage"`

	Gateway struct {
		BaseURL       string        `yaml:"base_url"`
		KeyID         string        `yaml:"key_id"`
		KeySecret     string        `yaml:"key_secret"`
		WebhookSecret string        `yaml:"webhook_secret"`
		Timeout       Duration      `yaml:"timeout"`
	} `yaml:"gateway"`

	Auth struct {
		KeyID         string        `yaml:"key_id"`
		PrivateKeyPEM string        `yaml:"private_key_pem"`
		PublicKeyPEM  string        `yaml:"public_key_pem"`
		TokenTTL      Duration      `yaml:"token_ttl"`
		BcryptCost    int           `yaml:"bcrypt_cost"`
	} `yaml:"auth"`

	Payments struct {
		DefaultCurrency        string `yaml:"default_currency"`
		PlatformFeeBasisPoints int64  `yaml:"platform_fee_basis_points"`
	} `yaml:"payments"`

	Downloads struct {
		TTL          Duration      `yaml:"ttl"`
		MaxDownloads int           `yaml:"max_downloads"`
	} `yaml:"downloads"`

	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`

	Outbox struct {
		FlushInterval Duration      `yaml:"flush_interval"`
		BatchSize     int           `yaml:"batch_size"`
	} `yaml:"outbox"`

	Reconcile struct {
		Interval     Duration      `yaml:"interval"`
		OlderThan    Duration      `yaml:"older_than"`
		AbandonAfter Duration      `yaml:"abandon_after"`
		BatchSize    int           `yaml:"batch_size"`
	} `yaml:"reconcile"`
}

// LoadConfig reads the YAML file named by CONFIG_PATH (or the given default
// path), then applies environment overrides and defaults.
func LoadConfig(defaultPath string) (Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultPath
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.ServiceName, "SERVICE_NAME")
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.GRPCAddr, "GRPC_ADDR")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	if port := os.Getenv("PORT"); port != "" {
		cfg.HTTPAddr = ":" + port
	}

	setString(&cfg.Database.URL, "DATABASE_URL")
	if v := os.Getenv("DATABASE_MAX_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.MaxConns = int32(n)
		}
	}
	setString(&cfg.Redis.URL, "REDIS_URL")
	setString(&cfg.Storage.Root, "STORAGE_ROOT")

	setString(&cfg.Gateway.BaseURL, "RAZORPAY_BASE_URL")
	setString(&cfg.Gateway.KeyID, "RAZORPAY_KEY_ID")
	setString(&cfg.Gateway.KeySecret, "RAZORPAY_KEY_SECRET")
	setString(&cfg.Gateway.WebhookSecret, "RAZORPAY_WEBHOOK_SECRET")

	setString(&cfg.Auth.KeyID, "JWT_KEY_ID")
	setString(&cfg.Auth.PrivateKeyPEM, "JWT_PRIVATE_KEY")
	setString(&cfg.Auth.PublicKeyPEM, "JWT_PUBLIC_KEY")

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		parts := strings.Split(v, ",")
		brokers := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				brokers = append(brokers, p)
			}
		}
		cfg.Kafka.Brokers = brokers
	}
	setString(&cfg.Kafka.Topic, "KAFKA_TOPIC")
}

func applyDefaults(cfg *Config) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "vibecoder-fulfillment"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.GRPCAddr == "" {
		cfg.GRPCAddr = ":9090"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Storage.Root == "" {
		cfg.Storage.Root = "./data/files"
	}
	if cfg.Gateway.Timeout <= 0 {
		cfg.Gateway.Timeout = Duration(10 * time.Second)
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = Duration(24 * time.Hour)
	}
	if cfg.Payments.DefaultCurrency == "" {
		cfg.Payments.DefaultCurrency = "INR"
	}
	if cfg.Payments.PlatformFeeBasisPoints <= 0 {
		cfg.Payments.PlatformFeeBasisPoints = 1000
	}
	if cfg.Downloads.TTL <= 0 {
		cfg.Downloads.TTL = Duration(24 * time.Hour)
	}
	if cfg.Downloads.MaxDownloads <= 0 {
		cfg.Downloads.MaxDownloads = 5
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "vibecoder.fulfillment.events"
	}
	if cfg.Outbox.FlushInterval <= 0 {
		cfg.Outbox.FlushInterval = Duration(10 * time.Second)
	}
	if cfg.Outbox.BatchSize <= 0 {
		cfg.Outbox.BatchSize = 100
	}
	if cfg.Reconcile.Interval <= 0 {
		cfg.Reconcile.Interval = Duration(5 * time.Minute)
	}
	if cfg.Reconcile.OlderThan <= 0 {
		cfg.Reconcile.OlderThan = Duration(15 * time.Minute)
	}
	if cfg.Reconcile.AbandonAfter <= 0 {
		cfg.Reconcile.AbandonAfter = Duration(24 * time.Hour)
	}
	if cfg.Reconcile.BatchSize <= 0 {
		cfg.Reconcile.BatchSize = 50
	}
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

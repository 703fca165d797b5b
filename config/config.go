package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	App          AppConfig         `mapstructure:"app"`
	Server       ServerConfig      `mapstructure:"server"`
	Store        StoreConfig       `mapstructure:"store"`
	Postgres     PostgresConfig    `mapstructure:"postgres"`
	RoomRedis    RedisConfig       `mapstructure:"roomredis"`
	SessionRedis RedisConfig       `mapstructure:"sessionredis"`
	Kafka        KafkaConfig       `mapstructure:"kafka"`
	Coordinator  CoordinatorConfig `mapstructure:"coordinator"`
	Bridge       BridgeConfig      `mapstructure:"bridge"`
	RateLimit    RateLimitConfig   `mapstructure:"ratelimit"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
}

type ServerConfig struct {
	Port          string        `mapstructure:"port"`
	Host          string        `mapstructure:"host"`
	PublicBaseURL string        `mapstructure:"public_base_url"`
	AllowOrigins  string        `mapstructure:"allow_origins"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
}

// StoreConfig selects the room store and change feed: "postgres" pairs the
// PostgreSQL repository with the Redis feed, "memory" keeps both in process.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

type PostgresConfig struct {
	Port     string `mapstructure:"port"`
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type CoordinatorConfig struct {
	RetryAttempts        uint64        `mapstructure:"retry_attempts"`
	RetryInitialInterval time.Duration `mapstructure:"retry_initial_interval"`
}

type BridgeConfig struct {
	ReadyTimeout time.Duration `mapstructure:"ready_timeout"`
}

type RateLimitConfig struct {
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Burst             int           `mapstructure:"burst"`
	IdleTTL           time.Duration `mapstructure:"idle_ttl"`
}

func Read() Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")

	viper.SetDefault("app.name", "room-service")
	viper.SetDefault("app.version", "0.1.0")
	viper.SetDefault("app.env", "dev")

	viper.SetDefault("server.port", "8082")
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.public_base_url", "http://localhost:5173")
	viper.SetDefault("server.allow_origins", "http://localhost:5173")
	viper.SetDefault("server.idle_timeout", "5s")
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "10s")

	viper.SetDefault("store.driver", "postgres")

	viper.SetDefault("postgres.port", "5432")
	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.user", "myuser")
	viper.SetDefault("postgres.password", "mypassword")
	viper.SetDefault("postgres.db", "roomdb")
	viper.SetDefault("postgres.sslmode", "disable")

	viper.SetDefault("roomredis.host", "localhost")
	viper.SetDefault("roomredis.port", "6379")
	viper.SetDefault("roomredis.db", 1)

	viper.SetDefault("sessionredis.host", "localhost")
	viper.SetDefault("sessionredis.port", "6379")
	viper.SetDefault("sessionredis.db", 0)

	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.topic", "room-events")

	viper.SetDefault("coordinator.retry_attempts", 3)
	viper.SetDefault("coordinator.retry_initial_interval", "100ms")

	viper.SetDefault("bridge.ready_timeout", "5s")

	viper.SetDefault("ratelimit.requests_per_minute", 600)
	viper.SetDefault("ratelimit.burst", 30)
	viper.SetDefault("ratelimit.idle_ttl", "10m")

	viper.SetEnvPrefix("ROOM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		zap.L().Warn("Failed to read configuration file", zap.Error(err))
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		zap.L().Error("Configuration could not be parsed", zap.Error(err))
	}

	return config
}

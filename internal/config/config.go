package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Auth      AuthConfig      `yaml:"auth"`
	Pickup    PickupConfig    `yaml:"pickup"`
	Cart      CartConfig      `yaml:"cart"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// RedisConfig is optional. An empty Addr keeps order notifications in
// process.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// KafkaConfig is optional. No brokers disables order-created events.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type AuthConfig struct {
	CustomerSecret string        `yaml:"customerSecret"`
	StaffSecret    string        `yaml:"staffSecret"`
	StaffTokenTTL  time.Duration `yaml:"staffTokenTTL"`
	Issuer         string        `yaml:"issuer"`
}

type PickupConfig struct {
	Buffer   time.Duration `yaml:"buffer"`
	Step     time.Duration `yaml:"step"`
	Opens    string        `yaml:"opens"`
	Closes   string        `yaml:"closes"`
	Location string        `yaml:"location"`
}

// CartConfig bounds how long an untouched cart session is kept.
type CartConfig struct {
	IdleTTL       time.Duration `yaml:"idleTTL"`
	SweepInterval time.Duration `yaml:"sweepInterval"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"serviceName"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Defaults() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            3306,
			User:            "cafeteria",
			Password:        "secret",
			Name:            "cafeteria",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{Prefix: "cafe"},
		Kafka: KafkaConfig{Topic: "order-events"},
		Auth: AuthConfig{
			StaffTokenTTL: 12 * time.Hour,
			Issuer:        "cafeteria-pos",
		},
		Pickup: PickupConfig{
			Buffer:   15 * time.Minute,
			Step:     15 * time.Minute,
			Opens:    "08:00",
			Closes:   "21:00",
			Location: "Europe/Madrid",
		},
		Cart: CartConfig{
			IdleTTL:       2 * time.Hour,
			SweepInterval: 10 * time.Minute,
		},
		Telemetry: TelemetryConfig{ServiceName: "cafeteria"},
		Log:       LogConfig{Level: "info"},
	}
}

func Load() (*Config, error) {
	d := Defaults()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", d.Server.Port)
	viper.SetDefault("DB_HOST", d.Database.Host)
	viper.SetDefault("DB_PORT", d.Database.Port)
	viper.SetDefault("DB_USER", d.Database.User)
	viper.SetDefault("DB_PASSWORD", d.Database.Password)
	viper.SetDefault("DB_NAME", d.Database.Name)
	viper.SetDefault("DB_MAX_OPEN_CONNS", d.Database.MaxOpenConns)
	viper.SetDefault("DB_MAX_IDLE_CONNS", d.Database.MaxIdleConns)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_PREFIX", d.Redis.Prefix)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", d.Kafka.Topic)
	viper.SetDefault("AUTH_CUSTOMER_SECRET", "")
	viper.SetDefault("AUTH_STAFF_SECRET", "")
	viper.SetDefault("AUTH_STAFF_TOKEN_TTL", "12h")
	viper.SetDefault("AUTH_ISSUER", d.Auth.Issuer)
	viper.SetDefault("PICKUP_BUFFER", "15m")
	viper.SetDefault("PICKUP_STEP", "15m")
	viper.SetDefault("PICKUP_OPENS", d.Pickup.Opens)
	viper.SetDefault("PICKUP_CLOSES", d.Pickup.Closes)
	viper.SetDefault("PICKUP_LOCATION", d.Pickup.Location)
	viper.SetDefault("CART_IDLE_TTL", "2h")
	viper.SetDefault("CART_SWEEP_INTERVAL", "10m")
	viper.SetDefault("TELEMETRY_ENABLED", false)
	viper.SetDefault("TELEMETRY_SERVICE_NAME", d.Telemetry.ServiceName)
	viper.SetDefault("LOG_LEVEL", d.Log.Level)

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}
	staffTokenTTL, err := time.ParseDuration(viper.GetString("AUTH_STAFF_TOKEN_TTL"))
	if err != nil {
		return nil, err
	}
	pickupBuffer, err := time.ParseDuration(viper.GetString("PICKUP_BUFFER"))
	if err != nil {
		return nil, err
	}
	pickupStep, err := time.ParseDuration(viper.GetString("PICKUP_STEP"))
	if err != nil {
		return nil, err
	}
	cartIdleTTL, err := time.ParseDuration(viper.GetString("CART_IDLE_TTL"))
	if err != nil {
		return nil, err
	}
	cartSweepInterval, err := time.ParseDuration(viper.GetString("CART_SWEEP_INTERVAL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			Prefix:   viper.GetString("REDIS_PREFIX"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
		Auth: AuthConfig{
			CustomerSecret: viper.GetString("AUTH_CUSTOMER_SECRET"),
			StaffSecret:    viper.GetString("AUTH_STAFF_SECRET"),
			StaffTokenTTL:  staffTokenTTL,
			Issuer:         viper.GetString("AUTH_ISSUER"),
		},
		Pickup: PickupConfig{
			Buffer:   pickupBuffer,
			Step:     pickupStep,
			Opens:    viper.GetString("PICKUP_OPENS"),
			Closes:   viper.GetString("PICKUP_CLOSES"),
			Location: viper.GetString("PICKUP_LOCATION"),
		},
		Cart: CartConfig{
			IdleTTL:       cartIdleTTL,
			SweepInterval: cartSweepInterval,
		},
		Telemetry: TelemetryConfig{
			Enabled:     viper.GetBool("TELEMETRY_ENABLED"),
			ServiceName: viper.GetString("TELEMETRY_SERVICE_NAME"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

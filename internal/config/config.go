package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds environment-based settings
type Config struct {
	Env               string
	ServerAddress     string
	DatabaseURL       string
	MigrationsPath    string
	JWTSecret         string
	AdminPasswordHash string
	LogLevel          string

	Redis   RedisConfig
	MQTT    MQTTConfig
	Storage StorageConfig
	Athan   AthanConfig
}

type RedisConfig struct {
	Address  string
	Username string
	Password string
}

type MQTTConfig struct {
	BrokerURL string
	ClientID  string
}

type StorageConfig struct {
	UploadDir       string
	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesAccessKey string
	SpacesSecretKey string
}

// AthanConfig describes the timetable served by this instance.
type AthanConfig struct {
	City string
	// storage key of a workbook imported at startup; empty skips the import
	Timetable string
	// cron spec of the next-prayer refresh
	Tick string
}

// Load reads .env (when present) and environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		Env:               v.GetString("APP_ENV"),
		ServerAddress:     v.GetString("SERVER_ADDRESS"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		MigrationsPath:    v.GetString("MIGRATIONS_PATH"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		Redis: RedisConfig{
			Address:  v.GetString("REDIS_ADDRESS"),
			Username: v.GetString("REDIS_USERNAME"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		MQTT: MQTTConfig{
			BrokerURL: v.GetString("MQTT_BROKER_URL"),
			ClientID:  v.GetString("MQTT_CLIENT_ID"),
		},
		Storage: StorageConfig{
			UploadDir:       v.GetString("UPLOAD_DIR"),
			UseSpaces:       v.GetBool("USE_SPACES"),
			SpacesEndpoint:  v.GetString("SPACES_ENDPOINT"),
			SpacesRegion:    v.GetString("SPACES_REGION"),
			SpacesBucket:    v.GetString("SPACES_BUCKET"),
			SpacesAccessKey: v.GetString("SPACES_ACCESS_KEY"),
			SpacesSecretKey: v.GetString("SPACES_SECRET_KEY"),
		},
		Athan: AthanConfig{
			City:      strings.ToUpper(strings.TrimSpace(v.GetString("ATHAN_CITY"))),
			Timetable: v.GetString("ATHAN_TIMETABLE"),
			Tick:      v.GetString("ATHAN_TICK"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Athan.City == "" {
		return nil, fmt.Errorf("ATHAN_CITY must not be empty")
	}
	if cfg.Storage.UseSpaces && (cfg.Storage.SpacesBucket == "" || cfg.Storage.SpacesEndpoint == "") {
		return nil, fmt.Errorf("SPACES_ENDPOINT and SPACES_BUCKET are required when USE_SPACES is set")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("MIGRATIONS_PATH", "./migrations")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("MQTT_BROKER_URL", "tcp://localhost:1883")
	v.SetDefault("MQTT_CLIENT_ID", "athan-server")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("ATHAN_CITY", "PARIS")
	v.SetDefault("ATHAN_TICK", "* * * * *")
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

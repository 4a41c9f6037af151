package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	CORS       CORSConfig
	Moderation ModerationConfig
	Stats      StatsConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout    time.Duration `mapstructure:"idleTimeout"`
	ShutdownPeriod time.Duration `mapstructure:"shutdownPeriod"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig carries the signing secret reserved for a future signed-token
// flow. The current bearer-lookup flow does not consume it.
type AuthConfig struct {
	TokenSecret string `mapstructure:"tokenSecret"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

type ModerationConfig struct {
	MaxImageSize      int64         `mapstructure:"maxImageSize"`
	AllowedTypes      []string      `mapstructure:"allowedTypes"`
	Threshold         float64       `mapstructure:"threshold"`
	MinProcessingTime time.Duration `mapstructure:"minProcessingTime"`
}

type StatsConfig struct {
	AggregationInterval string `mapstructure:"aggregationInterval"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func LoadConfig(configPath string) (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables and config file")
	}

	viper.SetDefault("server.port", "7000")
	viper.SetDefault("server.readTimeout", 5*time.Second)
	viper.SetDefault("server.writeTimeout", 30*time.Second)
	viper.SetDefault("server.idleTimeout", 120*time.Second)
	viper.SetDefault("server.shutdownPeriod", 15*time.Second)

	viper.SetDefault("database.url", "postgres://localhost:5432/image_moderation")
	viper.SetDefault("database.maxOpenConns", 25)
	viper.SetDefault("database.maxIdleConns", 25)
	viper.SetDefault("database.connMaxLifetime", 5*time.Minute)

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", "0")

	viper.SetDefault("auth.tokenSecret", "")

	viper.SetDefault("cors.origins", []string{"http://localhost:7000", "http://localhost:3000"})

	viper.SetDefault("moderation.maxImageSize", 10*1024*1024)
	viper.SetDefault("moderation.allowedTypes", []string{"image/jpeg", "image/png", "image/gif", "image/webp"})
	viper.SetDefault("moderation.threshold", 0.7)
	viper.SetDefault("moderation.minProcessingTime", 500*time.Millisecond)

	viper.SetDefault("stats.aggregationInterval", "@every 1h")

	viper.SetDefault("log.level", "info")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AllowEmptyEnv(true)

	if configPath != "" {
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			log.Printf("Warning: could not read config file: %s. Error: %v\n", configPath, err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

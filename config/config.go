package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	// Redis configuration.
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB      int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSweepQueueDB int    `mapstructure:"REDIS_SWEEP_QUEUE_DB"`

	// Firebase messaging (operator alert channel).
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	OpsAlertTopic           string `mapstructure:"OPS_ALERT_TOPIC"`

	// Commission enforcement settings. These have no defaults: a missing
	// value is a startup error, never a silent fallback, because the
	// deadline and amounts are load-bearing for revenue protection.
	CommissionRatePercent int           `mapstructure:"COMMISSION_RATE_PERCENT"`
	PaymentWindow         time.Duration `mapstructure:"COMMISSION_PAYMENT_WINDOW"`
	LateFee               int64         `mapstructure:"COMMISSION_LATE_FEE"`
	SweepInterval         time.Duration `mapstructure:"COMMISSION_SWEEP_INTERVAL"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values for ambient settings only.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SWEEP_QUEUE_DB", 1)
	viper.SetDefault("OPS_ALERT_TOPIC", "ops-alerts")
	viper.SetDefault("COMMISSION_SWEEP_INTERVAL", "5m")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := AppConfig.ValidateCommissionSettings(); err != nil {
		log.Fatalf("Invalid commission configuration: %v", err)
	}
}

// ValidateCommissionSettings rejects configurations missing the enforcement
// constants. The process must not come up without them.
func (c Config) ValidateCommissionSettings() error {
	if c.CommissionRatePercent <= 0 || c.CommissionRatePercent > 100 {
		return fmt.Errorf("COMMISSION_RATE_PERCENT must be in (0,100], got %d", c.CommissionRatePercent)
	}
	if c.PaymentWindow <= 0 {
		return fmt.Errorf("COMMISSION_PAYMENT_WINDOW must be a positive duration, got %s", c.PaymentWindow)
	}
	if c.LateFee <= 0 {
		return fmt.Errorf("COMMISSION_LATE_FEE must be a positive amount in minor units, got %d", c.LateFee)
	}
	if c.SweepInterval < time.Minute {
		return fmt.Errorf("COMMISSION_SWEEP_INTERVAL must be at least 1m, got %s", c.SweepInterval)
	}
	return nil
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

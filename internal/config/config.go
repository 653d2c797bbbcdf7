package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Data      DataConfig      `mapstructure:"data"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DataConfig names the flat files everything lives in.
type DataConfig struct {
	PatientsFile       string        `mapstructure:"patients_file"`
	ScheduleFile       string        `mapstructure:"schedule_file"`
	BookingsFile       string        `mapstructure:"bookings_file"`
	CommunicationsFile string        `mapstructure:"communications_file"`
	TemplateDir        string        `mapstructure:"template_dir"`
	ReportDir          string        `mapstructure:"report_dir"`
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
}

// NotifierConfig selects between the log-only stub and a real SMTP sender.
// Env vars (CLINIC_SMTP_*) override the file so credentials stay out of it.
type NotifierConfig struct {
	SMTPEnabled  bool   `mapstructure:"smtp_enabled" envconfig:"SMTP_ENABLED"`
	SMTPHost     string `mapstructure:"smtp_host" envconfig:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"smtp_port" envconfig:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"smtp_username" envconfig:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"smtp_password" envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"smtp_from" envconfig:"SMTP_FROM"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// LoadConfig reads config.yaml (optional; defaults make a checkout
// runnable as-is) and overlays CLINIC_* environment variables.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("clinic", &config.Notifier); err != nil {
		return nil, fmt.Errorf("failed to read notifier env config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "10s")

	viper.SetDefault("data.patients_file", "data/patients.csv")
	viper.SetDefault("data.schedule_file", "data/doctor_schedules.xlsx")
	viper.SetDefault("data.bookings_file", "bookings.xlsx")
	viper.SetDefault("data.communications_file", "communications_log.csv")
	viper.SetDefault("data.template_dir", "data/appointment_templates")
	viper.SetDefault("data.report_dir", ".")
	viper.SetDefault("data.cache_ttl", "30s")

	viper.SetDefault("notifier.smtp_enabled", false)
	viper.SetDefault("notifier.smtp_port", 587)

	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests_per_second", 50.0)
	viper.SetDefault("rate_limit.burst", 100)

	viper.SetDefault("logging.level", "info")
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

type ServerCfg struct {
	Port                string `mapstructure:"port"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
	Development         bool   `mapstructure:"development"`
}

type MongoCfg struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisCfg struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type KafkaCfg struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	Enabled bool     `mapstructure:"enabled"`
}

type JwtCfg struct {
	Secret         string `mapstructure:"secret"`
	AccessTTLHours int    `mapstructure:"access_ttl_hours"`
}

type OtpCfg struct {
	TTLMinutes      int `mapstructure:"ttl_minutes"`
	PerPhonePerHour int `mapstructure:"per_phone_per_hour"`
	Digits          int `mapstructure:"digits"`
}

type AssistantCfg struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type WsCfg struct {
	PingIntervalSeconds  int   `mapstructure:"ping_interval_seconds"`
	WriteDeadlineSeconds int   `mapstructure:"write_deadline_seconds"`
	ReadDeadlineSeconds  int   `mapstructure:"read_deadline_seconds"`
	MaxMessageBytes      int64 `mapstructure:"max_message_bytes"`
	SendBuffer           int   `mapstructure:"send_buffer"`
}

type Config struct {
	Server    ServerCfg    `mapstructure:"server"`
	Mongo     MongoCfg     `mapstructure:"mongo"`
	Redis     RedisCfg     `mapstructure:"redis"`
	Kafka     KafkaCfg     `mapstructure:"kafka"`
	JWT       JwtCfg       `mapstructure:"jwt"`
	OTP       OtpCfg       `mapstructure:"otp"`
	Assistant AssistantCfg `mapstructure:"assistant"`
	WS        WsCfg        `mapstructure:"ws"`

	// Derived
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	cfg.ReadTimeout = time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second
	cfg.WriteTimeout = time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeoutSeconds == 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds == 0 {
		cfg.Server.WriteTimeoutSeconds = 15
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "chatapp"
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "chatapp"
	}
	if cfg.JWT.AccessTTLHours == 0 {
		cfg.JWT.AccessTTLHours = 24 * 7
	}
	if cfg.OTP.TTLMinutes == 0 {
		cfg.OTP.TTLMinutes = 5
	}
	if cfg.OTP.PerPhonePerHour == 0 {
		cfg.OTP.PerPhonePerHour = 5
	}
	if cfg.OTP.Digits == 0 {
		cfg.OTP.Digits = 6
	}
	if cfg.Assistant.TimeoutSeconds == 0 {
		cfg.Assistant.TimeoutSeconds = 30
	}
	if cfg.WS.PingIntervalSeconds == 0 {
		cfg.WS.PingIntervalSeconds = 30
	}
	if cfg.WS.WriteDeadlineSeconds == 0 {
		cfg.WS.WriteDeadlineSeconds = 10
	}
	if cfg.WS.ReadDeadlineSeconds == 0 {
		cfg.WS.ReadDeadlineSeconds = 60
	}
	if cfg.WS.MaxMessageBytes == 0 {
		cfg.WS.MaxMessageBytes = 64 * 1024
	}
	if cfg.WS.SendBuffer == 0 {
		cfg.WS.SendBuffer = 256
	}
}

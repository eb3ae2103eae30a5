package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	AnswerTimerSec  int `mapstructure:"answer_timer_sec"`
	DiscussTimerSec int `mapstructure:"discuss_timer_sec"`
	VoteTimerSec    int `mapstructure:"vote_timer_sec"`
}

func InitConfig() (*AppConfig, error) {
	v := viper.New()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("answer_timer_sec", 60)
	v.SetDefault("discuss_timer_sec", 120)
	v.SetDefault("vote_timer_sec", 30)

	v.SetConfigName("app_config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	v.SetEnvPrefix("IMPASTA")
	v.AutomaticEnv()

	// The config file is optional; env vars and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

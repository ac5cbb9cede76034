package config

import (
	"os"
	"strconv"
)

type Option struct {
	LogLevel   string
	ConfigPath string
	Port       int
}

func NewOptions() *Option {
	return &Option{
		LogLevel:   LogLevelDebug,
		ConfigPath: "./bin/config.json",
		Port:       DefaultPort,
	}
}

// LoadEnv overrides options with the ones set in the environment.
func (opt *Option) LoadEnv() {
	if logLevel := os.Getenv(EnvLogLevel); logLevel != "" {
		opt.LogLevel = logLevel
	}

	if configPath := os.Getenv(EnvConfigPath); configPath != "" {
		opt.ConfigPath = configPath
	}

	if serverPort := os.Getenv(EnvPort); serverPort != "" {
		if port, err := strconv.Atoi(serverPort); err == nil {
			opt.Port = port
		}
	}
}

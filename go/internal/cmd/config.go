package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Nats struct {
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`
	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loadConfig reads the yaml config, falling back to defaults when the file
// is absent so a bare binary still starts.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

func defaultConfig() *Config {
	c := &Config{}
	c.Server.Port = getEnv("PORT", "8080")
	c.Nats.URL = getEnv("NATS_URL", "nats://localhost:4222")
	c.Nats.SubjectPrefix = "game.events"
	c.Redis.Addr = getEnv("REDIS_ADDR", "")
	return c
}

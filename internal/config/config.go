package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config структура конфигурации приложения
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`
	Environment string `yaml:"environment"`
	Logging     struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json или text
	} `yaml:"logging"`
	Unfold struct {
		DefaultThickness float64 `yaml:"default_thickness"` // мм
	} `yaml:"unfold"`
	Sketch struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"sketch"`
	Upload struct {
		MaxBytes int64 `yaml:"max_bytes"`
	} `yaml:"upload"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.Host = "0.0.0.0"
	cfg.Environment = "development"
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"
	cfg.Unfold.DefaultThickness = 1.5
	cfg.Sketch.Width = 1000
	cfg.Sketch.Height = 600
	cfg.Upload.MaxBytes = 10 << 20
	return cfg
}

// LoadConfig загружает конфигурацию: значения по умолчанию, затем файл
// CONFIG_FILE (если задан), затем переменные окружения
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// Конфигурация сервера
	cfg.Server.Port = getEnvInt("SERVER_PORT", cfg.Server.Port)
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)

	// Конфигурация логирования
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)

	// Конфигурация расчета и эскиза
	cfg.Unfold.DefaultThickness = getEnvFloat("UNFOLD_DEFAULT_THICKNESS", cfg.Unfold.DefaultThickness)
	cfg.Sketch.Width = getEnvInt("SKETCH_WIDTH", cfg.Sketch.Width)
	cfg.Sketch.Height = getEnvInt("SKETCH_HEIGHT", cfg.Sketch.Height)
	cfg.Upload.MaxBytes = int64(getEnvInt("UPLOAD_MAX_BYTES", int(cfg.Upload.MaxBytes)))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, без которых сервер не может работать
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Sketch.Width <= 0 || c.Sketch.Height <= 0 {
		return fmt.Errorf("invalid sketch size: %dx%d", c.Sketch.Width, c.Sketch.Height)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("invalid upload limit: %d", c.Upload.MaxBytes)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}
	return nil
}

// Addr возвращает адрес для запуска HTTP сервера
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает int значение переменной окружения или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает float значение переменной окружения или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

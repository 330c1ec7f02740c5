package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName       string
	AppEnv        string
	AppPort       string
	OpenAIAPIKey  string
	AIModel       string
	AITemperature float32
	AIMaxTokens   int
	UploadMaxMB   int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and an optional
// .env file. A missing API key is not a startup failure: the credential
// degrades to an empty string and the provider rejects requests at call time.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BAHOLASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Baholash API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.max_tokens", 2048)
	v.SetDefault("upload.max_mb", 20)

	cfg := Config{
		AppName:       v.GetString("app.name"),
		AppEnv:        v.GetString("app.env"),
		AppPort:       v.GetString("app.port"),
		OpenAIAPIKey:  v.GetString("openai_api_key"),
		AIModel:       v.GetString("ai.model"),
		AITemperature: float32(v.GetFloat64("ai.temperature")),
		AIMaxTokens:   v.GetInt("ai.max_tokens"),
		UploadMaxMB:   v.GetInt("upload.max_mb"),
	}

	if cfg.UploadMaxMB <= 0 {
		cfg.UploadMaxMB = 20
	}

	if cfg.AIMaxTokens <= 0 {
		cfg.AIMaxTokens = 2048
	}

	return cfg, nil
}

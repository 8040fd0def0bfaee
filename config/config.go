package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	LLM struct {
		// Provider selects the completion backend: groq, openai or gemini.
		Provider     string        `mapstructure:"provider"`
		BaseURL      string        `mapstructure:"baseURL"`
		APIKey       string        `mapstructure:"apiKey"`
		GeminiAPIKey string        `mapstructure:"geminiAPIKey"`
		Timeout      time.Duration `mapstructure:"timeout"`
	} `mapstructure:"llm"`
	Google struct {
		PlacesAPIKey string `mapstructure:"placesAPIKey"`
	} `mapstructure:"google"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Secrets come from the environment, never the file.
	_ = v.BindEnv("llm.apiKey", "GROQ_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.geminiAPIKey", "GEMINI_API_KEY")
	_ = v.BindEnv("google.placesAPIKey", "GOOGLE_PLACES_API_KEY", "GOOGLE_API_KEY")
	_ = v.BindEnv("repositories.postgres.password", "POSTGRES_PASSWORD")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	return config, nil
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Audio         AudioConfig         `yaml:"audio"`
	OpenAI        OpenAIConfig        `yaml:"openai"`
	Primary       PrimaryConfig       `yaml:"primary"`
	DeepSeek      DeepSeekConfig      `yaml:"deepseek"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	Fallback      FallbackConfig      `yaml:"fallback"`
	Resolver      ResolverConfig      `yaml:"resolver"`
	Pushover      PushoverConfig      `yaml:"pushover"`
	HomeAssistant HomeAssistantConfig `yaml:"homeassistant"`
	Log           LogConfig           `yaml:"log"`
}

type AudioConfig struct {
	Source     string `yaml:"source"`
	HTTPAddr   string `yaml:"http_addr"`
	FileDir    string `yaml:"file_dir"`
	WakeWord   string `yaml:"wake_word"`
	SampleRate int    `yaml:"sample_rate"`
	AuthToken  string `yaml:"auth_token"`
}

type OpenAIConfig struct {
	APIKey   string `yaml:"api_key"`
	Language string `yaml:"language"`
}

// PrimaryConfig selects the model that answers questions first. The chosen
// provider also backs the condenser when its credential is present.
type PrimaryConfig struct {
	Provider string `yaml:"provider"` // deepseek or gemini
}

type DeepSeekConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// FallbackConfig selects and configures the real-time search provider
// consulted when the model's answer looks stale.
type FallbackConfig struct {
	Provider  string          `yaml:"provider"` // firecrawl, newsapi or serpapi
	Firecrawl FirecrawlConfig `yaml:"firecrawl"`
	NewsAPI   NewsAPIConfig   `yaml:"newsapi"`
	SerpAPI   SerpAPIConfig   `yaml:"serpapi"`
}

type FirecrawlConfig struct {
	APIKey string `yaml:"api_key"`
}

type NewsAPIConfig struct {
	APIKey string `yaml:"api_key"`
}

type SerpAPIConfig struct {
	APIKey string `yaml:"api_key"`
}

type ResolverConfig struct {
	Routing         string `yaml:"routing"` // primary_first or recency_cues
	SummaryMinWords int    `yaml:"summary_min_words"`
	SummaryMaxWords int    `yaml:"summary_max_words"`
}

type PushoverConfig struct {
	Token   string `yaml:"token"`
	UserKey string `yaml:"user_key"`
	Enabled bool   `yaml:"enabled"`
}

// HomeAssistantConfig points at a Home Assistant instance that speaks
// answers on a media player via a TTS service call.
type HomeAssistantConfig struct {
	BaseURL     string `yaml:"base_url"`
	Token       string `yaml:"token"`
	TTSService  string `yaml:"tts_service"`  // e.g. tts/google_translate_say
	MediaPlayer string `yaml:"media_player"` // e.g. media_player.living_room
	Enabled     bool   `yaml:"enabled"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Audio.Source == "" {
		c.Audio.Source = "http"
	}
	if c.Audio.HTTPAddr == "" {
		c.Audio.HTTPAddr = ":8080"
	}
	if c.Audio.FileDir == "" {
		c.Audio.FileDir = "./audio"
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.OpenAI.Language == "" {
		c.OpenAI.Language = "en"
	}
	if c.Primary.Provider == "" {
		c.Primary.Provider = "deepseek"
	}
	if c.DeepSeek.Model == "" {
		c.DeepSeek.Model = "deepseek-chat"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.HomeAssistant.TTSService == "" {
		c.HomeAssistant.TTSService = "tts/google_translate_say"
	}
	if c.Fallback.Provider == "" {
		c.Fallback.Provider = "firecrawl"
	}
	if c.Resolver.Routing == "" {
		c.Resolver.Routing = "primary_first"
	}
	if c.Resolver.SummaryMinWords == 0 {
		c.Resolver.SummaryMinWords = 40
	}
	if c.Resolver.SummaryMaxWords == 0 {
		c.Resolver.SummaryMaxWords = 120
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

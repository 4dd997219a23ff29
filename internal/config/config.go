// Package config loads the application configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	Groq struct {
		APIKey             string `yaml:"api_key"`
		BaseURL            string `yaml:"base_url"`
		TranscriptionModel string `yaml:"transcription_model"`
		InsightModel       string `yaml:"insight_model"`
	} `yaml:"groq"`

	Embedding struct {
		URL       string `yaml:"url"`
		Dimension int    `yaml:"dimension"`
	} `yaml:"embedding"`

	Diarization struct {
		DefaultNumSpeakers int `yaml:"default_num_speakers"`
	} `yaml:"diarization"`

	Workers struct {
		Count int `yaml:"count"`
	} `yaml:"workers"`

	Storage struct {
		TempDir   string `yaml:"temp_dir"`
		OutputDir string `yaml:"output_dir"`
		Database  string `yaml:"database"`
	} `yaml:"storage"`

	Cleanup struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		MaxAgeHours     int `yaml:"max_age_hours"`
	} `yaml:"cleanup"`

	Watch struct {
		Enabled         bool   `yaml:"enabled"`
		Folder          string `yaml:"folder"`
		DebounceSeconds int    `yaml:"debounce_seconds"`
	} `yaml:"watch"`

	GoogleDrive struct {
		CredentialsFile string `yaml:"credentials_file"`
		TokenFile       string `yaml:"token_file"`
		FolderName      string `yaml:"folder_name"`
	} `yaml:"google_drive"`

	Limits struct {
		MaxFileSizeMB int `yaml:"max_file_size_mb"`
	} `yaml:"limits"`
}

// Load reads the configuration file and applies environment overrides
// and defaults.
func Load(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	// The API key normally comes from the environment, not the file.
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		config.Groq.APIKey = key
	}

	config.applyDefaults()

	if config.Groq.APIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY not set and groq.api_key missing from %s", path)
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Groq.BaseURL == "" {
		c.Groq.BaseURL = "https://api.groq.com/openai/v1"
	}
	if c.Groq.TranscriptionModel == "" {
		c.Groq.TranscriptionModel = "whisper-large-v3"
	}
	if c.Groq.InsightModel == "" {
		c.Groq.InsightModel = "openai/gpt-oss-120b"
	}
	if c.Embedding.Dimension == 0 {
		c.Embedding.Dimension = 192
	}
	if c.Diarization.DefaultNumSpeakers == 0 {
		c.Diarization.DefaultNumSpeakers = 2
	}
	if c.Workers.Count == 0 {
		c.Workers.Count = 2
	}
	if c.Storage.TempDir == "" {
		c.Storage.TempDir = "temp"
	}
	if c.Storage.OutputDir == "" {
		c.Storage.OutputDir = "outputs"
	}
	if c.Storage.Database == "" {
		c.Storage.Database = "maki.db"
	}
	if c.Cleanup.IntervalMinutes == 0 {
		c.Cleanup.IntervalMinutes = 30
	}
	if c.Cleanup.MaxAgeHours == 0 {
		c.Cleanup.MaxAgeHours = 24
	}
	if c.Watch.DebounceSeconds == 0 {
		c.Watch.DebounceSeconds = 3
	}
	if c.Limits.MaxFileSizeMB == 0 {
		c.Limits.MaxFileSizeMB = 200
	}
}

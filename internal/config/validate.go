package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateYtDlp(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateGemini(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateYtDlp() error {
	if strings.TrimSpace(c.YtDlp.Binary) == "" {
		return errors.New("ytdlp.binary must be set")
	}
	return ensurePositiveMap(map[string]int{
		"ytdlp.socket_timeout": c.YtDlp.SocketTimeout,
		"ytdlp.retries":        c.YtDlp.Retries,
	})
}

func (c *Config) validateTranscription() error {
	if strings.TrimSpace(c.Transcription.APIKey) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/vidscribe/config.toml"
		}
		return fmt.Errorf("transcription.api_key is required. Set ASSEMBLYAI_API_KEY env var or edit %s (create with 'vidscribe config init')", defaultPath)
	}
	return ensurePositiveMap(map[string]int{
		"transcription.poll_interval": c.Transcription.PollInterval,
		"transcription.poll_timeout":  c.Transcription.PollTimeout,
	})
}

func (c *Config) validateGemini() error {
	if strings.TrimSpace(c.Gemini.APIKey) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/vidscribe/config.toml"
		}
		return fmt.Errorf("gemini.api_key is required. Set GEMINI_API_KEY env var or edit %s (create with 'vidscribe config init')", defaultPath)
	}
	if strings.TrimSpace(c.Gemini.Model) == "" {
		return errors.New("gemini.model must be set")
	}
	return ensurePositiveMap(map[string]int{
		"gemini.timeout_seconds": c.Gemini.TimeoutSeconds,
	})
}

func (c *Config) validatePipeline() error {
	return ensurePositiveMap(map[string]int{
		"pipeline.max_duration_seconds":    c.Pipeline.MaxDurationSeconds,
		"pipeline.transcript_prompt_limit": c.Pipeline.TranscriptPromptLimit,
		"pipeline.min_generated_length":    c.Pipeline.MinGeneratedLength,
	})
}

func (c *Config) validateNotifications() error {
	if strings.TrimSpace(c.Notifications.NtfyTopic) == "" {
		return nil
	}
	return ensurePositiveMap(map[string]int{
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	})
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

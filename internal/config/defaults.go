package config

const (
	defaultStagingDir            = "~/.local/share/vidscribe/staging"
	defaultDataDir               = "~/.local/share/vidscribe"
	defaultLogDir                = "~/.local/share/vidscribe/logs"
	defaultAPIBind               = "127.0.0.1:7787"
	defaultYtDlpBinary           = "yt-dlp"
	defaultUserAgent             = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultReferer               = "https://www.youtube.com/"
	defaultSocketTimeout         = 30
	defaultDownloadRetries       = 3
	defaultAudioQuality          = "128K"
	defaultTranscriptionBaseURL  = "https://api.assemblyai.com"
	defaultSpeechModel           = "best"
	defaultPollInterval          = 3
	defaultPollTimeout           = 600
	defaultGeminiBaseURL         = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel           = "gemini-2.0-flash-exp"
	defaultGeminiTimeoutSeconds  = 120
	defaultMaxDurationSeconds    = 3600
	defaultTranscriptPromptLimit = 8000
	defaultMinGeneratedLength    = 100
	defaultNotifyRequestTimeout  = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		YtDlp: YtDlp{
			Binary:        defaultYtDlpBinary,
			UserAgent:     defaultUserAgent,
			Referer:       defaultReferer,
			PlayerClients: []string{"android", "web"},
			SocketTimeout: defaultSocketTimeout,
			Retries:       defaultDownloadRetries,
			AudioQuality:  defaultAudioQuality,
		},
		Transcription: Transcription{
			BaseURL:      defaultTranscriptionBaseURL,
			SpeechModel:  defaultSpeechModel,
			PollInterval: defaultPollInterval,
			PollTimeout:  defaultPollTimeout,
		},
		Gemini: Gemini{
			BaseURL:        defaultGeminiBaseURL,
			Model:          defaultGeminiModel,
			TimeoutSeconds: defaultGeminiTimeoutSeconds,
		},
		Pipeline: Pipeline{
			MaxDurationSeconds:    defaultMaxDurationSeconds,
			TranscriptPromptLimit: defaultTranscriptPromptLimit,
			MinGeneratedLength:    defaultMinGeneratedLength,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Articles:       true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package config

const (
	defaultBaseURL            = "http://localhost:8000"
	defaultUserAgent          = "agentflow-cli/dev"
	defaultLogFormat          = "console"
	defaultLogLevel           = "warn"
	defaultLogMaxSizeMB       = 20
	defaultLogMaxBackups      = 3
	defaultLogMaxAgeDays      = 30
	defaultOutputFormat       = "table"
	defaultRenderPollInterval = 2
	defaultRenderOutputFormat = "mp4"
	defaultRenderResolution   = "1920x1080"
	envBaseURL                = "AGENTFLOW_API_URL"
	maxRenderPollInterval     = 3600
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:   defaultBaseURL,
			UserAgent: defaultUserAgent,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
		Output: Output{
			Format: defaultOutputFormat,
		},
		Render: Render{
			PollIntervalSeconds: defaultRenderPollInterval,
			Format:              defaultRenderOutputFormat,
			Resolution:          defaultRenderResolution,
		},
	}
}

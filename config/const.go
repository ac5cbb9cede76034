package config

const (
	PathHealthCheck = "/health"
	PathMailchimp   = "/mailchimp"
	PathPetition    = "/petition"
)

const (
	DefaultPort   = 8788
	LogLevelDebug = "DEBUG"
)

const (
	EnvLogLevel        = "LOG_LEVEL"
	EnvConfigPath      = "CONFIG_PATH"
	EnvPort            = "PORT"
	EnvMailchimpAPIKey = "MAILCHIMP_API_KEY"
)

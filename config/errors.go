package config

import "errors"

var (
	// ErrLoadingConfigFile is returned when the config file cannot be read
	ErrLoadingConfigFile = errors.New("failed to load configuration file")
	// ErrLoadingEnvVars is returned when environment overrides cannot be loaded
	ErrLoadingEnvVars = errors.New("failed to load environment variables")
	// ErrConfigUnmarshal is returned when config unmarshalling fails
	ErrConfigUnmarshal = errors.New("failed to unmarshal configuration")
)

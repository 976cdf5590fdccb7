package internal

import "LocalBoard/internal/config"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *config.Config
	configPath string
	desktop    bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithConfigPath sets the file watched for configuration changes.
func WithConfigPath(path string) Option {
	return func(a *application) {
		a.configPath = path
	}
}

// WithDesktop opens the desktop window next to the feed server. Run then
// returns when the window is closed.
func WithDesktop(enabled bool) Option {
	return func(a *application) {
		a.desktop = enabled
	}
}

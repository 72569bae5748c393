package config

import "time"

// Config is the top-level ams configuration, corresponding to .ams.yml.
type Config struct {
	Solver   SolverConfig   `yaml:"solver" koanf:"solver"`
	Server   ServerConfig   `yaml:"server" koanf:"server"`
	Panels   PanelConfig    `yaml:"panels" koanf:"panels"`
	Auth     AuthConfig     `yaml:"auth" koanf:"auth"`
	Feedback FeedbackConfig `yaml:"feedback" koanf:"feedback"`
}

// SolverConfig points at the external math solving service.
type SolverConfig struct {
	// BaseURL is the service root; requests go to BaseURL + "/solve".
	BaseURL string `yaml:"base_url" koanf:"base_url"`
}

// ServerConfig holds settings for `ams serve`.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// PanelConfig holds the overlay transition delays.
type PanelConfig struct {
	OpenDelay  time.Duration `yaml:"open_delay" koanf:"open_delay"`
	CloseDelay time.Duration `yaml:"close_delay" koanf:"close_delay"`
}

// MarshalYAML writes the delays as duration strings such as "300ms".
func (p PanelConfig) MarshalYAML() (interface{}, error) {
	return struct {
		OpenDelay  string `yaml:"open_delay"`
		CloseDelay string `yaml:"close_delay"`
	}{p.OpenDelay.String(), p.CloseDelay.String()}, nil
}

// AuthConfig holds the simulated credential pair and the auth flow delays.
type AuthConfig struct {
	Username          string        `yaml:"username" koanf:"username"`
	Password          string        `yaml:"password" koanf:"password"`
	LoginCloseDelay   time.Duration `yaml:"login_close_delay" koanf:"login_close_delay"`
	SignupSwitchDelay time.Duration `yaml:"signup_switch_delay" koanf:"signup_switch_delay"`
}

// MarshalYAML writes the delays as duration strings such as "1.5s".
func (a AuthConfig) MarshalYAML() (interface{}, error) {
	return struct {
		Username          string `yaml:"username"`
		Password          string `yaml:"password"`
		LoginCloseDelay   string `yaml:"login_close_delay"`
		SignupSwitchDelay string `yaml:"signup_switch_delay"`
	}{a.Username, a.Password, a.LoginCloseDelay.String(), a.SignupSwitchDelay.String()}, nil
}

// FeedbackConfig controls where feedback entries live.
type FeedbackConfig struct {
	// Database is a SQLite path, or ":memory:" to keep entries for the
	// lifetime of the process only.
	Database string `yaml:"database" koanf:"database"`
}

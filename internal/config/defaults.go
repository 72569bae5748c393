package config

import "time"

// DefaultSolverURL is the local development address of the solving service.
const DefaultSolverURL = "http://127.0.0.1:5000"

// MemoryDatabase keeps feedback in process memory.
const MemoryDatabase = ":memory:"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Solver: SolverConfig{
			BaseURL: DefaultSolverURL,
		},
		Server: ServerConfig{
			Port:            8080,
			AllowAllOrigins: true,
		},
		Panels: PanelConfig{
			OpenDelay:  10 * time.Millisecond,
			CloseDelay: 300 * time.Millisecond,
		},
		Auth: AuthConfig{
			Username:          "testuser",
			Password:          "password123",
			LoginCloseDelay:   time.Second,
			SignupSwitchDelay: 1500 * time.Millisecond,
		},
		Feedback: FeedbackConfig{
			Database: MemoryDatabase,
		},
	}
}

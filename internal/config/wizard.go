package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/manifoldco/promptui"
)

// solverPresets are the solver locations the project is usually deployed
// against. The last entry lets the user type any address.
var solverPresets = []string{
	"http://127.0.0.1:5000",
	"http://127.0.0.1:8000",
	"custom",
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to ams! Let's configure the solver shell.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Solver location.
	solverPrompt := promptui.Select{
		Label: "Select solver endpoint",
		Items: solverPresets,
	}
	idx, baseURL, err := solverPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("solver selection: %w", err)
	}
	if idx == len(solverPresets)-1 {
		customPrompt := promptui.Prompt{
			Label:    "Solver base URL",
			Validate: validateBaseURL,
		}
		baseURL, err = customPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("solver url: %w", err)
		}
	}
	cfg.Solver.BaseURL = baseURL

	// 2. Web shell port.
	portPrompt := promptui.Prompt{
		Label:    "Port for `ams serve`",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 3. Feedback storage.
	storagePrompt := promptui.Prompt{
		Label:   "Feedback database (:memory: keeps comments until exit)",
		Default: MemoryDatabase,
	}
	cfg.Feedback.Database, err = storagePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("feedback database: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateBaseURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("url must start with http:// or https://")
	}
	if u.Host == "" {
		return errors.New("url must include a host")
	}
	return nil
}

func validatePort(s string) error {
	port, err := strconv.Atoi(s)
	if err != nil {
		return errors.New("port must be a number")
	}
	if port < 0 || port > 65535 {
		return errors.New("port must be between 0 and 65535")
	}
	return nil
}

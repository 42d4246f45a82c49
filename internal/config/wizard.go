package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .deckd.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to deckd! Let's configure your server.")
	fmt.Println()

	cfg := DefaultConfig()

	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port prompt: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	dataDirPrompt := promptui.Prompt{
		Label:   "Data directory (SQLite database location)",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataDirPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data dir prompt: %w", err)
	}

	ipfsPrompt := promptui.Prompt{
		Label:   "IPFS API URL (empty to disable IPFS saves)",
		Default: cfg.IPFSGateway,
	}
	if cfg.IPFSGateway, err = ipfsPrompt.Run(); err != nil {
		return nil, fmt.Errorf("ipfs prompt: %w", err)
	}

	autosavePrompt := promptui.Prompt{
		Label:   "Autosave interval in seconds (0 to disable)",
		Default: strconv.Itoa(cfg.AutosaveSeconds),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return fmt.Errorf("enter a non-negative number")
			}
			return nil
		},
	}
	autosaveStr, err := autosavePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("autosave prompt: %w", err)
	}
	cfg.AutosaveSeconds, _ = strconv.Atoi(autosaveStr)

	levelPrompt := promptui.Select{
		Label: "Log level",
		Items: []string{"debug", "info", "warn", "error"},
	}
	if _, cfg.LogLevel, err = levelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("log level selection: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(DefaultFile); err != nil {
		return nil, err
	}
	fmt.Printf("\nConfiguration saved to %s\n", DefaultFile)
	return cfg, nil
}

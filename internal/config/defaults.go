package config

// DefaultFile is where Load looks when no path is given.
const DefaultFile = ".deckd.yml"

// DefaultConfig returns a Config with sensible defaults. The autosave
// interval matches the 30-second cadence the editor has always used.
func DefaultConfig() *Config {
	return &Config{
		Port:            8080,
		DataDir:         "data",
		IPFSGateway:     "",
		AllowedOrigins:  []string{"*"},
		AutosaveSeconds: 30,
		ExportDir:       "exports",
		LogLevel:        "info",
	}
}

package config

// Config is the top-level deckd configuration, corresponding to .deckd.yml.
type Config struct {
	Port            int      `yaml:"port" koanf:"port"`
	DataDir         string   `yaml:"data_dir" koanf:"data_dir"`
	IPFSGateway     string   `yaml:"ipfs_gateway" koanf:"ipfs_gateway"`
	AllowedOrigins  []string `yaml:"allowed_origins" koanf:"allowed_origins"`
	AutosaveSeconds int      `yaml:"autosave_seconds" koanf:"autosave_seconds"`
	ExportDir       string   `yaml:"export_dir" koanf:"export_dir"`
	LogLevel        string   `yaml:"log_level" koanf:"log_level"`
}

package config

type Config struct {
	Database   DatabaseConfig `mapstructure:"database"`
	Log        LogConfig      `mapstructure:"log"`
	Defaults   DefaultsConfig `mapstructure:"defaults"`
	ConfigPath string         `mapstructure:"-"`
}

type DatabaseConfig struct {
	Path          string `mapstructure:"path"`
	BusyTimeoutMS int    `mapstructure:"busy_timeout_ms"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type DefaultsConfig struct {
	Group int64 `mapstructure:"group"`
}

func NewDefault() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "", BusyTimeoutMS: 5000},
		Log:      LogConfig{Level: "warn", Format: "text"},
		Defaults: DefaultsConfig{Group: 1},
	}
}

package config

import "time"

// ServerConfig contains HTTP trigger server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// FeedConfig contains upstream fleet feed configuration
type FeedConfig struct {
	URL       string `yaml:"feedURL" validate:"required,url"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gt=0"`
	Attempts  int    `yaml:"attempts" validate:"gte=1"`
	UserAgent string `yaml:"userAgent"`
}

// Timeout returns the per-request fetch timeout.
func (f FeedConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutMS) * time.Millisecond
}

// StorageConfig contains artifact persistence configuration
type StorageConfig struct {
	Bucket           string `yaml:"bucket" validate:"required_if=RemoteEnabled true"`
	Folder           string `yaml:"folder"`
	RemoteEnabled    bool   `yaml:"remoteEnabled"`
	Mirror           bool   `yaml:"mirror"`
	DataDir          string `yaml:"dataDir" validate:"required"`
	RetentionMinutes int    `yaml:"retentionMinutes" validate:"gte=0"`
}

// Retention returns the local artifact retention window; zero disables pruning.
func (s StorageConfig) Retention() time.Duration {
	return time.Duration(s.RetentionMinutes) * time.Minute
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Feed    FeedConfig    `yaml:"feed"`
	Storage StorageConfig `yaml:"storage"`
	LogJSON bool          `yaml:"logJSON"`
}

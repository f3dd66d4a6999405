package storage

import "time"

// Config holds the object store settings for exports.
type Config struct {
	// Endpoint is host:port of the S3 compatible service; a scheme is ignored.
	Endpoint  string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`
	// Bucket receives list exports.
	Bucket string `mapstructure:"bucket" default:"exports"`
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds dialing, TLS and the first response byte.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Timeout returns TimeoutSeconds as a duration, 30s when unset.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

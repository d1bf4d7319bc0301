package config

import (
	"io"
	"os"

	"nfl-pool-go/database"
	"nfl-pool-go/logging"
)

// ToDatabaseConfig converts Config to database.Config
func (c *Config) ToDatabaseConfig() database.Config {
	return database.Config{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		Username: c.Database.Username,
		Password: c.Database.Password,
		Database: c.Database.Database,
		Timeout:  c.Database.Timeout,
	}
}

// ToLoggingConfig converts Config to logging.Config writing to out, or stdout when nil
func (c *Config) ToLoggingConfig(out io.Writer) logging.Config {
	if out == nil {
		out = os.Stdout
	}
	return logging.Config{
		Level:       c.Logging.Level,
		Output:      out,
		Prefix:      c.Logging.Prefix,
		EnableColor: c.Logging.EnableColor,
	}
}

// ShouldLogToFile returns whether file logging is enabled
func (c *Config) ShouldLogToFile() bool {
	return c.Logging.EnableFile
}

// GetLogDir returns the log directory path
func (c *Config) GetLogDir() string {
	return c.Logging.LogDir
}

package utils

import (
	"io"
	"log"
	"os"

	"github.com/fatih/color"
)

// LoggerConfig selects the logger output.
type LoggerConfig struct {
	// "text" or "json"
	Format string
	// Defaults to os.Stdout
	Output io.Writer
	// Colorize the prefix in text format
	EnableColors bool
}

// LogPrefix is prepended to every line written by InitLogger loggers.
const LogPrefix = "[Pincorder] "

// InitLogger builds the application logger.
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	prefix := LogPrefix
	if cfg.Format == "json" {
		return log.New(cfg.Output, prefix, log.LstdFlags|log.LUTC)
	}

	if cfg.EnableColors {
		c := color.New(color.FgCyan)
		c.EnableColor()
		prefix = c.Sprint(prefix)
	}
	return log.New(cfg.Output, prefix, log.LstdFlags|log.Lshortfile|log.LUTC)
}

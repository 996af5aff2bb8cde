package app

import (
	"strings"

	"github.com/charlesng35/facultysite/pkg/logger"
)

// ConfigureLogging initialises the global logger with the provided level, defaulting to info.
func ConfigureLogging(level, format string) error {
	level = strings.TrimSpace(level)
	if level == "" {
		level = "info"
	}
	return logger.Init(logger.Options{Level: level, Format: strings.TrimSpace(format)})
}

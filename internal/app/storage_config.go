package app

import (
	"strings"

	"github.com/charlesng35/facultysite/internal/database"
	"github.com/charlesng35/facultysite/internal/services"
)

// ConnectionConfig converts DatabaseConfig into database.Open parameters.
func (c DatabaseConfig) ConnectionConfig() database.Config {
	return database.Config{
		Driver:          strings.TrimSpace(c.Driver),
		Path:            strings.TrimSpace(c.Path),
		DSN:             strings.TrimSpace(c.DSN),
		Host:            strings.TrimSpace(c.Host),
		Port:            c.Port,
		Name:            strings.TrimSpace(c.Name),
		User:            strings.TrimSpace(c.User),
		Password:        c.Password,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
		LogQueries:      c.LogQueries,
	}
}

// UploadServiceConfig converts UploadsConfig into UploadService parameters.
func (c UploadsConfig) UploadServiceConfig() services.UploadConfig {
	return services.UploadConfig{
		PublicPrefix: c.URLPrefix,
		ImageLimit:   c.ImageLimit,
		PDFLimit:     c.PDFLimit,
		SniffContent: c.SniffContent,
		UniqueNames:  c.UniqueNames,
	}
}

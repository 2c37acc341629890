// internal/domain/models/sitesettings.go
package models

import (
	"time"
)

// SiteSEO holds site-wide search defaults.
type SiteSEO struct {
	DefaultTitle       string   `json:"defaultTitle"`
	DefaultDescription string   `json:"defaultDescription"`
	Keywords           []string `json:"keywords"`
	OGImage            string   `json:"ogImage,omitempty"`
}

// SiteSettings is the site-wide configuration kept in a JSON file on disk.
// The JSON keys are also the keys accepted by a partial update.
type SiteSettings struct {
	SiteName        string            `json:"siteName"`
	SiteDescription string            `json:"siteDescription"`
	ContactEmail    string            `json:"contactEmail"`
	ContactPhone    string            `json:"contactPhone"`
	Address         string            `json:"address"`
	Social          map[string]string `json:"social"`
	SEO             SiteSEO           `json:"seo"`
	MaintenanceMode bool              `json:"maintenanceMode"`
	UpdatedAt       *time.Time        `json:"updatedAt,omitempty"`
}

// DefaultSiteName is the site name used when no settings file exists.
const DefaultSiteName = "CareerHub"

// DefaultSiteSettings returns the settings written on first read.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		SiteName:        DefaultSiteName,
		SiteDescription: "Professional training and career opportunities",
		ContactEmail:    "info@careerhub.example",
		Social:          map[string]string{},
		SEO: SiteSEO{
			DefaultTitle:       DefaultSiteName,
			DefaultDescription: "Professional training and career opportunities",
			Keywords:           []string{"training", "jobs", "internships"},
		},
	}
}

package cache

import "time"

// PackageSummary is one row of the cached index payload, matching the
// legacy v1 package list shape consumed by mod managers.
type PackageSummary struct {
	Name           string           `json:"name"`
	FullName       string           `json:"full_name"`
	Owner          string           `json:"owner"`
	PackageURL     string           `json:"package_url"`
	DateCreated    time.Time        `json:"date_created"`
	DateUpdated    time.Time        `json:"date_updated"`
	UUID4          string           `json:"uuid4"`
	RatingScore    int64            `json:"rating_score"`
	IsPinned       bool             `json:"is_pinned"`
	IsDeprecated   bool             `json:"is_deprecated"`
	HasNSFWContent bool             `json:"has_nsfw_content"`
	Categories     []string         `json:"categories"`
	Versions       []VersionSummary `json:"versions"`
}

// VersionSummary is one released version inside a PackageSummary.
type VersionSummary struct {
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	VersionNumber string    `json:"version_number"`
	DownloadURL   string    `json:"download_url"`
	Downloads     int64     `json:"downloads"`
	DateCreated   time.Time `json:"date_created"`
	FileSize      int64     `json:"file_size"`
	IsActive      bool      `json:"is_active"`
	UUID4         string    `json:"uuid4"`
}

package domain

import "time"

// URLStatus represents the lifecycle status of a scrape-source URL
type URLStatus string

const (
	URLStatusActive   URLStatus = "active"
	URLStatusPaused   URLStatus = "paused"
	URLStatusDisabled URLStatus = "disabled"
)

// URLRecord represents a registered scrape-source URL.
// Created lazily on the first sighting of a URL, reused for every
// subsequent batch referencing the same URL string.
type URLRecord struct {
	ID        int64
	URL       string
	Name      *string
	Status    URLStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

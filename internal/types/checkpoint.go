package types

import "time"

// CheckpointSnapshot is the durable state of a crawl at one instant.
type CheckpointSnapshot struct {
	GeneratedAt time.Time   `json:"generatedAt"`
	RunID       string      `json:"runId,omitempty"`
	Count       int         `json:"count"`
	FailedCount int         `json:"failedCount"`
	Businesses  []*Business `json:"businesses"`
	FailedURLs  []string    `json:"failedUrls"`
}

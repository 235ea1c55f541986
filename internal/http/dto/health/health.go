// Package health contiene el DTO de /readyz.
package health

import "time"

type HealthResponse struct {
	Status     string            `json:"status"` // ready | degraded | unavailable
	Version    string            `json:"version,omitempty"`
	Components map[string]string `json:"components"`
	Timestamp  time.Time         `json:"timestamp"`
}

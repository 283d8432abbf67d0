package storage

import (
	"time"

	"github.com/hydrometrics/adcp-survey/internal/sensor"
)

// DeploymentInfo represents a single archived deployment covering one
// measurement site visit. Each deployment captures metadata about where
// and when the transect files were collected.
type DeploymentInfo struct {
	ID          int64     `json:"ID"`             // Unique identifier for the deployment
	CreatedAt   time.Time `json:"createdAt"`      // When the deployment was archived
	StationName string    `json:"stationName"`    // Gauging station name (e.g., "Clearwater River at Miles Crossing")
	StationID   string    `json:"stationID"`      // Agency station identifier
	Site        *string   `json:"site,omitempty"` // Optional site description in JSON format
}

// TransectMeta identifies one transect within a deployment and carries the
// acquisition metadata recorded for it.
type TransectMeta struct {
	ID        int64      `json:"ID"`                  // Unique identifier for the transect
	Seq       int        `json:"seq"`                 // Position of the transect within the deployment
	FileName  string     `json:"fileName"`            // Raw instrument file the transect was decoded from
	Checked   bool       `json:"checked"`             // Whether the transect is marked for use in discharge processing
	StartedAt *time.Time `json:"startedAt,omitempty"` // When acquisition began, if recorded
}

// ChannelTrace holds one archived sensor channel: the working values and the
// as-loaded values, restored to their stored lengths. Slots with no usable
// measurement are NaN.
type ChannelTrace struct {
	ID       int64         `json:"ID"`                 // Unique identifier for the channel
	Kind     sensor.Kind   `json:"kind"`               // Measured quantity (e.g., pitch_deg)
	Origin   sensor.Origin `json:"origin"`             // Where the readings came from
	Source   string        `json:"source"`             // Free-text provenance label
	Selected bool          `json:"selected"`           // Whether this origin was selected for processing
	Values   []float64     `json:"values,omitempty"`   // Working values, one per ensemble
	Original []float64     `json:"original,omitempty"` // As-loaded values, one per ensemble
}

// TransectTraces represents a complete transect read back from the archive:
// its metadata plus every channel trace stored for it, in storage order.
type TransectTraces struct {
	Transect TransectMeta   `json:"transect"`         // The transect the traces belong to
	Traces   []ChannelTrace `json:"traces,omitempty"` // Channel traces archived for this transect
}

package session

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hydrometrics/adcp-survey/internal/sensor"
)

// Deployment is one saved deployment session document: a station visit with
// one or more transects, produced by the instrument review software.
type Deployment struct {
	Version     string     `json:"version,omitempty"` // Format version written by the producer
	StationName string     `json:"stationName"`       // Gauging station name
	StationID   string     `json:"stationID"`         // Agency station identifier
	Site        *Site      `json:"site,omitempty"`    // Site position, if surveyed
	Transects   []Transect `json:"transects"`         // Transects in acquisition order
}

// Site describes where the deployment took place.
type Site struct {
	Latitude  *float64 `json:"latitude,omitempty"`  // WGS84 latitude in decimal degrees
	Longitude *float64 `json:"longitude,omitempty"` // WGS84 longitude in decimal degrees
	Elevation *float64 `json:"elevation,omitempty"` // Elevation above sea level in meters
	Datum     string   `json:"datum,omitempty"`     // Horizontal datum name
}

// Transect is a single crossing within a deployment.
type Transect struct {
	FileName  string     `json:"fileName"`            // Raw instrument file this transect came from
	Checked   bool       `json:"checked"`             // Whether the operator marked the transect for use
	StartedAt *time.Time `json:"startedAt,omitempty"` // Acquisition start, if recorded
	Sensors   SensorSet  `json:"sensors"`             // Sensor channel records for this crossing
}

// SensorSet carries the per-kind channel group records of one transect.
// Absent groups were not recorded by the producer.
type SensorSet struct {
	Pitch        *GroupRecord `json:"pitchDeg,omitempty"`
	Roll         *GroupRecord `json:"rollDeg,omitempty"`
	Temperature  *GroupRecord `json:"temperatureDegC,omitempty"`
	Salinity     *GroupRecord `json:"salinityPpt,omitempty"`
	SpeedOfSound *GroupRecord `json:"speedOfSoundMps,omitempty"`
}

// GroupRecord holds up to three channel records for one kind, plus the
// origin the producer had selected for downstream use.
type GroupRecord struct {
	Internal *ChannelRecord `json:"internal,omitempty"`
	External *ChannelRecord `json:"external,omitempty"`
	User     *ChannelRecord `json:"user,omitempty"`
	Selected string         `json:"selected,omitempty"`
}

// ChannelRecord is the serialized form of a single measurement channel.
type ChannelRecord struct {
	Data     FloatSeries `json:"data"`     // Current values
	DataOrig FloatSeries `json:"dataOrig"` // Values as first loaded
	Source   string      `json:"source"`   // Provenance label
}

// Load reads and decodes a deployment session document from path.
func Load(path string) (*Deployment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening session file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a deployment session document from r.
func Parse(r io.Reader) (*Deployment, error) {
	var d Deployment
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decoding session document: %w", err)
	}
	return &d, nil
}

// Group returns the group record for kind, or nil when the producer did not
// record that kind.
func (s *SensorSet) Group(kind sensor.Kind) *GroupRecord {
	switch kind {
	case sensor.KindPitch:
		return s.Pitch
	case sensor.KindRoll:
		return s.Roll
	case sensor.KindTemperature:
		return s.Temperature
	case sensor.KindSalinity:
		return s.Salinity
	case sensor.KindSpeedOfSound:
		return s.SpeedOfSound
	default:
		return nil
	}
}

// Channel returns the channel record for origin, or nil when absent.
func (g *GroupRecord) Channel(origin sensor.Origin) *ChannelRecord {
	switch origin {
	case sensor.OriginInternal:
		return g.Internal
	case sensor.OriginExternal:
		return g.External
	case sensor.OriginUser:
		return g.User
	default:
		return nil
	}
}

// Record converts the serialized channel into the cell population contract.
func (c *ChannelRecord) Record() sensor.Record {
	return sensor.Record{
		Data:     c.Data,
		DataOrig: c.DataOrig,
		Source:   c.Source,
	}
}

// Suite builds a fully populated sensor suite from the transect's records:
// every present origin of every present kind is reconstructed through the
// cell's record normalization, and the producer's selection is applied.
func (t *Transect) Suite() (*sensor.Suite, error) {
	suite := sensor.NewSuite()
	for kind, group := range suite.All() {
		rec := t.Sensors.Group(kind)
		if rec == nil {
			continue
		}

		for _, origin := range sensor.Origins() {
			cr := rec.Channel(origin)
			if cr == nil {
				continue
			}
			if err := group.PopulateFromRecord(origin, cr.Record()); err != nil {
				return nil, fmt.Errorf("populating %s %s channel: %w", kind, origin, err)
			}
		}

		if rec.Selected == "" {
			continue
		}
		origin, err := sensor.ParseOrigin(rec.Selected)
		if err != nil {
			return nil, fmt.Errorf("selecting %s channel: %w", kind, err)
		}
		if err = group.Select(origin); err != nil {
			return nil, fmt.Errorf("selecting %s channel: %w", kind, err)
		}
	}
	return suite, nil
}

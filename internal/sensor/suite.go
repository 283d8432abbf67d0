package sensor

import (
	"errors"
	"fmt"
	"iter"
)

const (
	KindPitch        Kind = "pitch_deg"          // Platform pitch angle
	KindRoll         Kind = "roll_deg"           // Platform roll angle
	KindTemperature  Kind = "temperature_deg_c"  // Water temperature
	KindSalinity     Kind = "salinity_ppt"       // Water salinity
	KindSpeedOfSound Kind = "speed_of_sound_mps" // Speed of sound in water
)

const (
	OriginInternal Origin = "internal" // Measured by the instrument itself
	OriginExternal Origin = "external" // Measured by an auxiliary device
	OriginUser     Origin = "user"     // Entered or overridden by an operator
)

var (
	// ErrUnknownKind is returned when a channel kind is not one of the
	// five kinds this suite tracks.
	ErrUnknownKind = errors.New("unknown sensor kind")

	// ErrUnknownOrigin is returned when an origin is not internal,
	// external or user.
	ErrUnknownOrigin = errors.New("unknown sensor origin")
)

// Kind identifies one of the physical measurement channels a deployment
// carries.
type Kind string

// Origin identifies which path produced a channel's values.
type Origin string

var kindAliases = map[string]Kind{
	"pitch":       KindPitch,
	"roll":        KindRoll,
	"temperature": KindTemperature,
	"temp":        KindTemperature,
	"salinity":    KindSalinity,
	"sos":         KindSpeedOfSound,
}

// Kinds returns all channel kinds in stable display order.
func Kinds() []Kind {
	return []Kind{KindPitch, KindRoll, KindTemperature, KindSalinity, KindSpeedOfSound}
}

// ParseKind maps a canonical kind name or a short alias (pitch, roll,
// temperature, temp, salinity, sos) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPitch, KindRoll, KindTemperature, KindSalinity, KindSpeedOfSound:
		return Kind(s), nil
	}
	if k, ok := kindAliases[s]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Label returns a human-readable channel name.
func (k Kind) Label() string {
	switch k {
	case KindPitch:
		return "Pitch"
	case KindRoll:
		return "Roll"
	case KindTemperature:
		return "Temperature"
	case KindSalinity:
		return "Salinity"
	case KindSpeedOfSound:
		return "Speed of Sound"
	default:
		return string(k)
	}
}

// Unit returns the measurement unit for the channel kind.
func (k Kind) Unit() string {
	switch k {
	case KindPitch, KindRoll:
		return "deg"
	case KindTemperature:
		return "deg C"
	case KindSalinity:
		return "ppt"
	case KindSpeedOfSound:
		return "m/s"
	default:
		return ""
	}
}

// Origins returns all origins in stable display order.
func Origins() []Origin {
	return []Origin{OriginInternal, OriginExternal, OriginUser}
}

// ParseOrigin maps a label to an Origin.
func ParseOrigin(s string) (Origin, error) {
	switch Origin(s) {
	case OriginInternal, OriginExternal, OriginUser:
		return Origin(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOrigin, s)
}

// Suite aggregates the five measurement channel groups of one transect.
type Suite struct {
	pitch        Group
	roll         Group
	temperature  Group
	salinity     Group
	speedOfSound Group
}

// NewSuite returns a Suite with all groups empty and unselected.
func NewSuite() *Suite {
	return &Suite{}
}

// Group returns the channel group for the given kind.
func (s *Suite) Group(kind Kind) (*Group, error) {
	switch kind {
	case KindPitch:
		return &s.pitch, nil
	case KindRoll:
		return &s.roll, nil
	case KindTemperature:
		return &s.temperature, nil
	case KindSalinity:
		return &s.salinity, nil
	case KindSpeedOfSound:
		return &s.speedOfSound, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// All iterates the groups in the order of Kinds.
func (s *Suite) All() iter.Seq2[Kind, *Group] {
	return func(yield func(Kind, *Group) bool) {
		for _, kind := range Kinds() {
			g, _ := s.Group(kind)
			if !yield(kind, g) {
				return
			}
		}
	}
}

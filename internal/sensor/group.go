package sensor

import "fmt"

// Group holds up to three cells for one measurement channel, one per origin,
// and records which origin downstream consumers should read. Cells are
// created lazily on first population; an origin that was never populated has
// no cell.
type Group struct {
	internal *Channel
	external *Channel
	user     *Channel
	selected Origin
}

// Channel returns the cell for origin, or nil when that origin was never
// populated. An unknown origin also returns nil.
func (g *Group) Channel(origin Origin) *Channel {
	slot, err := g.slot(origin)
	if err != nil {
		return nil
	}
	return *slot
}

// Populate fills the cell for origin with values and a source label,
// creating the cell if needed.
func (g *Group) Populate(origin Origin, values []float64, source string) error {
	ch, err := g.channelFor(origin)
	if err != nil {
		return err
	}
	ch.Populate(values, source)
	return nil
}

// PopulateFromRecord reconstructs the cell for origin from an external
// saved-session record, creating the cell if needed.
func (g *Group) PopulateFromRecord(origin Origin, rec Record) error {
	ch, err := g.channelFor(origin)
	if err != nil {
		return err
	}
	ch.PopulateFromRecord(rec)
	return nil
}

// Select marks origin as the one downstream consumers read. Selecting an
// origin whose cell was never populated is allowed; Selected then returns
// nil until that origin is populated.
func (g *Group) Select(origin Origin) error {
	if _, err := g.slot(origin); err != nil {
		return err
	}
	g.selected = origin
	return nil
}

// Selected returns the cell of the selected origin, or nil when no origin
// is selected or the selected origin has no cell.
func (g *Group) Selected() *Channel {
	if g.selected == "" {
		return nil
	}
	return g.Channel(g.selected)
}

// SelectedOrigin returns the selected origin, or "" when none is selected.
func (g *Group) SelectedOrigin() Origin {
	return g.selected
}

func (g *Group) channelFor(origin Origin) (*Channel, error) {
	slot, err := g.slot(origin)
	if err != nil {
		return nil, err
	}
	if *slot == nil {
		*slot = NewChannel()
	}
	return *slot, nil
}

func (g *Group) slot(origin Origin) (**Channel, error) {
	switch origin {
	case OriginInternal:
		return &g.internal, nil
	case OriginExternal:
		return &g.external, nil
	case OriginUser:
		return &g.user, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOrigin, origin)
	}
}

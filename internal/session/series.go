package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// FloatSeries holds one numeric field of a channel record. Producers write
// either a single number, an array of numbers with null where a measurement
// is undefined, or null for the whole field. Decoding promotes a scalar to a
// one-element series, maps null elements to NaN markers, and leaves the
// series nil when the field itself is null. Any other shape is a fatal
// input-contract violation surfaced as the decoder's error.
type FloatSeries []float64

func (s *FloatSeries) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}

	if len(data) > 0 && data[0] == '[' {
		var elems []*float64
		if err := json.Unmarshal(data, &elems); err != nil {
			return fmt.Errorf("decoding series: %w", err)
		}

		out := make(FloatSeries, len(elems))
		for i, e := range elems {
			if e == nil {
				out[i] = math.NaN()
				continue
			}
			out[i] = *e
		}
		*s = out
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding scalar series: %w", err)
	}
	*s = FloatSeries{v}
	return nil
}

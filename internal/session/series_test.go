package session

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestFloatSeries_UnmarshalJSON(t *testing.T) {
	nan := math.NaN()

	testCases := []struct {
		name    string
		in      string
		want    FloatSeries
		wantErr bool
	}{
		{
			name: "array of numbers",
			in:   `[3.1, 3.2, 3.3]`,
			want: FloatSeries{3.1, 3.2, 3.3},
		},
		{
			name: "scalar promotes to one element",
			in:   `35.0`,
			want: FloatSeries{35.0},
		},
		{
			name: "integer scalar",
			in:   `2`,
			want: FloatSeries{2},
		},
		{
			name: "null elements become NaN markers",
			in:   `[null, 3.2, null]`,
			want: FloatSeries{nan, 3.2, nan},
		},
		{
			name: "all null elements are kept as markers",
			in:   `[null, null]`,
			want: FloatSeries{nan, nan},
		},
		{
			name: "null field stays absent",
			in:   `null`,
			want: nil,
		},
		{
			name: "empty array stays empty",
			in:   `[]`,
			want: FloatSeries{},
		},
		{
			name:    "string is a contract violation",
			in:      `"12.5"`,
			wantErr: true,
		},
		{
			name:    "array of strings is a contract violation",
			in:      `["12.5"]`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got FloatSeries
			err := json.Unmarshal([]byte(tc.in), &got)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error decoding %s", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Failed to decode %s: %v", tc.in, err)
			}
			if diff := cmp.Diff(tc.want, got, cmpopts.EquateNaNs()); diff != "" {
				t.Errorf("Series mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFloatSeries_UnmarshalJSONInStruct(t *testing.T) {
	// A field omitted from the document must stay nil, distinct from the
	// empty series an explicit [] produces.
	var rec ChannelRecord
	if err := json.Unmarshal([]byte(`{"data": [], "source": "User"}`), &rec); err != nil {
		t.Fatalf("Failed to decode record: %v", err)
	}

	if rec.Data == nil {
		t.Error("Expected empty data series, got nil")
	}
	if len(rec.Data) != 0 {
		t.Errorf("Expected empty data series, got %v", rec.Data)
	}
	if rec.DataOrig != nil {
		t.Errorf("Expected nil original series for omitted field, got %v", rec.DataOrig)
	}
}

package remote

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{`12`, 12, false},
		{`-3.5`, -3.5, false},
		{`"52.520008"`, 52.520008, false},
		{`" 7 "`, 7, false},
		{`"abc"`, 0, true},
		{`true`, 0, true},
		{`{}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n Number
			err := json.Unmarshal([]byte(tt.in), &n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && n.Float() != tt.want {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, n.Float(), tt.want)
			}
		})
	}
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{`"2024-03-01T10:00:00Z"`, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), false},
		{`"2024-03-01T10:00:00.123Z"`, time.Date(2024, 3, 1, 10, 0, 0, 123000000, time.UTC), false},
		{`"2024-03-01 10:00:00"`, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), false},
		{`"2024-03-01"`, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{`1709287200000`, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), false},
		{`"yesterday"`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.in), &ts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !ts.Equal(tt.want) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, ts.Time, tt.want)
			}
		})
	}
}

func TestPtrHelpers(t *testing.T) {
	if FloatPtr(nil) != nil || TimePtr(nil) != nil {
		t.Error("nil inputs should map to nil")
	}
	n := Number(4)
	if got := FloatPtr(&n); got == nil || *got != 4 {
		t.Errorf("FloatPtr() = %v", got)
	}
}

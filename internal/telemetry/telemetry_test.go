package telemetry_test

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/handiism/goprocat/internal/telemetry"
	"github.com/handiism/goprocat/internal/telemetry/gpmftest"
)

var t0 = time.Date(2023, 5, 15, 10, 11, 12, 500_000_000, time.UTC)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-4
}

func TestDecode_Nested(t *testing.T) {
	stream := gpmftest.GPSStream(t0, gpmftest.Fix{Lat: 1, Lon: 2, Alt: 3})

	items, err := telemetry.Decode(stream)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(items) != 1 || items[0].Key != "DEVC" {
		t.Fatalf("Decode() top level = %+v, want single DEVC", items)
	}
	strm := items[0].Child("STRM")
	if strm == nil {
		t.Fatal("DEVC has no STRM child")
	}
	for _, key := range []string{"STNM", "GPSF", "GPSU", "GPSP", "UNIT", "SCAL", "GPS5"} {
		if strm.Child(key) == nil {
			t.Errorf("STRM is missing %s", key)
		}
	}
}

func TestDecode_UnpaddedLastItem(t *testing.T) {
	item := gpmftest.KLV("TEST", 'c', 3, 1, []byte("abc"))
	// Drop the alignment byte of the final item.
	items, err := telemetry.Decode(item[:len(item)-1])
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got := items[0].Strings(); len(got) != 1 || got[0] != "abc" {
		t.Errorf("Strings() = %v, want [abc]", got)
	}
}

func TestDecode_Malformed(t *testing.T) {
	valid := gpmftest.GPSStream(t0, gpmftest.Fix{Lat: 1, Lon: 2})

	tests := []struct {
		name   string
		stream []byte
	}{
		{name: "truncated header", stream: valid[:5]},
		{name: "truncated payload", stream: valid[:len(valid)-12]},
		{name: "length past end", stream: gpmftest.KLV("GPS5", 'l', 20, 3, make([]byte, 20))[:28]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := telemetry.Decode(tt.stream)
			if !errors.Is(err, telemetry.ErrMalformed) {
				t.Errorf("Decode() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestParseGPS(t *testing.T) {
	stream := bytes.Join([][]byte{
		gpmftest.GPSStream(t0,
			gpmftest.Fix{Lat: 37.7749, Lon: -122.4194, Alt: 15.5, Speed2D: 1.25, Speed3D: 1.5},
			gpmftest.Fix{Lat: 37.7750, Lon: -122.4195, Alt: 16, Speed2D: 1.5, Speed3D: 1.75},
		),
		gpmftest.AccelStream(),
		gpmftest.GPSStream(t0.Add(time.Second),
			gpmftest.Fix{Lat: 37.7751, Lon: -122.4196, Alt: 16.5},
		),
	}, nil)

	blocks, err := telemetry.ParseGPS(stream)
	if err != nil {
		t.Fatalf("ParseGPS() error: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("ParseGPS() returned %d blocks, want 2", len(blocks))
	}

	first := blocks[0]
	if !first.Timestamp.Equal(t0) {
		t.Errorf("Timestamp = %v, want %v", first.Timestamp, t0)
	}
	if first.Fix != 3 {
		t.Errorf("Fix = %d, want 3", first.Fix)
	}
	if !almostEqual(first.Precision, 1.5) {
		t.Errorf("Precision = %v, want 1.5", first.Precision)
	}
	if len(first.Units) != 5 || first.Units[0] != "deg" || first.Units[2] != "m" {
		t.Errorf("Units = %q", first.Units)
	}
	if first.Description == "" {
		t.Error("Description should be set from STNM")
	}
	if len(first.Samples) != 2 {
		t.Fatalf("Samples = %d, want 2", len(first.Samples))
	}

	s := first.Samples[0]
	if !almostEqual(s.Latitude, 37.7749) || !almostEqual(s.Longitude, -122.4194) {
		t.Errorf("position = %v,%v, want 37.7749,-122.4194", s.Latitude, s.Longitude)
	}
	if !almostEqual(s.Altitude, 15.5) || !almostEqual(s.Speed2D, 1.25) || !almostEqual(s.Speed3D, 1.5) {
		t.Errorf("alt/speed = %v/%v/%v", s.Altitude, s.Speed2D, s.Speed3D)
	}

	if !blocks[1].Timestamp.Equal(t0.Add(time.Second)) {
		t.Errorf("second block Timestamp = %v", blocks[1].Timestamp)
	}
}

func TestParseGPS_NoData(t *testing.T) {
	tests := []struct {
		name   string
		stream []byte
	}{
		{name: "empty stream", stream: nil},
		{name: "no gps stream", stream: gpmftest.AccelStream()},
		{name: "gps stream without samples", stream: gpmftest.GPSStream(t0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := telemetry.ParseGPS(tt.stream)
			if !errors.Is(err, telemetry.ErrNoData) {
				t.Errorf("ParseGPS() = %v, %v, want ErrNoData", blocks, err)
			}
		})
	}
}

func TestParseGPS_Malformed(t *testing.T) {
	zeroScale := gpmftest.Nest("DEVC",
		gpmftest.Nest("STRM",
			gpmftest.Int32s("SCAL", 1, 0),
			gpmftest.Int32s("GPS5", 5, 1, 2, 3, 4, 5),
		),
	)
	missingScale := gpmftest.Nest("DEVC",
		gpmftest.Nest("STRM",
			gpmftest.Int32s("GPS5", 5, 1, 2, 3, 4, 5),
		),
	)
	wrongWidth := gpmftest.Nest("DEVC",
		gpmftest.Nest("STRM",
			gpmftest.Int32s("SCAL", 1, 1),
			gpmftest.Int32s("GPS5", 3, 1, 2, 3),
		),
	)
	badTime := gpmftest.Nest("DEVC",
		gpmftest.Nest("STRM",
			gpmftest.KLV("GPSU", 'U', 16, 1, []byte("not a timestamp!")),
			gpmftest.Int32s("SCAL", 1, 1),
			gpmftest.Int32s("GPS5", 5, 1, 2, 3, 4, 5),
		),
	)
	valid := gpmftest.GPSStream(t0, gpmftest.Fix{Lat: 1, Lon: 2})

	tests := []struct {
		name   string
		stream []byte
	}{
		{name: "zero scale", stream: zeroScale},
		{name: "missing scale", stream: missingScale},
		{name: "wrong sample width", stream: wrongWidth},
		{name: "bad timestamp", stream: badTime},
		{name: "truncated", stream: valid[:len(valid)-8]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := telemetry.ParseGPS(tt.stream)
			if !errors.Is(err, telemetry.ErrMalformed) {
				t.Errorf("ParseGPS() error = %v, want ErrMalformed", err)
			}
		})
	}
}

package telemetry

import (
	"fmt"
	"strings"
	"time"
)

// gpsuLayout is the GPSU timestamp format: yymmddhhmmss.sss, UTC.
const gpsuLayout = "060102150405.000"

// gps5Width is the number of values per GPS5 sample.
const gps5Width = 5

// Block is a GPMF stream (STRM) that carries GPS5 samples.
type Block = Item

// Sample is one GPS fix in real-world units.
type Sample struct {
	Latitude  float64 // degrees
	Longitude float64 // degrees
	Altitude  float64 // meters (WGS84)
	Speed2D   float64 // m/s
	Speed3D   float64 // m/s
}

// GPSData is one parsed GPS block, usually one second of fixes.
type GPSData struct {
	// Description is the stream name (STNM), if present.
	Description string

	// Timestamp is the UTC time of the first sample (GPSU). Zero when the
	// block has no GPSU.
	Timestamp time.Time

	// Fix is the GPS fix: 0 (none), 2 (2D) or 3 (3D).
	Fix int

	// Precision is the dilution of precision (GPSP / 100).
	Precision float64

	// Units holds the per-field units (UNIT), if present.
	Units []string

	// Samples holds the scaled GPS5 samples.
	Samples []Sample
}

// ExtractGPSBlocks decodes stream and returns every STRM that carries GPS5
// samples, in stream order.
func ExtractGPSBlocks(stream []byte) ([]Block, error) {
	items, err := Decode(stream)
	if err != nil {
		return nil, err
	}

	var blocks []Block
	collectGPSBlocks(items, &blocks)
	return blocks, nil
}

func collectGPSBlocks(items []Item, blocks *[]Block) {
	for i := range items {
		it := &items[i]
		if it.Type != typeNested {
			continue
		}
		if it.Key == "STRM" && it.Child("GPS5") != nil {
			*blocks = append(*blocks, *it)
			continue
		}
		collectGPSBlocks(it.Children, blocks)
	}
}

// ParseGPSBlock converts a GPS stream into scaled samples.
func ParseGPSBlock(block Block) (GPSData, error) {
	var data GPSData

	gps5 := block.Child("GPS5")
	if gps5 == nil {
		return data, ErrNoData
	}
	if gps5.Type != typeInt32 || gps5.Size != gps5Width*4 {
		return data, fmt.Errorf("%w: GPS5 type %q size %d", ErrMalformed, gps5.Type, gps5.Size)
	}

	scal := block.Child("SCAL")
	if scal == nil {
		return data, fmt.Errorf("%w: GPS5 without SCAL", ErrMalformed)
	}
	scales, err := scal.Floats()
	if err != nil {
		return data, err
	}
	if len(scales) != 1 && len(scales) != gps5Width {
		return data, fmt.Errorf("%w: SCAL has %d values", ErrMalformed, len(scales))
	}
	for _, s := range scales {
		if s == 0 {
			return data, fmt.Errorf("%w: zero SCAL", ErrMalformed)
		}
	}

	raw, err := gps5.Floats()
	if err != nil {
		return data, err
	}
	data.Samples = make([]Sample, 0, len(raw)/gps5Width)
	for i := 0; i+gps5Width <= len(raw); i += gps5Width {
		var v [gps5Width]float64
		for j := range v {
			scale := scales[0]
			if len(scales) == gps5Width {
				scale = scales[j]
			}
			v[j] = raw[i+j] / scale
		}
		data.Samples = append(data.Samples, Sample{
			Latitude:  v[0],
			Longitude: v[1],
			Altitude:  v[2],
			Speed2D:   v[3],
			Speed3D:   v[4],
		})
	}

	if stnm := block.Child("STNM"); stnm != nil && stnm.Type == typeChar {
		data.Description = strings.TrimRight(string(stnm.Data), "\x00 ")
	}

	if unit := block.Child("UNIT"); unit != nil && unit.Type == typeChar {
		data.Units = unit.Strings()
	}

	if gpsu := block.Child("GPSU"); gpsu != nil {
		if gpsu.Type != typeUTCDate && gpsu.Type != typeChar {
			return data, fmt.Errorf("%w: GPSU type %q", ErrMalformed, gpsu.Type)
		}
		ts, err := time.ParseInLocation(gpsuLayout, string(gpsu.Data), time.UTC)
		if err != nil {
			return data, fmt.Errorf("%w: GPSU %q: %v", ErrMalformed, gpsu.Data, err)
		}
		data.Timestamp = ts
	}

	if gpsf := block.Child("GPSF"); gpsf != nil {
		v, err := gpsf.Floats()
		if err != nil {
			return data, err
		}
		if len(v) > 0 {
			data.Fix = int(v[0])
		}
	}

	if gpsp := block.Child("GPSP"); gpsp != nil {
		v, err := gpsp.Floats()
		if err != nil {
			return data, err
		}
		if len(v) > 0 {
			data.Precision = v[0] / 100
		}
	}

	return data, nil
}

// ParseGPS decodes a whole telemetry stream into GPS blocks.
//
// The result is one of:
//   - a non-empty slice of blocks with at least one sample overall
//   - ErrNoData: the stream has no GPS samples at all
//   - ErrMalformed (wrapped): the stream or a GPS block cannot be decoded
func ParseGPS(stream []byte) ([]GPSData, error) {
	blocks, err := ExtractGPSBlocks(stream)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, ErrNoData
	}

	result := make([]GPSData, 0, len(blocks))
	samples := 0
	for _, block := range blocks {
		data, err := ParseGPSBlock(block)
		if err != nil {
			return nil, err
		}
		samples += len(data.Samples)
		result = append(result, data)
	}

	if samples == 0 {
		return nil, ErrNoData
	}

	return result, nil
}

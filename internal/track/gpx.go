package track

import (
	"strconv"
	"time"

	ioutils "github.com/handiism/goprocat/internal/io"
	"github.com/handiism/goprocat/internal/telemetry"
	"github.com/tkrajina/gpxgo/gpx"
)

// Extension is the file extension of written tracks.
const Extension = "gpx"

// gpxVersion is the GPX schema version written by Builder.
const gpxVersion = "1.1"

// Namespace of the per-point speed extensions.
const (
	extensionPrefix = "goprocat"
	extensionURL    = "https://github.com/handiism/goprocat/gpx/1"
)

// lastBlockSpan is the time the samples of the final block are spread over.
// GPS5 blocks are written once per second.
const lastBlockSpan = time.Second

// Builder collects GPS segments into a single-track GPX document.
//
// Each call to AddSegment appends one segment, so a track built from a
// chaptered recording has one segment per chapter file:
//
//	b := NewBuilder("goprocat", "GX010123")
//	for _, blocks := range perFileBlocks {
//	    b.AddSegment(blocks)
//	}
//	err := b.WriteFile("/out/GX010123.gpx")
type Builder struct {
	doc *gpx.GPX
}

// NewBuilder creates a Builder with an empty track named name.
func NewBuilder(creator, name string) *Builder {
	doc := &gpx.GPX{
		Version: gpxVersion,
		Creator: creator,
	}
	doc.RegisterNamespace(extensionPrefix, extensionURL)
	doc.Tracks = append(doc.Tracks, gpx.GPXTrack{Name: name})
	return &Builder{doc: doc}
}

// AddSegment appends one segment made of all samples in blocks.
//
// Sample times are spread evenly between a block's timestamp and the next
// block's timestamp, or over one second for the last block. Blocks without a
// timestamp produce points without time. Every point carries the sample's 2D
// and 3D speed as speed2d and speed3d extensions.
func (b *Builder) AddSegment(blocks []telemetry.GPSData) {
	var seg gpx.GPXTrackSegment

	for i, block := range blocks {
		span := lastBlockSpan
		if i+1 < len(blocks) && !block.Timestamp.IsZero() && blocks[i+1].Timestamp.After(block.Timestamp) {
			span = blocks[i+1].Timestamp.Sub(block.Timestamp)
		}

		var step time.Duration
		if n := len(block.Samples); n > 0 {
			step = span / time.Duration(n)
		}

		for j, s := range block.Samples {
			p := gpx.GPXPoint{
				Point: gpx.Point{
					Latitude:  s.Latitude,
					Longitude: s.Longitude,
					Elevation: *gpx.NewNullableFloat64(s.Altitude),
				},
				TypeOfGpsFix: fixName(block.Fix),
			}
			if !block.Timestamp.IsZero() {
				p.Timestamp = block.Timestamp.Add(time.Duration(j) * step)
			}
			if block.Precision > 0 {
				p.PositionalDilution = *gpx.NewNullableFloat64(block.Precision)
			}
			p.Extensions.GetOrCreateNode(extensionURL, "speed2d").Data = formatSpeed(s.Speed2D)
			p.Extensions.GetOrCreateNode(extensionURL, "speed3d").Data = formatSpeed(s.Speed3D)
			seg.Points = append(seg.Points, p)
		}
	}

	b.doc.Tracks[0].Segments = append(b.doc.Tracks[0].Segments, seg)
}

// Segments returns the number of segments added so far.
func (b *Builder) Segments() int {
	return len(b.doc.Tracks[0].Segments)
}

// Points returns the number of points over all segments.
func (b *Builder) Points() int {
	n := 0
	for _, seg := range b.doc.Tracks[0].Segments {
		n += len(seg.Points)
	}
	return n
}

// XML renders the document as indented GPX 1.1.
func (b *Builder) XML() ([]byte, error) {
	return b.doc.ToXml(gpx.ToXmlParams{Version: gpxVersion, Indent: true})
}

// WriteFile renders the document and writes it to path, replacing any
// existing file.
func (b *Builder) WriteFile(path string) error {
	data, err := b.XML()
	if err != nil {
		return err
	}
	return ioutils.WriteFile(path, data)
}

// formatSpeed renders a speed in m/s for a point extension.
func formatSpeed(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fixName maps a GPMF fix value to the GPX fix type.
func fixName(fix int) string {
	switch fix {
	case 2:
		return "2d"
	case 3:
		return "3d"
	default:
		return "none"
	}
}

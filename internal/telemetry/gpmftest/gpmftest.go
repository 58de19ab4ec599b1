// Package gpmftest builds GPMF byte streams for tests.
package gpmftest

import (
	"bytes"
	"encoding/binary"
	"time"
)

// KLV encodes one item with the given header and payload, padded to 4 bytes.
func KLV(key string, typ byte, size, repeat int, data []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(key)
	buf.WriteByte(typ)
	buf.WriteByte(byte(size))
	_ = binary.Write(&buf, binary.BigEndian, uint16(repeat))
	buf.Write(data)
	for buf.Len()%4 != 0 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// Nest encodes a container item holding children.
func Nest(key string, children ...[]byte) []byte {
	payload := bytes.Join(children, nil)
	return KLV(key, 0, 4, len(payload)/4, payload)
}

// Int32s encodes one int32 struct of len(values) fields per sample.
func Int32s(key string, width int, values ...int32) []byte {
	var data bytes.Buffer
	for _, v := range values {
		_ = binary.Write(&data, binary.BigEndian, v)
	}
	return KLV(key, 'l', width*4, len(values)/width, data.Bytes())
}

// Uint32 encodes a single uint32 value.
func Uint32(key string, v uint32) []byte {
	data := make([]byte, 4)
	binary.BigEndian.PutUint32(data, v)
	return KLV(key, 'L', 4, 1, data)
}

// Uint16 encodes a single uint16 value.
func Uint16(key string, v uint16) []byte {
	data := make([]byte, 2)
	binary.BigEndian.PutUint16(data, v)
	return KLV(key, 'S', 2, 1, data)
}

// String encodes a character item.
func String(key, s string) []byte {
	return KLV(key, 'c', len(s), 1, []byte(s))
}

// GPSU encodes a GPS UTC timestamp.
func GPSU(t time.Time) []byte {
	s := t.UTC().Format("060102150405.000")
	return KLV("GPSU", 'U', len(s), 1, []byte(s))
}

// Fix is one unscaled GPS5 sample in degrees, meters and m/s.
type Fix struct {
	Lat, Lon, Alt, Speed2D, Speed3D float64
}

// Scales used by GPSStream, matching what HERO cameras write.
var Scales = []int32{10000000, 10000000, 1000, 1000, 100}

// GPSStream encodes one DEVC with a single GPS STRM holding fixes taken at ts.
func GPSStream(ts time.Time, fixes ...Fix) []byte {
	values := make([]int32, 0, len(fixes)*5)
	for _, f := range fixes {
		values = append(values,
			int32(f.Lat*float64(Scales[0])),
			int32(f.Lon*float64(Scales[1])),
			int32(f.Alt*float64(Scales[2])),
			int32(f.Speed2D*float64(Scales[3])),
			int32(f.Speed3D*float64(Scales[4])),
		)
	}

	return Nest("DEVC",
		String("DVNM", "Camera"),
		Nest("STRM",
			String("STNM", "GPS (Lat., Long., Alt., 2D speed, 3D speed)"),
			Uint32("GPSF", 3),
			GPSU(ts),
			Uint16("GPSP", 150),
			KLV("UNIT", 'c', 3, 5, []byte("deg"+"deg"+"m\x00\x00"+"m/s"+"m/s")),
			Int32s("SCAL", 1, Scales...),
			Int32s("GPS5", 5, values...),
		),
	)
}

// AccelStream encodes one DEVC with a non-GPS stream only.
func AccelStream() []byte {
	return Nest("DEVC",
		Nest("STRM",
			String("STNM", "Accelerometer"),
			Int32s("SCAL", 1, 418),
			Int32s("ACCL", 3, 1, 2, 3, 4, 5, 6),
		),
	)
}

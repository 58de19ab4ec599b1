package telemetry

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrNoData means the stream decoded fine but carries no GPS samples.
	ErrNoData = errors.New("no GPS data")

	// ErrMalformed means the stream could not be decoded: a length, struct
	// size or scale does not fit the data it describes.
	ErrMalformed = errors.New("malformed telemetry")
)

// headerSize is the size of a KLV header: FourCC, type, struct size, repeat.
const headerSize = 8

// Value types used by the decoder. A type of 0 marks a nested container.
const (
	typeNested  byte = 0
	typeInt8    byte = 'b'
	typeUint8   byte = 'B'
	typeChar    byte = 'c'
	typeDouble  byte = 'd'
	typeFloat   byte = 'f'
	typeInt64   byte = 'j'
	typeUint64  byte = 'J'
	typeInt32   byte = 'l'
	typeUint32  byte = 'L'
	typeInt16   byte = 's'
	typeUint16  byte = 'S'
	typeUTCDate byte = 'U'
)

// Item is one decoded KLV entry of a GPMF stream.
type Item struct {
	// Key is the FourCC, e.g. "DEVC", "STRM" or "GPS5".
	Key string

	// Type is the value type character, 0 for nested items.
	Type byte

	// Size is the size in bytes of one sample (struct).
	Size int

	// Repeat is the number of samples.
	Repeat int

	// Data is the payload without padding. For nested items it is the
	// encoded children.
	Data []byte

	// Children holds the decoded payload of nested items.
	Children []Item
}

// Child returns the first direct child with key, or nil.
func (it *Item) Child(key string) *Item {
	for i := range it.Children {
		if it.Children[i].Key == key {
			return &it.Children[i]
		}
	}
	return nil
}

// Decode decodes a GPMF byte stream into its top level items, recursing into
// nested containers.
//
// Every item must fit in the stream. Only the final item may omit its
// trailing 32-bit alignment padding.
func Decode(stream []byte) ([]Item, error) {
	var items []Item

	for off := 0; off < len(stream); {
		if len(stream)-off < headerSize {
			return nil, fmt.Errorf("%w: truncated header at offset %d", ErrMalformed, off)
		}

		h := stream[off : off+headerSize]
		it := Item{
			Key:    string(h[0:4]),
			Type:   h[4],
			Size:   int(h[5]),
			Repeat: int(binary.BigEndian.Uint16(h[6:8])),
		}

		n := it.Size * it.Repeat
		padded := (n + 3) &^ 3
		start := off + headerSize
		if start+n > len(stream) {
			return nil, fmt.Errorf("%w: %s at offset %d needs %d bytes, %d left",
				ErrMalformed, printableKey(it.Key), off, n, len(stream)-start)
		}
		it.Data = stream[start : start+n]

		if it.Type == typeNested {
			children, err := Decode(it.Data)
			if err != nil {
				return nil, err
			}
			it.Children = children
		}

		items = append(items, it)
		off = start + padded
	}

	return items, nil
}

// Floats returns the item payload as numbers, in stored order.
func (it *Item) Floats() ([]float64, error) {
	width := typeWidth(it.Type)
	if width == 0 {
		return nil, fmt.Errorf("%w: %s has non-numeric type %q", ErrMalformed, printableKey(it.Key), it.Type)
	}
	if it.Size%width != 0 {
		return nil, fmt.Errorf("%w: %s struct size %d is not a multiple of %d", ErrMalformed, printableKey(it.Key), it.Size, width)
	}

	count := len(it.Data) / width
	values := make([]float64, count)
	for i := 0; i < count; i++ {
		b := it.Data[i*width : (i+1)*width]
		switch it.Type {
		case typeInt8:
			values[i] = float64(int8(b[0]))
		case typeUint8:
			values[i] = float64(b[0])
		case typeInt16:
			values[i] = float64(int16(binary.BigEndian.Uint16(b)))
		case typeUint16:
			values[i] = float64(binary.BigEndian.Uint16(b))
		case typeInt32:
			values[i] = float64(int32(binary.BigEndian.Uint32(b)))
		case typeUint32:
			values[i] = float64(binary.BigEndian.Uint32(b))
		case typeFloat:
			values[i] = float64(math.Float32frombits(binary.BigEndian.Uint32(b)))
		case typeInt64:
			values[i] = float64(int64(binary.BigEndian.Uint64(b)))
		case typeUint64:
			values[i] = float64(binary.BigEndian.Uint64(b))
		case typeDouble:
			values[i] = math.Float64frombits(binary.BigEndian.Uint64(b))
		}
	}

	return values, nil
}

// Strings returns a character item as one string per sample, with NUL
// padding removed.
func (it *Item) Strings() []string {
	if it.Size == 0 {
		return nil
	}
	out := make([]string, 0, it.Repeat)
	for i := 0; i+it.Size <= len(it.Data); i += it.Size {
		out = append(out, strings.TrimRight(string(it.Data[i:i+it.Size]), "\x00 "))
	}
	return out
}

func typeWidth(t byte) int {
	switch t {
	case typeInt8, typeUint8:
		return 1
	case typeInt16, typeUint16:
		return 2
	case typeInt32, typeUint32, typeFloat:
		return 4
	case typeInt64, typeUint64, typeDouble:
		return 8
	}
	return 0
}

func printableKey(key string) string {
	return fmt.Sprintf("%q", key)
}

// Package telemetry decodes the GoPro Metadata Format (GPMF) and extracts
// GPS fixes from it.
//
// GPMF is a KLV stream: every item starts with a 4-byte key, a 1-byte value
// type, a 1-byte struct size and a 2-byte big-endian repeat count, followed by
// size*repeat bytes of payload padded to a 32-bit boundary. Items of type 0
// hold nested items. GPS samples live in DEVC > STRM > GPS5, next to the
// SCAL, GPSU, GPSF and GPSP items that describe them.
//
// # Parsing
//
//	blocks, err := telemetry.ParseGPS(stream)
//	switch {
//	case errors.Is(err, telemetry.ErrNoData):
//	    // the file was recorded without a GPS lock
//	case errors.Is(err, telemetry.ErrMalformed):
//	    // the stream is damaged
//	case err != nil:
//	    return err
//	}
//
// ErrNoData and ErrMalformed are the only errors the package produces.
package telemetry

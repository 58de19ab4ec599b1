// Package track turns parsed GPS telemetry into GPX track files.
//
// A recording session becomes one GPX document with a single track; every
// chapter file that carried GPS data adds one segment to it. A document
// with zero segments is still valid GPX and is written as such.
package track

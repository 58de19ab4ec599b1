// Package ioutils provides file system utilities.
//
// # Directories
//
//	// Input and output directories must exist
//	err := ioutils.CheckDir("/media/card/DCIM/100GOPRO")
//
// # File Times
//
//	// Give the merged video the timestamps of its first chapter
//	err := ioutils.CopyTimes("/in/GX010123.MP4", "/out/GX010123.MP4")
package ioutils

// Package merge provides the orchestration that turns a directory of chaptered
// recordings into one video and one GPS track per recording session.
//
// # Manager
//
// The Manager coordinates the whole run:
//
//  1. Scan the input directory into session groups
//  2. Extract the telemetry stream of every chapter and decode its GPS blocks
//  3. Write one track with a segment per chapter
//  4. Concatenate the chapters into one video
//  5. Carry the first chapter's file times over to the video (optional)
//
// # Basic Usage
//
//	manager := merge.NewManager(settings, settings.ToRunner(), func(event merge.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize("/DCIM/100GOPRO"); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := manager.Run(ctx, "/media/out"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Failure Policy
//
// Groups are processed one at a time. A chapter without GPS data or with an
// undecodable telemetry stream is reported as a warning and contributes no
// segment. Every other failure aborts the run; outputs of groups that were
// already finished stay on disk.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	    Group   string
//	    File    string
//	}
package merge

// Package model defines the core data structures used throughout goprocat.
//
// # Recording
//
// Recording is one chapter file parsed from its camera file name:
//
//	rec, err := model.ParseRecording(path, []string{"GX", "GH"}, "MP4")
//	fmt.Println(rec.Mode, rec.Chapter, rec.Session)
//
// # Group
//
// Group is one recording session, its chapters ordered by chapter number:
//
//	g := model.NewGroup(recs)
//	fmt.Println(g.VideoPath(outDir)) // Where the concatenated video goes
//	fmt.Println(g.TrackPath(outDir, "gpx")) // Where the GPS track goes
package model

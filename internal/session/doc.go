// Package session discovers chaptered camera recordings in a directory and
// partitions them into recording sessions.
//
// A session is identified by its recording mode and the three-character
// session id at the end of the file stem:
//
//	groups, err := session.Scan("/media/card/DCIM/100GOPRO", []string{"GX", "GH"}, "MP4")
//	if errors.Is(err, session.ErrNoRecordings) {
//	    // usage error: wrong directory
//	}
//	for _, g := range groups {
//	    fmt.Println(g.Key(), g.Paths())
//	}
//
// Chapter order inside a group comes from the parsed chapter number, so it
// does not depend on how the directory listing happens to be sorted.
package session

package model

import (
	"path/filepath"
	"sort"

	"github.com/facette/natsort"
)

// Group represents one continuous recording session split into chapters.
//
// All recordings in a group share the same Mode and Session, and are ordered
// by ascending chapter number. A Group is never empty.
//
// Output paths are derived from the first chapter, the same way the camera
// would have named a single unsplit file:
//
//	g := NewGroup([]*Recording{ch2, ch1})
//	g.VideoPath("/out") // "/out/GX010123.MP4"
//	g.TrackPath("/out", "gpx") // "/out/GX010123.gpx"
type Group struct {
	// Mode is the recording mode shared by all chapters.
	Mode string

	// Session is the session identifier shared by all chapters.
	Session string

	// Recordings holds the chapters in ascending chapter order.
	Recordings []*Recording
}

// NewGroup creates a Group from recordings of one session.
//
// Recordings are sorted by parsed chapter number, not by file name. Ties
// (two files with the same chapter, which only happens when the session id
// collides across media numbers) fall back to natural file name order so the
// result is deterministic. recs must not be empty.
func NewGroup(recs []*Recording) *Group {
	sorted := make([]*Recording, len(recs))
	copy(sorted, recs)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Chapter != sorted[j].Chapter {
			return sorted[i].Chapter < sorted[j].Chapter
		}
		return natsort.Compare(sorted[i].Name, sorted[j].Name)
	})

	return &Group{
		Mode:       sorted[0].Mode,
		Session:    sorted[0].Session,
		Recordings: sorted,
	}
}

// Key returns the grouping key, mode followed by session id.
func (g *Group) Key() string {
	return g.Mode + g.Session
}

// First returns the lowest-chapter recording.
func (g *Group) First() *Recording {
	return g.Recordings[0]
}

// Paths returns the recording paths in chapter order.
func (g *Group) Paths() []string {
	paths := make([]string, len(g.Recordings))
	for i, r := range g.Recordings {
		paths[i] = r.Path
	}
	return paths
}

// VideoPath returns where the concatenated video is written: the first
// chapter's file name inside outDir.
func (g *Group) VideoPath(outDir string) string {
	return filepath.Join(outDir, g.First().Name)
}

// TrackPath returns where the GPS track is written: the first chapter's
// file stem with trackExt as extension, inside outDir.
func (g *Group) TrackPath(outDir, trackExt string) string {
	return filepath.Join(outDir, g.First().Stem()+"."+trackExt)
}

// String returns a short description for progress output.
func (g *Group) String() string {
	names := make([]string, len(g.Recordings))
	for i, r := range g.Recordings {
		names[i] = r.Name
	}
	if len(names) == 1 {
		return names[0]
	}
	return names[0] + " .. " + names[len(names)-1]
}

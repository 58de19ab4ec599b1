package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/facette/natsort"
	"github.com/handiism/goprocat/internal/model"
)

// ErrNoRecordings is returned by Scan when the directory holds no file
// matching any recording mode.
var ErrNoRecordings = errors.New("no recordings found")

// Scan groups the recordings in dir by recording session.
//
// Every regular file whose name parses as a recording of one of modes with
// extension ext is assigned to the group of its (mode, session) pair. Other
// files and subdirectories are ignored.
//
// Groups are returned mode by mode in the order of modes, and within a mode
// in natural order of the session id. Chapters within a group are in
// ascending chapter order.
//
// Returns ErrNoRecordings (wrapped with dir) when nothing matched.
func Scan(dir string, modes []string, ext string) ([]*model.Group, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	byMode := make(map[string]map[string][]*model.Recording)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		rec, err := model.ParseRecording(filepath.Join(dir, entry.Name()), modes, ext)
		if err != nil {
			continue
		}
		sessions, ok := byMode[rec.Mode]
		if !ok {
			sessions = make(map[string][]*model.Recording)
			byMode[rec.Mode] = sessions
		}
		sessions[rec.Session] = append(sessions[rec.Session], rec)
	}

	var groups []*model.Group
	for _, mode := range modes {
		sessions := byMode[mode]
		if len(sessions) == 0 {
			continue
		}

		ids := make([]string, 0, len(sessions))
		for id := range sessions {
			ids = append(ids, id)
		}
		natsort.Sort(ids)

		for _, id := range ids {
			groups = append(groups, model.NewGroup(sessions[id]))
		}
	}

	if len(groups) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoRecordings)
	}

	return groups, nil
}

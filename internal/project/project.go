// Package project reads and writes portable project files: the format,
// duration and clip list of a timeline as indented JSON.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/timeline"
)

// ErrMalformedProject is returned when a project file cannot be decoded.
var ErrMalformedProject = errors.New("malformed project file")

// DefaultDuration applies to files without a duration.
const DefaultDuration = 90

// File is the on-disk project.
type File struct {
	ID       string          `json:"id,omitempty"`
	Format   timeline.Format `json:"format"`
	Duration float64         `json:"duration"`
	Clips    []*clips.Clip   `json:"clips"`
}

// FromTimeline captures tl. A project that has never been saved is given a
// fresh identifier, which is stored back on the timeline.
func FromTimeline(tl *timeline.Timeline) *File {
	id := tl.ProjectID()
	if id == "" {
		id = uuid.NewString()
		tl.SetProjectID(id)
	}
	return &File{
		ID:       id,
		Format:   tl.Format(),
		Duration: tl.Duration(),
		Clips:    tl.Clips(),
	}
}

// Encode writes f as two-space indented JSON.
func Encode(w io.Writer, f *File) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	return nil
}

// Decode reads a project and fills in defaults for missing fields.
func Decode(r io.Reader) (*File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProject, err)
	}
	if f.Format != timeline.FormatHorizontal {
		f.Format = timeline.FormatVertical
	}
	if f.Duration <= 0 {
		f.Duration = DefaultDuration
	}
	kept := f.Clips[:0]
	for _, c := range f.Clips {
		if c == nil {
			continue
		}
		if !c.Type.Valid() {
			return nil, fmt.Errorf("%w: clip %d has unknown type %q", ErrMalformedProject, c.ID, c.Type)
		}
		kept = append(kept, c)
	}
	f.Clips = kept
	return &f, nil
}

// Apply replaces the clips, duration and format of tl with the file's.
func (f *File) Apply(tl *timeline.Timeline) {
	tl.SetFormat(f.Format)
	tl.SetProjectID(f.ID)
	tl.ReplaceClips(f.Clips, f.Duration)
}

// Export writes tl to path.
func Export(tl *timeline.Timeline, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create project file: %w", err)
	}
	if err := Encode(out, FromTimeline(tl)); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Import loads path into tl. On error tl is left untouched.
func Import(tl *timeline.Timeline, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open project file: %w", err)
	}
	defer in.Close()

	f, err := Decode(in)
	if err != nil {
		return err
	}
	f.Apply(tl)
	return nil
}

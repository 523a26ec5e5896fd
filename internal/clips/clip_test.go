package clips

import (
	"encoding/json"
	"image"
	"strings"
	"testing"
)

func TestManagerAllocatesIDs(t *testing.T) {
	m := NewManager()
	a := m.Add(&Clip{Type: TypeVideo})
	b := m.Add(&Clip{Type: TypeOverlay})
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("ids = %d,%d want 1,2", a.ID, b.ID)
	}
	m.Add(&Clip{ID: 10, Type: TypeAudio})
	if got := m.NextID(); got != 11 {
		t.Errorf("NextID after explicit id = %d, want 11", got)
	}
}

func TestManagerRemove(t *testing.T) {
	m := NewManager()
	c := m.Add(&Clip{Type: TypeVideo})
	if !m.Remove(c.ID) {
		t.Fatal("Remove returned false for existing clip")
	}
	if m.Remove(c.ID) {
		t.Error("Remove returned true for missing clip")
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
}

func TestManagerReplaceRecomputesNextID(t *testing.T) {
	m := NewManager()
	m.Replace([]*Clip{{ID: 7}, {ID: 3}, {}})
	ids := []int{}
	for _, c := range m.All() {
		ids = append(ids, c.ID)
	}
	if ids[0] != 7 || ids[1] != 3 || ids[2] != 8 {
		t.Errorf("ids = %v, want [7 3 8]", ids)
	}
	if m.PeekID() != 9 {
		t.Errorf("PeekID = %d, want 9", m.PeekID())
	}
}

func TestActiveAtIsHalfOpen(t *testing.T) {
	m := NewManager()
	m.Add(&Clip{Start: 0, End: 5})
	m.Add(&Clip{Start: 5, End: 10})
	for _, tc := range []struct {
		at   float64
		want int
	}{{0, 1}, {4.999, 1}, {5, 2}, {10, 0}} {
		got := m.ActiveAt(tc.at)
		if tc.want == 0 {
			if len(got) != 0 {
				t.Errorf("ActiveAt(%v) = %d clips, want none", tc.at, len(got))
			}
			continue
		}
		if len(got) != 1 || got[0].ID != tc.want {
			t.Errorf("ActiveAt(%v) wrong clip set", tc.at)
		}
	}
}

func TestCloneCopiesWords(t *testing.T) {
	c := &Clip{CaptionProps: CaptionProps{Words: []Word{{Word: "a"}}}}
	cp := c.Clone()
	cp.Words[0].Word = "b"
	if c.Words[0].Word != "a" {
		t.Error("Clone shares word slice")
	}
}

func TestJSONStripsLiveHandles(t *testing.T) {
	c := &Clip{
		ID:    1,
		Type:  TypeVideo,
		Track: "video1",
		Start: 0,
		End:   2,
		Frame: image.NewRGBA(image.Rect(0, 0, 1, 1)),
		MediaProps: MediaProps{
			Motion: "slowZoom",
		},
	}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if strings.Contains(s, "Frame") || strings.Contains(s, "Audio") {
		t.Errorf("live handles leaked into JSON: %s", s)
	}
	if !strings.Contains(s, `"motion":"slowZoom"`) || !strings.Contains(s, `"startTime":0`) {
		t.Errorf("flattened payload missing: %s", s)
	}
}

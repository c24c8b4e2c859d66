package model

import "testing"

func TestPlaylist_AddEntryAndFind(t *testing.T) {
	p := NewPlaylist("https://www.youtube.com/playlist?list=PL1")
	if p.Status != PlaylistStatusParsing {
		t.Errorf("Expected parsing status, got %s", p.Status)
	}
	if p.IsReady() {
		t.Error("Empty playlist should not be ready")
	}

	p.AddEntry(&PlaylistEntry{ID: "abc", Title: "First", URL: "https://www.youtube.com/watch?v=abc"})
	p.AddEntry(&PlaylistEntry{ID: "def", URL: "https://www.youtube.com/watch?v=def"})
	p.UpdateStatus(PlaylistStatusReady)

	if !p.IsReady() {
		t.Error("Expected playlist to be ready")
	}

	entry, ok := p.FindEntryByLabel("First - abc")
	if !ok || entry.ID != "abc" {
		t.Errorf("Expected to find entry abc, got %v", entry)
	}

	entry, ok = p.FindEntryByLabel("def")
	if !ok || entry.ID != "def" {
		t.Errorf("Expected untitled entry to be labelled by id, got %v", entry)
	}

	if _, ok := p.FindEntryByLabel("missing"); ok {
		t.Error("Expected missing label not to match")
	}
}

package store

import (
	"testing"

	"github.com/streamkit/caption-engine/internal/transcript"
)

func newTranscription() *transcript.Transcription {
	return transcript.New([]*transcript.Word{
		transcript.NewWordFromRecognition("hello", 0, 0.5, 1, 0.9),
		transcript.NewWordFromRecognition("world.", 0.5, 1, 1, 0.9),
	})
}

func TestCreateAndGet(t *testing.T) {
	st := New()

	a := st.Create(newTranscription())
	b := st.Create(newTranscription())
	if a.ID != 1 || b.ID != 2 {
		t.Errorf("IDs = %d, %d, want 1, 2", a.ID, b.ID)
	}
	if a.Version != 1 {
		t.Errorf("new session Version = %d, want 1", a.Version)
	}
	if a.CreatedAt.IsZero() || a.UpdatedAt.IsZero() {
		t.Error("timestamps not set on create")
	}

	got, ok := st.Get(a.ID)
	if !ok || got.ID != a.ID {
		t.Fatalf("Get(%d) = %v, %v", a.ID, got, ok)
	}
	if _, ok := st.Get(99); ok {
		t.Error("Get of unknown id should report false")
	}

	if st.Len() != 2 {
		t.Errorf("Len = %d, want 2", st.Len())
	}
}

func TestUpdateBumpsVersion(t *testing.T) {
	st := New()
	sess := st.Create(newTranscription())

	ok := st.Update(sess.ID, func(s *Session) {
		s.Transcription.Words[0].Cut = true
	})
	if !ok {
		t.Fatal("Update returned false for existing session")
	}
	got, _ := st.Get(sess.ID)
	if got.Version != 2 {
		t.Errorf("Version = %d, want 2", got.Version)
	}
	if !got.Transcription.Words[0].Cut {
		t.Error("mutation did not apply")
	}

	if st.Update(99, func(*Session) {}) {
		t.Error("Update of unknown id should report false")
	}
}

func TestViewDoesNotBumpVersion(t *testing.T) {
	st := New()
	sess := st.Create(newTranscription())

	ok := st.View(sess.ID, func(s *Session) {
		s.Clips = s.Transcription.GenerateClips(transcript.ModeStatic, 1.78, 0)
		s.ClipsVersion = s.Version
	})
	if !ok {
		t.Fatal("View returned false for existing session")
	}
	got, _ := st.Get(sess.ID)
	if got.Version != 1 {
		t.Errorf("Version = %d, want unchanged 1", got.Version)
	}
}

func TestClipsCurrent(t *testing.T) {
	st := New()
	sess := st.Create(newTranscription())

	if sess.ClipsCurrent() {
		t.Error("fresh session should have no current clips")
	}

	st.View(sess.ID, func(s *Session) {
		s.Clips = s.Transcription.GenerateClips(transcript.ModeStatic, 1.78, 0)
		s.ClipsVersion = s.Version
	})
	got, _ := st.Get(sess.ID)
	if !got.ClipsCurrent() {
		t.Error("clips generated at the current version should be current")
	}

	st.Update(sess.ID, func(s *Session) {
		s.Transcription.Words[0].Cut = true
	})
	got, _ = st.Get(sess.ID)
	if got.ClipsCurrent() {
		t.Error("clips must go stale after a word edit")
	}
}

func TestDelete(t *testing.T) {
	st := New()
	sess := st.Create(newTranscription())

	if !st.Delete(sess.ID) {
		t.Fatal("Delete returned false for existing session")
	}
	if _, ok := st.Get(sess.ID); ok {
		t.Error("session still present after delete")
	}
	if st.Delete(sess.ID) {
		t.Error("second delete should report false")
	}
	if st.Len() != 0 {
		t.Errorf("Len = %d, want 0", st.Len())
	}
}

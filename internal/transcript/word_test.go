package transcript

import "testing"

// tw builds a plain spoken word with identical edit and original times.
func tw(text string, start, end float64) *Word {
	return &Word{
		Text:            text,
		StartInEdit:     start,
		EndInEdit:       end,
		StartInOriginal: start,
		EndInOriginal:   end,
	}
}

func TestNewWordFromRecognition(t *testing.T) {
	t.Run("spoken_word", func(t *testing.T) {
		w := NewWordFromRecognition("hello", 1.0, 1.5, 2, 0.93)
		if w.Text != "hello" || w.Pause {
			t.Errorf("got Text=%q Pause=%v, want spoken word", w.Text, w.Pause)
		}
		if w.StartInEdit != 1.0 || w.EndInEdit != 1.5 {
			t.Errorf("edit times = [%v, %v], want [1, 1.5]", w.StartInEdit, w.EndInEdit)
		}
		if w.StartInOriginal != 1.0 || w.EndInOriginal != 1.5 {
			t.Errorf("original times = [%v, %v], want [1, 1.5]", w.StartInOriginal, w.EndInOriginal)
		}
		if w.SpeakerTag != 2 || w.Confidence != 0.93 {
			t.Errorf("SpeakerTag=%d Confidence=%v, want 2, 0.93", w.SpeakerTag, w.Confidence)
		}
	})

	t.Run("marker_becomes_pause", func(t *testing.T) {
		w := NewWordFromRecognition("<silence>", 0, 0.5, 0, 0)
		if !w.Pause {
			t.Error("marker token should become a pause word")
		}
		if w.Text != "" {
			t.Errorf("pause word Text = %q, want empty", w.Text)
		}
	})
}

func TestSyntheticWords(t *testing.T) {
	p := NewPauseWord(1, 1.25)
	if !p.Pause || p.Cut || p.Text != "" {
		t.Errorf("NewPauseWord: Pause=%v Cut=%v Text=%q", p.Pause, p.Cut, p.Text)
	}
	c := NewCutWord(1, 2)
	if !c.Cut || c.Pause {
		t.Errorf("NewCutWord: Cut=%v Pause=%v", c.Cut, c.Pause)
	}
	l := NewLinebreakWord(1, 1)
	if !l.Linebreak || l.Cut || l.Pause {
		t.Errorf("NewLinebreakWord: Linebreak=%v Cut=%v Pause=%v", l.Linebreak, l.Cut, l.Pause)
	}
}

func TestCloneResetsEditTimes(t *testing.T) {
	w := tw("hello", 7, 8)
	w.StartInEdit = 5
	w.EndInEdit = 6

	c := w.Clone()
	if c.StartInEdit != 7 || c.EndInEdit != 8 {
		t.Errorf("clone edit times = [%v, %v], want original times [7, 8]", c.StartInEdit, c.EndInEdit)
	}
	if c.StartInOriginal != 7 || c.EndInOriginal != 8 {
		t.Errorf("clone original times = [%v, %v], want [7, 8]", c.StartInOriginal, c.EndInOriginal)
	}

	c.Text = "changed"
	if w.Text != "hello" {
		t.Error("mutating the clone leaked into the source word")
	}
}

func TestMoveFromOriginal(t *testing.T) {
	t.Run("forward", func(t *testing.T) {
		w := tw("x", 1.236, 2.341)
		w.MoveForwardFromOriginal(1.0)
		if w.StartInEdit != 0.24 || w.EndInEdit != 1.34 {
			t.Errorf("edit times = [%v, %v], want [0.24, 1.34]", w.StartInEdit, w.EndInEdit)
		}
		if w.StartInOriginal != 1.236 {
			t.Error("original times must not move")
		}
	})

	t.Run("backward", func(t *testing.T) {
		w := tw("x", 1, 2)
		w.MoveBackwardFromOriginal(0.5)
		if w.StartInEdit != 1.5 || w.EndInEdit != 2.5 {
			t.Errorf("edit times = [%v, %v], want [1.5, 2.5]", w.StartInEdit, w.EndInEdit)
		}
	})
}

func TestWordPredicates(t *testing.T) {
	tests := []struct {
		text         string
		endOfSent    bool
		punct        bool
		punctOrComma bool
	}{
		{"word", false, false, false},
		{"end.", true, true, true},
		{"what?", true, true, true},
		{"wow!", true, true, true},
		{"said:", false, true, true},
		{"yes,", false, false, true},
		{"first;", false, false, true},
		{"終わり。", true, true, true},
	}
	for _, tt := range tests {
		w := tw(tt.text, 0, 1)
		if got := w.IsEndOfSentence(); got != tt.endOfSent {
			t.Errorf("IsEndOfSentence(%q) = %v, want %v", tt.text, got, tt.endOfSent)
		}
		if got := w.HasPunctuation(); got != tt.punct {
			t.Errorf("HasPunctuation(%q) = %v, want %v", tt.text, got, tt.punct)
		}
		if got := w.HasPunctuationOrComma(); got != tt.punctOrComma {
			t.Errorf("HasPunctuationOrComma(%q) = %v, want %v", tt.text, got, tt.punctOrComma)
		}
	}
}

func TestIsReal(t *testing.T) {
	if !tw("hello", 0, 1).IsReal() {
		t.Error("spoken word should be real")
	}
	if NewPauseWord(0, 1).IsReal() {
		t.Error("pause word should not be real")
	}
	if NewCutWord(0, 1).IsReal() {
		t.Error("cut word should not be real")
	}
}

func TestIsFiller(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"um", true},
		{"Um,", true},
		{"uh", true},
		{"Hmm", true},
		{"mhm", true},
		{"hello", false},
		{"", false},
	}
	for _, tt := range tests {
		w := tw(tt.text, 0, 1)
		if got := w.IsFiller(); got != tt.want {
			t.Errorf("IsFiller(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestWordEquals(t *testing.T) {
	a := tw("hello", 0, 1)
	b := tw("hello", 0, 1)
	if !a.Equals(b) {
		t.Error("identical words should be equal")
	}
	b.Text = "other"
	if a.Equals(b) {
		t.Error("words with different text should not be equal")
	}
	if a.Equals(nil) {
		t.Error("nil comparison should be false")
	}
}

func TestDuration(t *testing.T) {
	w := tw("x", 1.5, 2.25)
	if got := w.Duration(); got != 0.75 {
		t.Errorf("Duration = %v, want 0.75", got)
	}
}

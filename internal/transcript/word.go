package transcript

import (
	"strings"

	"github.com/streamkit/caption-engine/internal/timecode"
)

// BreakHint is the per-word subtitle break instruction. A word with no
// explicit instruction falls back to the automatic segmentation rules;
// BreakAlways forces a cue boundary after the word and BreakNever suppresses
// one that the automatic rules would otherwise insert.
type BreakHint int

const (
	BreakUnspecified BreakHint = iota
	BreakAlways
	BreakNever
)

const (
	sentenceEnders    = ".?!。"
	clausePunctuation = ":"
	commaPunctuation  = ",;"
)

var fillerWords = []string{"um", "uh", "hmm", "mhm", "uh huh"}

// Word is one token of a transcript, or a synthetic pause. Every word carries
// its position on two time axes: the edit timeline (cut regions removed) and
// the original recording timeline.
type Word struct {
	Text string `json:"text"`

	StartInEdit     float64 `json:"start_in_edit"`
	EndInEdit       float64 `json:"end_in_edit"`
	StartInOriginal float64 `json:"start_in_original"`
	EndInOriginal   float64 `json:"end_in_original"`

	Cut       bool      `json:"cut"`
	Pause     bool      `json:"pause"`
	Linebreak bool      `json:"linebreak"`
	Break     BreakHint `json:"break"`

	SpeakerTag int     `json:"speaker_tag"`
	Confidence float64 `json:"confidence,omitempty"`

	MediaIndex int `json:"media_index"`
	ChunkIndex int `json:"chunk_index"`
}

// isPauseMarker reports whether an STT token is a bracketed event marker like
// "<silence>" or "<noise>".
func isPauseMarker(text string) bool {
	return len(text) >= 2 && strings.HasPrefix(text, "<") && strings.HasSuffix(text, ">")
}

// NewWordFromRecognition builds a Word from a raw STT token. Bracketed marker
// tokens become pause words with empty text. Edit and original times start out
// identical; cut-aware shifting happens later.
func NewWordFromRecognition(text string, start, end float64, speakerTag int, confidence float64) *Word {
	w := &Word{
		StartInEdit:     start,
		EndInEdit:       end,
		StartInOriginal: start,
		EndInOriginal:   end,
		SpeakerTag:      speakerTag,
		Confidence:      confidence,
	}
	if isPauseMarker(text) {
		w.Pause = true
	} else {
		w.Text = text
	}
	return w
}

// NewPauseWord returns a synthetic pause spanning [start, end] on both
// timelines.
func NewPauseWord(start, end float64) *Word {
	return &Word{
		StartInEdit:     start,
		EndInEdit:       end,
		StartInOriginal: start,
		EndInOriginal:   end,
		Pause:           true,
	}
}

// NewCutWord returns a synthetic cut word spanning [start, end] on both
// timelines.
func NewCutWord(start, end float64) *Word {
	w := NewPauseWord(start, end)
	w.Pause = false
	w.Cut = true
	return w
}

// NewLinebreakWord returns a synthetic zero-text word carrying a line break.
func NewLinebreakWord(start, end float64) *Word {
	w := NewPauseWord(start, end)
	w.Pause = false
	w.Linebreak = true
	return w
}

// Clone returns a copy of the word. The clone's edit times are deliberately
// seeded from the source's ORIGINAL times, discarding any prior shift: copies
// always re-derive the edit timeline from the original one.
func (w *Word) Clone() *Word {
	c := *w
	c.StartInEdit = w.StartInOriginal
	c.EndInEdit = w.EndInOriginal
	return &c
}

// MoveForwardFromOriginal places the word on the edit timeline at its original
// position minus offset, rounded to two decimals.
func (w *Word) MoveForwardFromOriginal(offset float64) {
	w.StartInEdit = timecode.Round2(w.StartInOriginal - offset)
	w.EndInEdit = timecode.Round2(w.EndInOriginal - offset)
}

// MoveBackwardFromOriginal places the word on the edit timeline at its
// original position plus offset, rounded to two decimals.
func (w *Word) MoveBackwardFromOriginal(offset float64) {
	w.StartInEdit = timecode.Round2(w.StartInOriginal + offset)
	w.EndInEdit = timecode.Round2(w.EndInOriginal + offset)
}

// Duration is the word's length on the edit timeline.
func (w *Word) Duration() float64 {
	return w.EndInEdit - w.StartInEdit
}

// IsReal reports whether the word contributes text to the edited output.
func (w *Word) IsReal() bool {
	return !w.Cut && !w.Pause
}

// IsEndOfSentence reports whether the word's text carries sentence-final
// punctuation.
func (w *Word) IsEndOfSentence() bool {
	return strings.ContainsAny(w.Text, sentenceEnders)
}

// HasPunctuation reports sentence-final punctuation or a colon.
func (w *Word) HasPunctuation() bool {
	return w.IsEndOfSentence() || strings.ContainsAny(w.Text, clausePunctuation)
}

// HasPunctuationOrComma reports any break-worthy punctuation including commas
// and semicolons.
func (w *Word) HasPunctuationOrComma() bool {
	return w.HasPunctuation() || strings.ContainsAny(w.Text, commaPunctuation)
}

// IsFiller reports whether the word is a hesitation sound like "um" or "uh".
func (w *Word) IsFiller() bool {
	text := strings.ToLower(w.Text)
	if text == "" {
		return false
	}
	for _, f := range fillerWords {
		if strings.Contains(text, f) {
			return true
		}
	}
	return false
}

// Equals reports field-wise equality over all persisted fields.
func (w *Word) Equals(other *Word) bool {
	if other == nil {
		return false
	}
	return *w == *other
}

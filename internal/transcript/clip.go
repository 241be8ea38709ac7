package transcript

import (
	"fmt"
	"strings"

	"github.com/streamkit/caption-engine/internal/timecode"
)

// overlapEpsilon is subtracted when a cue's start collides with the end of
// the preceding word, so adjacent cues never share a boundary exactly.
const overlapEpsilon = 0.001

// Clip is one subtitle cue: an inclusive index range over the words of the
// transcription it was generated from. The clip does not own the words;
// mutating the transcription invalidates any clips generated before the
// change, so callers must regenerate clips after every edit.
type Clip struct {
	Start      int `json:"start"`
	End        int `json:"end"`
	MediaIndex int `json:"media_index"`

	tr *Transcription
}

// NewClip builds a clip over tr's words [start, end].
func NewClip(tr *Transcription, start, end, mediaIndex int) *Clip {
	return &Clip{Start: start, End: end, MediaIndex: mediaIndex, tr: tr}
}

// Transcription returns the backing transcription.
func (c *Clip) Transcription() *Transcription {
	return c.tr
}

// StartTimeInEdit returns the edit-timeline start of the clip's first word.
func (c *Clip) StartTimeInEdit() (float64, bool) {
	return c.tr.StartTimeInEditAt(c.Start)
}

// EndTimeInEdit returns the edit-timeline end of the clip's last word.
func (c *Clip) EndTimeInEdit() (float64, bool) {
	return c.tr.EndTimeInEditAt(c.End)
}

// StartTimeInOriginal returns the original-timeline start of the clip's first
// word.
func (c *Clip) StartTimeInOriginal() (float64, bool) {
	return c.tr.StartTimeInOriginalAt(c.Start)
}

// EndTimeInOriginal returns the original-timeline end of the clip's last
// word.
func (c *Clip) EndTimeInOriginal() (float64, bool) {
	return c.tr.EndTimeInOriginalAt(c.End)
}

// Text joins the clip's real words with single spaces. Cut and pause words
// contribute nothing.
func (c *Clip) Text() string {
	var parts []string
	for i := c.Start; i <= c.End; i++ {
		w := c.tr.WordAt(i)
		if w == nil || !w.IsReal() {
			continue
		}
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}

// DynamicClips expands the clip into one sub-clip per word for word-by-word
// reveal: a non-pause word at index i becomes the cumulative window
// [c.Start, i], a pause word becomes its own singleton clip.
func (c *Clip) DynamicClips() ClipList {
	var out ClipList
	for i := c.Start; i <= c.End; i++ {
		w := c.tr.WordAt(i)
		if w != nil && w.Pause {
			out = append(out, NewClip(c.tr, i, i, c.MediaIndex))
			continue
		}
		out = append(out, NewClip(c.tr, c.Start, i, c.MediaIndex))
	}
	return out
}

// cueTimes resolves the emitted start and end for the cue at position index
// (zero based over emitted cues). Dynamic cues grow to just the latest
// revealed word, so both bounds come from the end-index word. When the start
// would land before the end of the preceding word, it is pulled back to just
// under the colliding word's own start. Cues that degenerate to zero or
// negative duration are dropped: ok is false.
func (c *Clip) cueTimes(index int, mode Mode) (start, end float64, ok bool) {
	start, sok := c.StartTimeInEdit()
	end, eok := c.EndTimeInEdit()
	if !sok || !eok {
		return 0, 0, false
	}

	previousAt := c.Start - 1
	if mode == ModeDynamic {
		w := c.tr.WordAt(c.End)
		if w == nil {
			return 0, 0, false
		}
		start = w.StartInEdit
		end = w.EndInEdit
		previousAt = c.End - 1
	}

	if index > 0 {
		if previousEnd, pok := c.tr.EndTimeInEditAt(previousAt); pok && start < previousEnd {
			diff := previousEnd - start
			start = previousEnd - diff - overlapEpsilon
		}
	}

	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// SRTCue formats the clip as one numbered SubRip cue. index is the zero-based
// position among emitted cues; the printed sequence number is index+1. ok is
// false when the cue degenerates and is dropped.
func (c *Clip) SRTCue(index int, mode Mode) (string, bool) {
	start, end, ok := c.cueTimes(index, mode)
	if !ok {
		return "", false
	}
	line := timecode.StripLinebreaks(c.Text())
	return fmt.Sprintf("%d\n%s --> %s\n%s\n\n",
		index+1, timecode.FormatSRT(start), timecode.FormatSRT(end), line), true
}

// VTTCue formats the clip as one WebVTT cue. WebVTT cues carry no sequence
// number; the index only gates the overlap correction.
func (c *Clip) VTTCue(index int, mode Mode) (string, bool) {
	start, end, ok := c.cueTimes(index, mode)
	if !ok {
		return "", false
	}
	line := timecode.StripLinebreaks(c.Text())
	return fmt.Sprintf("\n%s --> %s align:middle\n%s\n\n",
		timecode.FormatVTT(start), timecode.FormatVTT(end), line), true
}

// ClipList is an ordered collection of subtitle clips.
type ClipList []*Clip

// ClipAt returns the first clip, in insertion order, whose original-timeline
// span [start, round2(end)) contains time for the given media source, or nil.
func (l ClipList) ClipAt(time float64, mediaIndex int) *Clip {
	for _, c := range l {
		if c.MediaIndex != mediaIndex {
			continue
		}
		start, sok := c.StartTimeInOriginal()
		end, eok := c.EndTimeInOriginal()
		if !sok || !eok {
			continue
		}
		if time >= start && time < timecode.Round2(end) {
			return c
		}
	}
	return nil
}

// ConvertToDynamic flattens every clip into its word-by-word expansion,
// preserving order.
func (l ClipList) ConvertToDynamic() ClipList {
	var out ClipList
	for _, c := range l {
		out = append(out, c.DynamicClips()...)
	}
	return out
}

// SRT assembles the full SubRip document. Dropped degenerate cues are not
// numbered; emitted cues are renumbered sequentially from 1. The returned
// count reports how many cues were dropped.
func (l ClipList) SRT(mode Mode) (string, int) {
	var b strings.Builder
	emitted, dropped := 0, 0
	for _, c := range l {
		cue, ok := c.SRTCue(emitted, mode)
		if !ok {
			dropped++
			continue
		}
		b.WriteString(cue)
		emitted++
	}
	return b.String(), dropped
}

// VTT assembles the full WebVTT document including the leading header.
func (l ClipList) VTT(mode Mode) (string, int) {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	emitted, dropped := 0, 0
	for _, c := range l {
		cue, ok := c.VTTCue(emitted, mode)
		if !ok {
			dropped++
			continue
		}
		b.WriteString(cue)
		emitted++
	}
	return b.String(), dropped
}

// StartEndRange is an inclusive word-index span handed to burned-in caption
// renderers that work on indices rather than cue text.
type StartEndRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// StartEndRanges returns the index span of every cue. In dynamic mode only
// the final reveal of each subtitle group is reported: a clip qualifies when
// the following clip opens a new group (a singleton with text) or when the
// clip's last word carries an explicit break.
func (l ClipList) StartEndRanges(mode Mode) []StartEndRange {
	var out []StartEndRange
	for i, c := range l {
		if mode != ModeDynamic {
			out = append(out, StartEndRange{Start: c.Start, End: c.End})
			continue
		}
		finalReveal := false
		if i+1 < len(l) {
			next := l[i+1]
			if next.Start == next.End && next.Text() != "" {
				finalReveal = true
			}
		}
		if w := c.tr.WordAt(c.End); w != nil && w.Break == BreakAlways {
			finalReveal = true
		}
		if finalReveal {
			out = append(out, StartEndRange{Start: c.Start, End: c.End})
		}
	}
	return out
}

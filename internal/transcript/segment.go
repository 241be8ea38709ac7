package transcript

import (
	"fmt"
	"strings"
)

// Mode selects how words are grouped into subtitle cues.
type Mode int

const (
	// ModeDisabled produces no cues.
	ModeDisabled Mode = iota
	// ModeStatic emits one cue per segmented word group.
	ModeStatic
	// ModeDynamic emits one cue per revealed word, growing cumulatively
	// within each static group.
	ModeDynamic
)

// ParseMode maps the wire names used by the API and CLI to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "static":
		return ModeStatic, nil
	case "dynamic":
		return ModeDynamic, nil
	case "disabled":
		return ModeDisabled, nil
	}
	return ModeDisabled, fmt.Errorf("unknown subtitle mode %q", s)
}

func (m Mode) String() string {
	switch m {
	case ModeStatic:
		return "static"
	case ModeDynamic:
		return "dynamic"
	default:
		return "disabled"
	}
}

// MaxPauseTime is the accumulated silence, in seconds, that forces a cue
// boundary before the pause run.
const MaxPauseTime = 2.0

const (
	portraitCharsPerRow  = 20
	landscapeCharsPerRow = 70
)

// GenerateClips segments the transcript into subtitle clips with a single
// left-to-right scan. An aspect ratio at or below 1 selects the narrow
// portrait row limit and enables breaking on commas; subtitleLength, when
// nonzero and different from the ratio default, overrides the
// characters-per-row limit and disables the ratio-specific heuristics.
//
// Cues never span a media-source boundary. Cut words are skipped entirely.
// Pause runs longer than MaxPauseTime end the cue just before the run. A
// word's BreakHint overrides the automatic rules in both directions.
func (t *Transcription) GenerateClips(mode Mode, aspectRatio float64, subtitleLength int) ClipList {
	if mode == ModeDisabled || len(t.Words) == 0 {
		return nil
	}

	charsPerRow := landscapeCharsPerRow
	if aspectRatio <= 1 {
		charsPerRow = portraitCharsPerRow
	}
	isCustomLength := subtitleLength > 0 && subtitleLength != charsPerRow
	if subtitleLength > 0 {
		charsPerRow = subtitleLength
	}
	breakOnComma := aspectRatio <= 1 && !isCustomLength

	last := t.LastNonCutIndex()
	if last < 0 {
		return nil
	}

	var clips ClipList
	flush := func(start, end, mediaIndex int) {
		if start > end {
			return
		}
		clips = append(clips, NewClip(t, start, end, mediaIndex))
	}

	startIndex := 0
	characterCount := 0
	inClip := false
	inPauseSeries := false
	pauseStartIndex := 0
	pauseDuration := 0.0

	restart := func(next int) {
		startIndex = next
		characterCount = 0
		inClip = false
		inPauseSeries = false
		pauseDuration = 0
	}

	for index := 0; index <= last; index++ {
		w := t.Words[index]

		// Words from a new media source never share a cue with the
		// previous one.
		if index > 0 && w.MediaIndex != t.Words[index-1].MediaIndex {
			if inClip {
				flush(startIndex, index-1, t.Words[index-1].MediaIndex)
			}
			restart(index)
		}

		if w.Cut {
			if !inClip {
				startIndex = index + 1
			}
			continue
		}

		if w.Pause {
			if !inPauseSeries {
				inPauseSeries = true
				pauseStartIndex = index
			}
			pauseDuration += w.Duration()
		} else {
			inPauseSeries = false
			pauseDuration = 0
			characterCount += len(w.Text) + 1
			if !inClip {
				inClip = true
				startIndex = index
			}
		}

		if !inClip {
			continue
		}

		// A long enough silence ends the cue before the pause run,
		// unless breaking is explicitly suppressed or the row length is
		// customized.
		if pauseDuration > MaxPauseTime && w.Break != BreakNever && !isCustomLength {
			flush(startIndex, pauseStartIndex-1, w.MediaIndex)
			restart(index + 1)
			continue
		}

		// An explicit no-break keeps accumulating past any boundary the
		// automatic rules would pick here.
		if w.Break == BreakNever {
			characterCount = 0
			pauseDuration = 0
			continue
		}

		overflow := false
		if index+1 <= last {
			next := t.Words[index+1]
			overflow = characterCount+len(next.Text)+1 > charsPerRow
		}
		punctuation := !isCustomLength &&
			(w.IsEndOfSentence() || (breakOnComma && w.HasPunctuationOrComma()))
		if overflow || punctuation || w.Break == BreakAlways {
			flush(startIndex, index, w.MediaIndex)
			restart(index + 1)
		}
	}

	if inClip && startIndex <= last {
		flush(startIndex, last, t.Words[last].MediaIndex)
	}

	if mode == ModeDynamic {
		clips = clips.ConvertToDynamic()
	}
	return clips
}

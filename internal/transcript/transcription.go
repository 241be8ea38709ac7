// Package transcript implements the word-level transcript model: cut-aware
// timeline shifting, pause synthesis, speaker smoothing, and segmentation of
// words into subtitle cues.
package transcript

import (
	"fmt"
	"sort"
	"strings"
)

// singlePauseLength caps the duration of one synthetic pause word. Longer
// silent regions are filled with a run of pause words.
const singlePauseLength = 0.25

// speakerCollapseShare is the minority share below which a two-speaker
// transcript collapses to a single speaker.
const speakerCollapseShare = 0.05

// Transcription owns an ordered word sequence. Insertion order is
// chronological order on the edit timeline; the array index is the sole word
// identity, so every navigation and clip operation works on indices.
type Transcription struct {
	Words         []*Word `json:"words"`
	IsTranslation bool    `json:"is_translation,omitempty"`
}

// New wraps a word slice in a Transcription.
func New(words []*Word) *Transcription {
	return &Transcription{Words: words}
}

// Range selects an inclusive span of word indices.
type Range struct {
	StartWord int `json:"start_word"`
	EndWord   int `json:"end_word"`
}

// Len returns the number of words.
func (t *Transcription) Len() int {
	return len(t.Words)
}

// WordAt returns the word at index i, or nil when i is out of range.
func (t *Transcription) WordAt(i int) *Word {
	if i < 0 || i >= len(t.Words) {
		return nil
	}
	return t.Words[i]
}

// StartTimeInEditAt returns the edit-timeline start of the word at i.
func (t *Transcription) StartTimeInEditAt(i int) (float64, bool) {
	if w := t.WordAt(i); w != nil {
		return w.StartInEdit, true
	}
	return 0, false
}

// EndTimeInEditAt returns the edit-timeline end of the word at i.
func (t *Transcription) EndTimeInEditAt(i int) (float64, bool) {
	if w := t.WordAt(i); w != nil {
		return w.EndInEdit, true
	}
	return 0, false
}

// StartTimeInOriginalAt returns the original-timeline start of the word at i.
func (t *Transcription) StartTimeInOriginalAt(i int) (float64, bool) {
	if w := t.WordAt(i); w != nil {
		return w.StartInOriginal, true
	}
	return 0, false
}

// EndTimeInOriginalAt returns the original-timeline end of the word at i.
func (t *Transcription) EndTimeInOriginalAt(i int) (float64, bool) {
	if w := t.WordAt(i); w != nil {
		return w.EndInOriginal, true
	}
	return 0, false
}

// LastNonCutIndex returns the index of the last word not marked cut, or -1.
func (t *Transcription) LastNonCutIndex() int {
	for i := len(t.Words) - 1; i >= 0; i-- {
		if !t.Words[i].Cut {
			return i
		}
	}
	return -1
}

// FirstRealWordIndex returns the index of the first word that is neither cut
// nor a pause, or -1.
func (t *Transcription) FirstRealWordIndex() int {
	for i, w := range t.Words {
		if w.IsReal() {
			return i
		}
	}
	return -1
}

// EditedDuration sums the edit-timeline durations of all non-cut words.
func (t *Transcription) EditedDuration() float64 {
	total := 0.0
	for _, w := range t.Words {
		if !w.Cut {
			total += w.Duration()
		}
	}
	return total
}

// Duration returns the edit-timeline end of the last non-cut word, or 0.
func (t *Transcription) Duration() float64 {
	if i := t.LastNonCutIndex(); i >= 0 {
		return t.Words[i].EndInEdit
	}
	return 0
}

// Snapshot returns a deep copy with all time fields preserved as they are.
// Unlike Clone-based copies it does not reset the edit timeline.
func (t *Transcription) Snapshot() *Transcription {
	out := &Transcription{
		Words:         make([]*Word, len(t.Words)),
		IsTranslation: t.IsTranslation,
	}
	for i, w := range t.Words {
		c := *w
		out.Words[i] = &c
	}
	return out
}

// ShiftedCopy returns a copy whose edit timeline has every cut region
// removed. The running trim time accumulates the original-timeline duration
// of cut words; words from a later media source are re-based so they start
// right after the previous source's last edited word.
func (t *Transcription) ShiftedCopy() *Transcription {
	out := &Transcription{
		Words:         make([]*Word, len(t.Words)),
		IsTranslation: t.IsTranslation,
	}
	trimTime := 0.0
	mediaSourceOffset := 0.0
	for i, w := range t.Words {
		c := w.Clone()
		if i > 0 && c.MediaIndex != t.Words[i-1].MediaIndex {
			trimTime = 0
			mediaSourceOffset = out.Words[i-1].EndInEdit
		}
		c.MoveForwardFromOriginal(trimTime - mediaSourceOffset)
		if c.Cut {
			trimTime += c.EndInOriginal - c.StartInOriginal
		}
		out.Words[i] = c
	}
	return out
}

// GeneratePauses rebuilds the word list with synthetic pause words filling
// every silent region: before the first word unless skipBefore, between
// consecutive words of the same media source, and after the last word up to
// duration unless skipAfter. A transcription with no words is filled with
// pauses for the whole duration. Each pause word is at most 0.25s long; the
// final pause of a region takes the remainder.
func (t *Transcription) GeneratePauses(duration float64, skipBefore, skipAfter bool) {
	if len(t.Words) == 0 {
		t.Words = appendPauseRun(nil, 0, duration, 0, 0)
		return
	}

	var rebuilt []*Word
	first := t.Words[0]
	if !skipBefore && first.StartInEdit > 0 {
		rebuilt = appendPauseRun(rebuilt, 0, first.StartInEdit, first.MediaIndex, first.ChunkIndex)
	}
	for i, w := range t.Words {
		rebuilt = append(rebuilt, w)
		if i+1 < len(t.Words) {
			next := t.Words[i+1]
			if next.MediaIndex == w.MediaIndex && next.StartInEdit > w.EndInEdit {
				rebuilt = appendPauseRun(rebuilt, w.EndInEdit, next.StartInEdit, w.MediaIndex, w.ChunkIndex)
			}
		}
	}
	last := t.Words[len(t.Words)-1]
	if !skipAfter && duration > last.EndInEdit {
		rebuilt = appendPauseRun(rebuilt, last.EndInEdit, duration, last.MediaIndex, last.ChunkIndex)
	}
	t.Words = rebuilt
}

func appendPauseRun(words []*Word, from, to float64, mediaIndex, chunkIndex int) []*Word {
	for to-from > 1e-9 {
		end := from + singlePauseLength
		if end > to {
			end = to
		}
		p := NewPauseWord(from, end)
		p.MediaIndex = mediaIndex
		p.ChunkIndex = chunkIndex
		words = append(words, p)
		from = end
	}
	return words
}

// UpdateSentenceSpeakers reassigns every word of a sentence to that
// sentence's dominant speaker. Sentences end at sentence-final punctuation or
// at the end of the word list. Pause words do not vote. Ties resolve to the
// highest tag among the tied speakers, which makes repeated application
// stable.
func (t *Transcription) UpdateSentenceSpeakers() {
	start := 0
	for i, w := range t.Words {
		if w.IsEndOfSentence() || i == len(t.Words)-1 {
			t.applyDominantSpeaker(start, i)
			start = i + 1
		}
	}
}

func (t *Transcription) applyDominantSpeaker(start, end int) {
	counts := make(map[int]int)
	for i := start; i <= end; i++ {
		w := t.Words[i]
		if w.Pause {
			continue
		}
		counts[w.SpeakerTag]++
	}
	if len(counts) == 0 {
		return
	}
	tags := make([]int, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Ints(tags)
	dominant := tags[0]
	for _, tag := range tags {
		if counts[tag] >= counts[dominant] {
			dominant = tag
		}
	}
	for i := start; i <= end; i++ {
		t.Words[i].SpeakerTag = dominant
	}
}

// GenerateSpeakerInfo collapses two-speaker transcripts to a single speaker
// when one voice accounts for 95% or more of the words, then marks a line
// break on the word immediately preceding every remaining speaker change.
func (t *Transcription) GenerateSpeakerInfo() {
	counts := make(map[int]int)
	total := 0
	for _, w := range t.Words {
		if w.Pause {
			continue
		}
		counts[w.SpeakerTag]++
		total++
	}
	if len(counts) == 2 && total > 0 {
		for _, n := range counts {
			share := float64(n) / float64(total)
			if share < speakerCollapseShare || share > 1-speakerCollapseShare {
				for _, w := range t.Words {
					w.SpeakerTag = 1
				}
				break
			}
		}
	}
	for i := 1; i < len(t.Words); i++ {
		if t.Words[i].SpeakerTag != t.Words[i-1].SpeakerTag {
			t.Words[i-1].Linebreak = true
		}
	}
}

// CutRanges returns the maximal contiguous runs of cut words.
func (t *Transcription) CutRanges() []Range {
	var ranges []Range
	start := -1
	for i, w := range t.Words {
		if w.Cut {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			ranges = append(ranges, Range{StartWord: start, EndWord: i - 1})
			start = -1
		}
	}
	if start >= 0 {
		ranges = append(ranges, Range{StartWord: start, EndWord: len(t.Words) - 1})
	}
	return ranges
}

// AllPauses returns the maximal pause runs inside r whose summed duration
// exceeds pausesThreshold seconds.
func (t *Transcription) AllPauses(r Range, pausesThreshold float64) []Range {
	var out []Range
	for _, run := range t.pauseRuns(r) {
		total := 0.0
		for i := run.StartWord; i <= run.EndWord; i++ {
			total += t.Words[i].Duration()
		}
		if total > pausesThreshold {
			out = append(out, run)
		}
	}
	return out
}

// ConsecutivePauses returns the pause runs inside r spanning at least two
// words.
func (t *Transcription) ConsecutivePauses(r Range) []Range {
	var out []Range
	for _, run := range t.pauseRuns(r) {
		if run.EndWord > run.StartWord {
			out = append(out, run)
		}
	}
	return out
}

// pauseRuns scans [r.StartWord, r.EndWord] for maximal runs of pause words.
// Malformed or out-of-range bounds yield an empty result.
func (t *Transcription) pauseRuns(r Range) []Range {
	lo := max(r.StartWord, 0)
	hi := min(r.EndWord, len(t.Words)-1)
	if lo > hi {
		return nil
	}
	var runs []Range
	start := -1
	for i := lo; i <= hi; i++ {
		if t.Words[i].Pause {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, Range{StartWord: start, EndWord: i - 1})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, Range{StartWord: start, EndWord: hi})
	}
	return runs
}

// TextOptions controls the plain-text export.
type TextOptions struct {
	Speakers   bool
	Timestamps bool
}

// Text renders the transcript as plain text: real words joined by single
// spaces. With Speakers enabled, each speaker change starts a new labelled
// line; with Timestamps enabled, every sentence is prefixed with its
// edit-timeline start as [MM:SS].
func (t *Transcription) Text(opts TextOptions) string {
	var b strings.Builder
	lastSpeaker := -1
	sentenceStart := true
	needSep := false
	for _, w := range t.Words {
		if !w.IsReal() {
			continue
		}
		if opts.Speakers && w.SpeakerTag != lastSpeaker {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "Speaker %d: ", w.SpeakerTag)
			lastSpeaker = w.SpeakerTag
			sentenceStart = true
			needSep = false
		}
		if needSep {
			b.WriteByte(' ')
		}
		if opts.Timestamps && sentenceStart {
			mins := int(w.StartInEdit) / 60
			secs := int(w.StartInEdit) % 60
			fmt.Fprintf(&b, "[%02d:%02d] ", mins, secs)
		}
		b.WriteString(w.Text)
		needSep = true
		sentenceStart = w.IsEndOfSentence()
	}
	return b.String()
}

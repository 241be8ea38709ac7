package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/streamkit/caption-engine/internal/metrics"
	"github.com/streamkit/caption-engine/internal/store"
	"github.com/streamkit/caption-engine/internal/transcript"
)

// ExportDefaults are the layout parameters applied when a request doesn't
// carry its own.
type ExportDefaults struct {
	AspectRatio    float64
	SubtitleLength int
}

type TranscriptsHandler struct {
	store    *store.Store
	defaults ExportDefaults
}

func NewTranscriptsHandler(st *store.Store, defaults ExportDefaults) *TranscriptsHandler {
	return &TranscriptsHandler{store: st, defaults: defaults}
}

func (h *TranscriptsHandler) Routes(r chi.Router) {
	r.Post("/transcripts", h.CreateTranscript)
	r.Get("/transcripts/{id}", h.GetTranscript)
	r.Delete("/transcripts/{id}", h.DeleteTranscript)
	r.Patch("/transcripts/{id}/words/{index}", h.UpdateWord)
	r.Get("/transcripts/{id}/text", h.GetText)
	r.Get("/transcripts/{id}/shifted", h.GetShifted)
	r.Get("/transcripts/{id}/cuts", h.GetCuts)
	r.Get("/transcripts/{id}/pauses", h.GetPauses)
	r.Post("/transcripts/{id}/pauses", h.GeneratePauses)
	r.Post("/transcripts/{id}/speakers/smooth", h.SmoothSpeakers)
	r.Post("/transcripts/{id}/speakers/info", h.SpeakerInfo)
	r.Post("/transcripts/{id}/clips", h.GenerateClips)
	r.Get("/transcripts/{id}/clips/at", h.GetClipAtTime)
	r.Get("/transcripts/{id}/subtitles.srt", h.GetSRT)
	r.Get("/transcripts/{id}/subtitles.vtt", h.GetVTT)
	r.Get("/transcripts/{id}/ranges", h.GetRanges)
}

type createTranscriptRequest struct {
	Words         []transcript.WordRecord `json:"words"`
	IsTranslation bool                    `json:"is_translation"`
}

// CreateTranscript ingests service word records into a new editing session.
func (h *TranscriptsHandler) CreateTranscript(w http.ResponseWriter, r *http.Request) {
	var body createTranscriptRequest
	if err := DecodeJSON(r, &body); err != nil {
		WriteErrorDetail(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if len(body.Words) == 0 {
		WriteError(w, http.StatusBadRequest, "words must not be empty")
		return
	}

	tr := transcript.FromRecords(body.Words)
	tr.IsTranslation = body.IsTranslation
	sess := h.store.Create(tr)

	metrics.TranscriptsIngestedTotal.Inc()
	metrics.WordsIngestedTotal.Add(float64(len(body.Words)))

	WriteJSON(w, http.StatusCreated, map[string]any{
		"id":    sess.ID,
		"words": tr.Len(),
	})
}

// view resolves the id path parameter and runs fn on the session under the
// store lock, writing the 400/404 responses itself. Reads go through the
// lock because word edits may arrive concurrently over HTTP even though the
// transcript core itself is single threaded.
func (h *TranscriptsHandler) view(w http.ResponseWriter, r *http.Request, fn func(*store.Session)) bool {
	id, err := PathInt64(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid transcript ID")
		return false
	}
	if !h.store.View(id, fn) {
		WriteError(w, http.StatusNotFound, "transcript not found")
		return false
	}
	return true
}

// GetTranscript returns the session's word array.
func (h *TranscriptsHandler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID            int64                     `json:"id"`
		Version       uint64                    `json:"version"`
		Transcription *transcript.Transcription `json:"transcription"`
	}
	if !h.view(w, r, func(sess *store.Session) {
		payload.ID = sess.ID
		payload.Version = sess.Version
		payload.Transcription = sess.Transcription.Snapshot()
	}) {
		return
	}
	WriteJSON(w, http.StatusOK, payload)
}

// DeleteTranscript removes the session.
func (h *TranscriptsHandler) DeleteTranscript(w http.ResponseWriter, r *http.Request) {
	id, err := PathInt64(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid transcript ID")
		return
	}
	if !h.store.Delete(id) {
		WriteError(w, http.StatusNotFound, "transcript not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateWordRequest struct {
	Cut        *bool   `json:"cut,omitempty"`
	Linebreak  *bool   `json:"linebreak,omitempty"`
	Break      *string `json:"break,omitempty"` // "always", "never", "unspecified"
	SpeakerTag *int    `json:"speaker_tag,omitempty"`
	Text       *string `json:"text,omitempty"`
}

// UpdateWord edits one word's cut/break/speaker state. Editing invalidates
// previously generated clips.
func (h *TranscriptsHandler) UpdateWord(w http.ResponseWriter, r *http.Request) {
	id, err := PathInt64(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid transcript ID")
		return
	}
	index, err := PathInt(r, "index")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid word index")
		return
	}

	var body updateWordRequest
	if err := DecodeJSON(r, &body); err != nil {
		WriteErrorDetail(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var hint transcript.BreakHint
	if body.Break != nil {
		switch *body.Break {
		case "always":
			hint = transcript.BreakAlways
		case "never":
			hint = transcript.BreakNever
		case "unspecified":
			hint = transcript.BreakUnspecified
		default:
			WriteError(w, http.StatusBadRequest, "break must be always, never, or unspecified")
			return
		}
	}

	found := false
	ok := h.store.Update(id, func(sess *store.Session) {
		word := sess.Transcription.WordAt(index)
		if word == nil {
			return
		}
		found = true
		if body.Cut != nil {
			word.Cut = *body.Cut
		}
		if body.Linebreak != nil {
			word.Linebreak = *body.Linebreak
		}
		if body.Break != nil {
			word.Break = hint
		}
		if body.SpeakerTag != nil {
			word.SpeakerTag = *body.SpeakerTag
		}
		if body.Text != nil {
			word.Text = *body.Text
		}
	})
	if !ok {
		WriteError(w, http.StatusNotFound, "transcript not found")
		return
	}
	if !found {
		WriteError(w, http.StatusNotFound, "word index out of range")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetText returns the plain-text export.
func (h *TranscriptsHandler) GetText(w http.ResponseWriter, r *http.Request) {
	opts := transcript.TextOptions{}
	opts.Speakers, _ = QueryBool(r, "speakers")
	opts.Timestamps, _ = QueryBool(r, "timestamps")

	var text string
	if !h.view(w, r, func(sess *store.Session) {
		text = sess.Transcription.Text(opts)
	}) {
		return
	}
	WriteText(w, http.StatusOK, "text/plain; charset=utf-8", text)
}

// GetShifted returns a copy of the transcript with cut regions removed from
// the edit timeline.
func (h *TranscriptsHandler) GetShifted(w http.ResponseWriter, r *http.Request) {
	var shifted *transcript.Transcription
	if !h.view(w, r, func(sess *store.Session) {
		shifted = sess.Transcription.ShiftedCopy()
	}) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"transcription": shifted,
		"duration":      shifted.Duration(),
	})
}

// GetCuts returns the maximal contiguous cut-word index ranges.
func (h *TranscriptsHandler) GetCuts(w http.ResponseWriter, r *http.Request) {
	var ranges []transcript.Range
	if !h.view(w, r, func(sess *store.Session) {
		ranges = sess.Transcription.CutRanges()
	}) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"ranges": ranges,
		"total":  len(ranges),
	})
}

// GetPauses scans a word range for pause runs. With consecutive=true it
// returns runs of two or more pause words; otherwise runs whose summed
// duration exceeds the threshold.
func (h *TranscriptsHandler) GetPauses(w http.ResponseWriter, r *http.Request) {
	consecutive, _ := QueryBool(r, "consecutive")
	threshold := 0.0
	if v, ok := QueryFloat(r, "threshold"); ok {
		threshold = v
	}

	var runs []transcript.Range
	if !h.view(w, r, func(sess *store.Session) {
		rng := transcript.Range{StartWord: 0, EndWord: sess.Transcription.Len() - 1}
		if v, ok := QueryInt(r, "start"); ok {
			rng.StartWord = v
		}
		if v, ok := QueryInt(r, "end"); ok {
			rng.EndWord = v
		}
		if consecutive {
			runs = sess.Transcription.ConsecutivePauses(rng)
		} else {
			runs = sess.Transcription.AllPauses(rng, threshold)
		}
	}) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"ranges": runs,
		"total":  len(runs),
	})
}

type generatePausesRequest struct {
	Duration   float64 `json:"duration"`
	SkipBefore bool    `json:"skip_before"`
	SkipAfter  bool    `json:"skip_after"`
}

// GeneratePauses rebuilds the word list with synthetic pause words filling
// silent regions up to the given duration.
func (h *TranscriptsHandler) GeneratePauses(w http.ResponseWriter, r *http.Request) {
	id, err := PathInt64(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid transcript ID")
		return
	}
	var body generatePausesRequest
	if err := DecodeJSON(r, &body); err != nil {
		WriteErrorDetail(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if body.Duration < 0 {
		WriteError(w, http.StatusBadRequest, "duration must not be negative")
		return
	}

	var before, after int
	ok := h.store.Update(id, func(sess *store.Session) {
		before = sess.Transcription.Len()
		sess.Transcription.GeneratePauses(body.Duration, body.SkipBefore, body.SkipAfter)
		after = sess.Transcription.Len()
	})
	if !ok {
		WriteError(w, http.StatusNotFound, "transcript not found")
		return
	}

	inserted := after - before
	if inserted > 0 {
		metrics.PauseWordsGeneratedTotal.Add(float64(inserted))
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"words":           after,
		"pauses_inserted": inserted,
	})
}

// SmoothSpeakers reassigns each sentence to its dominant speaker.
func (h *TranscriptsHandler) SmoothSpeakers(w http.ResponseWriter, r *http.Request) {
	id, err := PathInt64(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid transcript ID")
		return
	}
	ok := h.store.Update(id, func(sess *store.Session) {
		sess.Transcription.UpdateSentenceSpeakers()
	})
	if !ok {
		WriteError(w, http.StatusNotFound, "transcript not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SpeakerInfo collapses overwhelmingly one-sided two-speaker transcripts and
// marks line breaks at speaker changes.
func (h *TranscriptsHandler) SpeakerInfo(w http.ResponseWriter, r *http.Request) {
	id, err := PathInt64(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid transcript ID")
		return
	}
	ok := h.store.Update(id, func(sess *store.Session) {
		sess.Transcription.GenerateSpeakerInfo()
	})
	if !ok {
		WriteError(w, http.StatusNotFound, "transcript not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// layoutParams resolves mode/aspect/length from query parameters with
// configured defaults.
func (h *TranscriptsHandler) layoutParams(r *http.Request) (transcript.Mode, float64, int, error) {
	modeName, _ := QueryString(r, "mode")
	mode, err := transcript.ParseMode(modeName)
	if err != nil {
		return mode, 0, 0, err
	}
	aspect := h.defaults.AspectRatio
	if v, ok := QueryFloat(r, "aspect"); ok {
		aspect = v
	}
	length := h.defaults.SubtitleLength
	if v, ok := QueryInt(r, "length"); ok {
		length = v
	}
	return mode, aspect, length, nil
}

type generateClipsRequest struct {
	Mode           string  `json:"mode"`
	AspectRatio    float64 `json:"aspect_ratio"`
	SubtitleLength int     `json:"subtitle_length"`
}

// GenerateClips segments the transcript and caches the clip list on the
// session for index-based lookups.
func (h *TranscriptsHandler) GenerateClips(w http.ResponseWriter, r *http.Request) {
	id, err := PathInt64(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid transcript ID")
		return
	}
	var body generateClipsRequest
	if err := DecodeJSON(r, &body); err != nil {
		WriteErrorDetail(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	mode, err := transcript.ParseMode(body.Mode)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	aspect := body.AspectRatio
	if aspect == 0 {
		aspect = h.defaults.AspectRatio
	}
	length := body.SubtitleLength
	if length == 0 {
		length = h.defaults.SubtitleLength
	}

	var ranges []transcript.StartEndRange
	var total int
	ok := h.store.View(id, func(sess *store.Session) {
		clips := sess.Transcription.GenerateClips(mode, aspect, length)
		sess.Clips = clips
		sess.ClipsVersion = sess.Version
		ranges = clips.StartEndRanges(mode)
		total = len(clips)
	})
	if !ok {
		WriteError(w, http.StatusNotFound, "transcript not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"clips":  total,
		"mode":   mode.String(),
		"ranges": ranges,
	})
}

// GetClipAtTime looks up the cached clip covering an original-timeline
// instant for a media source. Clips generated before the latest word edit are
// rejected as stale.
func (h *TranscriptsHandler) GetClipAtTime(w http.ResponseWriter, r *http.Request) {
	at, ok := QueryFloat(r, "time")
	if !ok {
		WriteError(w, http.StatusBadRequest, "time query parameter required")
		return
	}
	mediaIndex, _ := QueryInt(r, "media")

	var clip *transcript.Clip
	stale := false
	if !h.view(w, r, func(sess *store.Session) {
		if !sess.ClipsCurrent() {
			stale = true
			return
		}
		clip = sess.Clips.ClipAt(at, mediaIndex)
	}) {
		return
	}
	if stale {
		WriteError(w, http.StatusConflict, "clips are stale, regenerate them first")
		return
	}
	if clip == nil {
		WriteError(w, http.StatusNotFound, "no clip at the given time")
		return
	}
	WriteJSON(w, http.StatusOK, clip)
}

// GetSRT returns the SubRip document for the transcript.
func (h *TranscriptsHandler) GetSRT(w http.ResponseWriter, r *http.Request) {
	mode, aspect, length, err := h.layoutParams(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var doc string
	var emitted, dropped int
	if !h.view(w, r, func(sess *store.Session) {
		clips := sess.Transcription.GenerateClips(mode, aspect, length)
		doc, dropped = clips.SRT(mode)
		emitted = len(clips) - dropped
	}) {
		return
	}
	metrics.CuesEmittedTotal.WithLabelValues("srt", mode.String()).Add(float64(emitted))
	if dropped > 0 {
		metrics.CuesDroppedTotal.WithLabelValues("srt").Add(float64(dropped))
	}
	WriteText(w, http.StatusOK, "application/x-subrip; charset=utf-8", doc)
}

// GetVTT returns the WebVTT document for the transcript.
func (h *TranscriptsHandler) GetVTT(w http.ResponseWriter, r *http.Request) {
	mode, aspect, length, err := h.layoutParams(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var doc string
	var emitted, dropped int
	if !h.view(w, r, func(sess *store.Session) {
		clips := sess.Transcription.GenerateClips(mode, aspect, length)
		doc, dropped = clips.VTT(mode)
		emitted = len(clips) - dropped
	}) {
		return
	}
	metrics.CuesEmittedTotal.WithLabelValues("vtt", mode.String()).Add(float64(emitted))
	if dropped > 0 {
		metrics.CuesDroppedTotal.WithLabelValues("vtt").Add(float64(dropped))
	}
	WriteText(w, http.StatusOK, "text/vtt; charset=utf-8", doc)
}

// GetRanges returns start/end word-index pairs for burned-in caption
// rendering.
func (h *TranscriptsHandler) GetRanges(w http.ResponseWriter, r *http.Request) {
	mode, aspect, length, err := h.layoutParams(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var ranges []transcript.StartEndRange
	if !h.view(w, r, func(sess *store.Session) {
		clips := sess.Transcription.GenerateClips(mode, aspect, length)
		ranges = clips.StartEndRanges(mode)
	}) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"ranges": ranges,
		"total":  len(ranges),
	})
}

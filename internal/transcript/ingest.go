package transcript

// WordRecord is one token as delivered by the transcription service: text,
// time bounds in seconds, and optional speaker/confidence annotations.
// Bracketed marker tokens like "<silence>" are interpreted as pauses.
type WordRecord struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	SpeakerTag int     `json:"speaker_tag,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	MediaIndex int     `json:"media_index,omitempty"`
	ChunkIndex int     `json:"chunk_index,omitempty"`
}

// FromRecords builds a Transcription from service word records in order.
func FromRecords(records []WordRecord) *Transcription {
	words := make([]*Word, 0, len(records))
	for _, r := range records {
		w := NewWordFromRecognition(r.Text, r.Start, r.End, r.SpeakerTag, r.Confidence)
		w.MediaIndex = r.MediaIndex
		w.ChunkIndex = r.ChunkIndex
		words = append(words, w)
	}
	return New(words)
}

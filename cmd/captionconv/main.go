// Command captionconv converts a word-level transcript JSON file into SRT,
// WebVTT, or plain text. With -watch it keeps running and re-converts
// whenever the input file changes.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/streamkit/caption-engine/internal/transcript"
)

// debounceDelay coalesces rapid Create+Write events on the same file.
const debounceDelay = 200 * time.Millisecond

type inputFile struct {
	Words         []transcript.WordRecord `json:"words"`
	IsTranslation bool                    `json:"is_translation"`
}

func main() {
	in := flag.String("in", "", "input transcript JSON (word records)")
	out := flag.String("out", "", "output file (default stdout)")
	format := flag.String("format", "srt", "output format: srt, vtt, or text")
	modeName := flag.String("mode", "static", "subtitle mode: static, dynamic, or disabled")
	aspect := flag.Float64("aspect", 1.78, "target aspect ratio (at or below 1 selects the portrait layout)")
	length := flag.Int("length", 0, "characters per row override (0 = ratio default)")
	shift := flag.Bool("shift", true, "remove cut regions from the edit timeline before export")
	speakers := flag.Bool("speakers", false, "label speakers in text output")
	timestamps := flag.Bool("timestamps", false, "prefix sentences with timestamps in text output")
	watch := flag.Bool("watch", false, "re-convert whenever the input file changes")
	logLevel := flag.String("log-level", "info", "log level (trace..panic)")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)

	if *in == "" {
		log.Fatal().Msg("missing required -in flag")
	}
	mode, err := transcript.ParseMode(*modeName)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid subtitle mode")
	}

	convert := func() error {
		data, err := os.ReadFile(*in)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		var input inputFile
		if err := json.Unmarshal(data, &input); err != nil {
			return fmt.Errorf("parse input: %w", err)
		}

		tr := transcript.FromRecords(input.Words)
		tr.IsTranslation = input.IsTranslation
		if *shift {
			tr = tr.ShiftedCopy()
		}

		var doc string
		switch *format {
		case "srt":
			clips := tr.GenerateClips(mode, *aspect, *length)
			var dropped int
			doc, dropped = clips.SRT(mode)
			if dropped > 0 {
				log.Warn().Int("dropped", dropped).Msg("degenerate cues dropped")
			}
		case "vtt":
			clips := tr.GenerateClips(mode, *aspect, *length)
			var dropped int
			doc, dropped = clips.VTT(mode)
			if dropped > 0 {
				log.Warn().Int("dropped", dropped).Msg("degenerate cues dropped")
			}
		case "text":
			doc = tr.Text(transcript.TextOptions{Speakers: *speakers, Timestamps: *timestamps})
		default:
			return fmt.Errorf("unknown format %q", *format)
		}

		if *out == "" {
			fmt.Print(doc)
			return nil
		}
		if err := os.WriteFile(*out, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Info().Str("out", *out).Int("bytes", len(doc)).Msg("converted")
		return nil
	}

	if err := convert(); err != nil {
		log.Fatal().Err(err).Msg("conversion failed")
	}

	if !*watch {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create watcher")
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors often replace the file on
	// save, which would drop a direct file watch.
	dir := filepath.Dir(*in)
	if err := watcher.Add(dir); err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("failed to watch directory")
	}
	log.Info().Str("file", *in).Msg("watching for changes")

	target := filepath.Clean(*in)
	var mu sync.Mutex
	var timer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				if err := convert(); err != nil {
					log.Error().Err(err).Msg("conversion failed")
				}
			})
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("watcher error")
		}
	}
}

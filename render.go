package main

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"yaspg/sidplayfp/audio"
	"yaspg/sidplayfp/logger"
	"yaspg/sidplayfp/sidtune"
	"yaspg/sidplayfp/songlength"
	"yaspg/sidplayfp/wavwriter"
)

// renderSong writes one song of the tune to a WAV file. Every song has its
// own engine and emulation so songs can be rendered concurrently.
func renderSong(opt *SidPlayerSettings, db *songlength.Database, song int, wavFile string) error {
	cfg, err := opt.playerConfig()
	if err != nil {
		return err
	}

	s, err := NewSidPlayer(cfg, db)
	if err != nil {
		return err
	}
	defer s.Quit()
	s.engine.Quiet(!opt.Verbose)

	if err := s.SetRoms(opt); err != nil {
		return err
	}
	if err := s.Load(opt.TuneFile()); err != nil {
		return err
	}
	if song > 0 {
		s.currentSong = s.tune.SelectSong(song)
	}

	if err := s.engine.FastForward(opt.FastFwd); err != nil {
		return err
	}

	s.seconds = opt.Seconds
	if s.songLength() == 0 {
		s.seconds = defaultRenderSeconds
	}

	ww, err := wavwriter.New(wavFile, cfg.Frequency, cfg.Playback.Channels())
	if err != nil {
		return err
	}

	err = render(s, ww)
	if cerr := ww.Close(); err == nil {
		err = cerr
	}

	return err
}

func render(s *SidPlayer, sink audio.Sink) error {
	for {
		more, err := s.Tick(sink)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// renderAll writes every song of the tune to the directory
func renderAll(opt *SidPlayerSettings, db *songlength.Database) error {
	tune, err := sidtune.LoadFile(opt.TuneFile(), nil, false)
	if err != nil {
		return err
	}

	inf := tune.GetInfo()
	base := strings.TrimSuffix(filepath.Base(opt.TuneFile()), filepath.Ext(opt.TuneFile()))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for song := 1; song <= inf.Songs; song++ {
		wavFile := filepath.Join(opt.RenderAll, fmt.Sprintf("%s-%02d.wav", base, song))
		g.Go(func() error {
			if err := renderSong(opt, db, song, wavFile); err != nil {
				return fmt.Errorf("song %d: %w", song, err)
			}
			logger.Logf(logger.Allow, "sidplayfp", "rendered song %d to %s", song, wavFile)
			return nil
		})
	}

	return g.Wait()
}

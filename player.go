package main

import (
	"fmt"
	"os"

	"yaspg/sidplayfp/audio"
	"yaspg/sidplayfp/logger"
	"yaspg/sidplayfp/player"
	"yaspg/sidplayfp/sidtune"
	"yaspg/sidplayfp/songlength"
)

// length of a song when neither the -t flag nor the song length database
// give one. only used when rendering to a file
const defaultRenderSeconds = 180

// samples per channel generated by each call to the engine
const bufferFrames = 2048

// speed of the fast forward key when the -ff flag is not used
const keyFastForward = 800

// SidPlayer plays the songs of one tune to an audio sink.
type SidPlayer struct {
	engine *player.Player
	tune   *sidtune.Tune
	db     *songlength.Database

	currentSong int

	// play time of every song in seconds. zero means the song length
	// database is used
	seconds int

	fastForward int
	isFast      bool
	mutes       [3]bool

	// the song has been changed and the engine has been stopped
	restart bool

	buf []int16
}

func NewSidPlayer(cfg player.Config, db *songlength.Database) (*SidPlayer, error) {
	s := &SidPlayer{
		engine:      player.New(),
		db:          db,
		fastForward: keyFastForward,
	}

	if err := s.engine.SetConfig(cfg); err != nil {
		return nil, err
	}
	s.buf = make([]int16, bufferFrames*cfg.Playback.Channels())

	return s, nil
}

// SetRoms loads the ROM images named by the settings. Missing names leave
// the ROM unset.
func (s *SidPlayer) SetRoms(opt *SidPlayerSettings) error {
	read := func(name string) ([]byte, error) {
		if name == "" {
			return nil, nil
		}
		return os.ReadFile(name)
	}

	kernal, err := read(opt.Kernal)
	if err != nil {
		return err
	}
	basic, err := read(opt.Basic)
	if err != nil {
		return err
	}
	chargen, err := read(opt.Chargen)
	if err != nil {
		return err
	}

	return s.engine.SetRoms(kernal, basic, chargen)
}

func (s *SidPlayer) Load(fileName string) error {
	tune, err := sidtune.LoadFile(fileName, nil, false)
	if err != nil {
		return err
	}

	s.tune = tune
	s.currentSong = tune.SelectSong(0)

	return s.engine.Load(tune)
}

// song length in milliseconds or zero if it is not known
func (s *SidPlayer) songLength() int64 {
	if s.seconds > 0 {
		return int64(s.seconds) * 1000
	}
	if s.db != nil {
		if ms := s.db.LengthMs(s.tune); ms > 0 {
			return int64(ms)
		}
	}
	return 0
}

func (s *SidPlayer) playTune(num int) {
	songs := s.tune.GetInfo().Songs
	if num < 1 {
		num = songs
	} else if num > songs {
		num = 1
	}
	s.currentSong = s.tune.SelectSong(num)

	// a playing engine restarts the tune with the selected song after it is
	// stopped. otherwise the tune is loaded again
	if s.engine.IsPlaying() {
		s.engine.Stop()
		s.restart = true
	} else if err := s.engine.Load(s.tune); err != nil {
		logger.Log(logger.Allow, "sidplayfp", err.Error())
	}

	logger.Logf(logger.Allow, "sidplayfp", "playing song %d of %d", s.currentSong, songs)
}

func (s *SidPlayer) nextTune() {
	s.playTune(s.currentSong + 1)
}

func (s *SidPlayer) prevTune() {
	s.playTune(s.currentSong - 1)
}

func (s *SidPlayer) toggleFastForward() error {
	s.isFast = !s.isFast
	if s.isFast {
		return s.engine.FastForward(s.fastForward)
	}
	return s.engine.FastForward(player.MinFastForward)
}

func (s *SidPlayer) toggleMute(voice int) error {
	s.mutes[voice] = !s.mutes[voice]
	return s.engine.Mute(0, voice, s.mutes[voice])
}

// Tick generates one buffer of audio and writes it to the sink. Returns
// false when the song has finished.
func (s *SidPlayer) Tick(sink audio.Sink) (bool, error) {
	n := s.engine.Play(s.buf)
	if n > 0 {
		if err := sink.Write(s.buf[:n]); err != nil {
			return false, err
		}
	}

	if n < len(s.buf) {
		// the engine returns early once after a song change
		if s.restart {
			s.restart = false
			return true, nil
		}
		if err := s.engine.Error(); err != "" {
			return false, fmt.Errorf("%s", err)
		}
		return false, nil
	}

	if length := s.songLength(); length > 0 && int64(s.engine.TimeMs()) >= length {
		return false, nil
	}

	return true, nil
}

func (s *SidPlayer) Quit() {
	s.engine.Close()
}

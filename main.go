package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"yaspg/sidplayfp/audio"
	"yaspg/sidplayfp/logger"
	"yaspg/sidplayfp/songlength"
)

func main() {
	opt := NewSidPlayerSettings()

	err := opt.ParseArgs(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(opt); err != nil {
		fmt.Fprintln(os.Stderr, newStyles().err.Render("error"), err)
		os.Exit(1)
	}
}

func run(opt *SidPlayerSettings) error {
	if opt.Verbose {
		logger.SetEcho(os.Stderr)
	}

	var db *songlength.Database
	if opt.Database != "" {
		db = songlength.New()
		if err := db.Open(opt.Database); err != nil {
			return err
		}
		defer db.Close()
	}

	if opt.RenderAll != "" {
		if err := os.MkdirAll(opt.RenderAll, 0o755); err != nil {
			return err
		}
		return renderAll(opt, db)
	}

	if opt.WavFile != "" {
		return renderSong(opt, db, opt.Subtune, opt.WavFile)
	}

	cfg, err := opt.playerConfig()
	if err != nil {
		return err
	}

	player, err := NewSidPlayer(cfg, db)
	if err != nil {
		return err
	}
	defer player.Quit()
	player.engine.Quiet(!opt.Verbose)
	player.seconds = opt.Seconds

	if err := player.SetRoms(opt); err != nil {
		return err
	}
	if err := player.Load(opt.TuneFile()); err != nil {
		return err
	}
	if opt.Subtune > 0 {
		player.currentSong = player.tune.SelectSong(opt.Subtune)
	}
	if opt.FastFwd != 100 {
		player.fastForward = opt.FastFwd
		if err := player.toggleFastForward(); err != nil {
			return err
		}
	}

	st := newStyles()
	fmt.Println(st.infoPanel(player.tune.GetInfo(), player.engine.Info(), player.songLength()))
	if opt.InfoOnly {
		return nil
	}

	if opt.Debug != "" {
		f, err := os.Create(opt.Debug)
		if err != nil {
			return err
		}
		defer f.Close()
		player.engine.Debug(true, f)
	}

	sink, err := audio.NewDriver(opt.Driver, cfg.Frequency, cfg.Playback.Channels())
	if err != nil {
		return err
	}
	defer sink.Close()

	return play(player, sink, st)
}

// play until the last song has finished or the user quits
func play(player *SidPlayer, sink audio.Sink, st styles) error {
	kb := newKeyboard()
	defer kb.restore()

	if kb != nil {
		fmt.Print(st.status.Render(" q quit  n/p next/previous song  f fast forward  1-3 mute ") + "\r\n")
	}

	for {
		if k, ok := kb.key(); ok {
			switch k {
			case 'q', 0x03:
				return nil
			case 'n':
				player.nextTune()
			case 'p':
				player.prevTune()
			case 'f':
				if err := player.toggleFastForward(); err != nil {
					return err
				}
			case '1', '2', '3':
				if err := player.toggleMute(int(k - '1')); err != nil {
					return err
				}
			}
		}

		more, err := player.Tick(sink)
		if err != nil {
			return err
		}

		if !more {
			if player.currentSong >= player.tune.GetInfo().Songs {
				return nil
			}
			player.nextTune()
		}
	}
}

package main

import (
	"encoding/binary"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"

	"yaspg/sidplayfp/builder"
	"yaspg/sidplayfp/player"
	"yaspg/sidplayfp/test"
)

func TestParseArgs(t *testing.T) {
	opt := NewSidPlayerSettings()
	err := opt.ParseArgs([]string{"-o", "2", "-s", "-m", "8580", "-c", "ntsc", "-e", "resid", "tune.sid"})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, opt.Subtune, 2)
	test.ExpectEquality(t, opt.TuneFile(), "tune.sid")

	cfg, err := opt.playerConfig()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg.Playback, player.Stereo)
	test.ExpectEquality(t, cfg.DefaultSidModel, builder.MOS8580)
	test.ExpectEquality(t, cfg.ForceSidModel, true)
	test.ExpectEquality(t, cfg.DefaultC64Model, player.NTSC)
	test.ExpectEquality(t, cfg.Builder.Name(), builder.NewReSID().Name())
}

func TestParseArgsErrors(t *testing.T) {
	opt := NewSidPlayerSettings()
	test.ExpectFailure(t, opt.ParseArgs([]string{}))

	opt = NewSidPlayerSettings()
	test.ExpectSuccess(t, opt.ParseArgs([]string{"-h"}) == flag.ErrHelp)

	for _, args := range [][]string{
		{"-e", "hardsid", "tune.sid"},
		{"-m", "6582", "tune.sid"},
		{"-c", "secam", "tune.sid"},
		{"-method", "linear", "tune.sid"},
	} {
		opt = NewSidPlayerSettings()
		test.DemandSuccess(t, opt.ParseArgs(args))
		_, err := opt.playerConfig()
		test.ExpectFailure(t, err, args[1])
	}
}

func writeTune(t *testing.T) string {
	t.Helper()

	b := make([]byte, 0x7c)
	copy(b, "PSID")
	binary.BigEndian.PutUint16(b[0x04:], 2)
	binary.BigEndian.PutUint16(b[0x06:], 0x7c)
	binary.BigEndian.PutUint16(b[0x08:], 0x1000)
	binary.BigEndian.PutUint16(b[0x0a:], 0x1000)
	binary.BigEndian.PutUint16(b[0x0c:], 0x1003)
	binary.BigEndian.PutUint16(b[0x0e:], 2)
	binary.BigEndian.PutUint16(b[0x10:], 1)

	// init: LDA #$0F; RTS. play: STA $D418; RTS
	b = append(b, 0xa9, 0x0f, 0x60, 0x8d, 0x18, 0xd4, 0x60)

	path := filepath.Join(t.TempDir(), "tune.sid")
	test.DemandSuccess(t, os.WriteFile(path, b, 0o644))
	return path
}

func wavSamples(t *testing.T, path string) int {
	t.Helper()

	f, err := os.Open(path)
	test.DemandSuccess(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	test.DemandSuccess(t, err)
	return len(buf.Data)
}

func TestRenderSong(t *testing.T) {
	opt := NewSidPlayerSettings()
	out := filepath.Join(t.TempDir(), "out.wav")
	test.DemandSuccess(t, opt.ParseArgs([]string{"-e", "null", "-f", "8000", "-t", "1", "-w", out, writeTune(t)}))

	test.DemandSuccess(t, run(opt))

	n := wavSamples(t, out)
	test.ExpectSuccess(t, n >= 8000)
	test.ExpectSuccess(t, n < 8000+bufferFrames)
}

func TestRenderAll(t *testing.T) {
	opt := NewSidPlayerSettings()
	dir := filepath.Join(t.TempDir(), "songs")
	test.DemandSuccess(t, opt.ParseArgs([]string{"-e", "null", "-f", "8000", "-s", "-t", "1", "-render-all", dir, writeTune(t)}))

	test.DemandSuccess(t, run(opt))

	for _, name := range []string{"tune-01.wav", "tune-02.wav"} {
		n := wavSamples(t, filepath.Join(dir, name))
		test.ExpectSuccess(t, n >= 16000, name)
	}
}

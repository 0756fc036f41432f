package main

import (
	"flag"
	"fmt"
	"strings"

	"yaspg/sidplayfp/builder"
	"yaspg/sidplayfp/player"
)

type SidPlayerSettings struct {
	Subtune    int
	Usage      bool
	Engine     string
	Samplefreq int
	Stereo     bool
	SidModel   string
	C64Model   string
	Seconds    int
	WavFile    string
	RenderAll  string
	Database   string
	Kernal     string
	Basic      string
	Chargen    string
	FastFwd    int
	Driver     string
	Verbose    bool
	Debug      string
	InfoOnly   bool
	Curve6581  float64
	Curve8580  float64
	Bias       float64
	NoFilter   bool
	Strict     bool
	Method     string

	args []string
}

func NewSidPlayerSettings() *SidPlayerSettings {
	opt := &SidPlayerSettings{}
	return opt
}

func (opt *SidPlayerSettings) ParseArgs(args []string) error {
	flags := flag.NewFlagSet("sidplayfp", flag.ContinueOnError)

	flags.IntVar(&opt.Subtune, "o", 0, "Song to play (0 = start song of the tune)")
	flags.BoolVar(&opt.Usage, "h", false, "Display usage information")
	flags.StringVar(&opt.Engine, "e", "residfp", "Emulation: resid, residfp or null")
	flags.IntVar(&opt.Samplefreq, "f", 44100, "Sampling frequency")
	flags.BoolVar(&opt.Stereo, "s", false, "Stereo output")
	flags.StringVar(&opt.SidModel, "m", "", "Force SID model: 6581 or 8580")
	flags.StringVar(&opt.C64Model, "c", "", "Force C64 model: pal, ntsc, oldntsc or drean")
	flags.IntVar(&opt.Seconds, "t", 0, "Play time in seconds (0 = song length database or forever)")
	flags.StringVar(&opt.WavFile, "w", "", "Write output to WAV file")
	flags.StringVar(&opt.RenderAll, "render-all", "", "Render every song of the tune to WAV files in the directory")
	flags.StringVar(&opt.Database, "db", "", "Song length database (Songlengths.md5)")
	flags.StringVar(&opt.Kernal, "kernal", "", "KERNAL ROM image")
	flags.StringVar(&opt.Basic, "basic", "", "BASIC ROM image")
	flags.StringVar(&opt.Chargen, "chargen", "", "Character generator ROM image")
	flags.IntVar(&opt.FastFwd, "ff", 100, "Fast forward percentage (100 to 3200)")
	flags.StringVar(&opt.Driver, "driver", "sdl", "Audio driver: sdl or oto")
	flags.BoolVar(&opt.Verbose, "v", false, "Echo the log to stderr")
	flags.StringVar(&opt.Debug, "d", "", "Write a CPU and SID trace to the file")
	flags.BoolVar(&opt.InfoOnly, "i", false, "Show tune information and exit")
	flags.Float64Var(&opt.Curve6581, "fp6581", 0.5, "6581 filter curve for residfp (0.0 to 1.0)")
	flags.Float64Var(&opt.Curve8580, "fp8580", 0.5, "8580 filter curve for residfp (0.0 to 1.0)")
	flags.Float64Var(&opt.Bias, "bias", 0.0, "6581 filter bias in volts for resid (-0.5 to 0.5)")
	flags.BoolVar(&opt.NoFilter, "nofilter", false, "Disable the SID filter")
	flags.BoolVar(&opt.Strict, "strict", false, "Treat undocumented opcodes and stuck init routines as faults")
	flags.StringVar(&opt.Method, "method", "interpolate", "Sampling method: interpolate or resample")

	flags.Usage = func() {
		fmt.Fprintln(flags.Output(), "Usage: sidplayfp [options] <sidfile>")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return err
	}
	if opt.Usage {
		flags.Usage()
		return flag.ErrHelp
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return fmt.Errorf("one tune file is required")
	}
	opt.args = flags.Args()

	return nil
}

// the tune file named on the command line
func (opt *SidPlayerSettings) TuneFile() string {
	return opt.args[0]
}

// newBuilder creates the emulation named by the -e flag
func (opt *SidPlayerSettings) newBuilder() (builder.Builder, error) {
	var b builder.Builder

	switch strings.ToLower(opt.Engine) {
	case "resid":
		b = builder.NewReSID()
	case "residfp":
		b = builder.NewReSIDfp()
	case "null":
		b = builder.NewNull()
	default:
		return nil, fmt.Errorf("unknown emulation %q", opt.Engine)
	}

	if t, ok := b.(builder.FilterCurveTuner); ok {
		t.Filter6581Curve(opt.Curve6581)
		t.Filter8580Curve(opt.Curve8580)
	}
	if t, ok := b.(builder.BiasTuner); ok {
		t.Bias(opt.Bias)
	}
	b.Filter(!opt.NoFilter)

	return b, nil
}

// playerConfig translates the flags into an engine configuration
func (opt *SidPlayerSettings) playerConfig() (player.Config, error) {
	cfg := player.DefaultConfig()

	b, err := opt.newBuilder()
	if err != nil {
		return cfg, err
	}
	cfg.Builder = b
	cfg.Frequency = opt.Samplefreq
	cfg.Strict = opt.Strict

	if opt.Stereo {
		cfg.Playback = player.Stereo
	}

	switch opt.SidModel {
	case "":
	case "6581":
		cfg.DefaultSidModel = builder.MOS6581
		cfg.ForceSidModel = true
	case "8580":
		cfg.DefaultSidModel = builder.MOS8580
		cfg.ForceSidModel = true
	default:
		return cfg, fmt.Errorf("unknown SID model %q", opt.SidModel)
	}

	switch strings.ToLower(opt.C64Model) {
	case "":
	case "pal":
		cfg.DefaultC64Model = player.PAL
		cfg.ForceC64Model = true
	case "ntsc":
		cfg.DefaultC64Model = player.NTSC
		cfg.ForceC64Model = true
	case "oldntsc":
		cfg.DefaultC64Model = player.OldNTSC
		cfg.ForceC64Model = true
	case "drean":
		cfg.DefaultC64Model = player.Drean
		cfg.ForceC64Model = true
	default:
		return cfg, fmt.Errorf("unknown C64 model %q", opt.C64Model)
	}

	switch strings.ToLower(opt.Method) {
	case "interpolate":
		cfg.SamplingMethod = builder.Interpolate
	case "resample":
		cfg.SamplingMethod = builder.ResampleInterpolate
	default:
		return cfg, fmt.Errorf("unknown sampling method %q", opt.Method)
	}

	return cfg, nil
}

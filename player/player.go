package player

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"

	"yaspg/sidplayfp/builder"
	"yaspg/sidplayfp/curated"
	"yaspg/sidplayfp/logger"
	"yaspg/sidplayfp/sidtune"
)

// Error patterns for the player package.
const (
	ConfigError    = "config error: %v"
	LoadError      = "load error: %v"
	RangeError     = "range error: %v"
	EmulationFault = "emulation fault: %v"
)

// State of the Player.
type State int32

// List of valid State values.
const (
	Idle State = iota
	Loaded
	Playing
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Playing:
		return "playing"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Fast forward limits, in percent of normal speed.
const (
	MinFastForward = 100
	MaxFastForward = 3200
)

// the chips used by a tune and the machine they run in
type layout struct {
	c64    C64Model
	bases  []uint16
	models []builder.ChipModel
}

// Player is the playback engine.
type Player struct {
	cfg  Config
	tune *sidtune.Tune
	lay  layout

	m   *machine
	drv driver
	mix mixer

	state atomic.Int32
	stop  atomic.Bool

	// the tune is initialised by the next call to Play()
	needsInit bool

	// the tune has ended or the emulation has faulted
	ended bool

	// chip samples per output sample
	ff int

	mutes   [builder.MaxSids][3]bool
	filters [builder.MaxSids]bool

	kernal  []byte
	basic   []byte
	chargen []byte

	startCycle   uint64
	powerOnDelay int
	speedString  string

	undocumented [256]bool

	quiet bool
	err   string
}

// New returns a Player with the default configuration. A Builder must be set
// with SetConfig() before a tune can be loaded.
func New() *Player {
	p := &Player{
		cfg: DefaultConfig(),
		m:   newMachine(),
		ff:  1,
	}
	for i := range p.filters {
		p.filters[i] = true
	}
	p.mix.setup(p.cfg)
	return p
}

// AllowLogging implements the logger.Permission interface.
func (p *Player) AllowLogging() bool {
	return !p.quiet
}

// Quiet stops the player from making log entries.
func (p *Player) Quiet(quiet bool) {
	p.quiet = quiet
}

// Error returns the message of the most recent failure.
func (p *Player) Error() string {
	return p.err
}

func (p *Player) fail(err error) error {
	p.err = err.Error()
	return err
}

// State returns the current state of the player.
func (p *Player) State() State {
	return State(p.state.Load())
}

// IsPlaying returns true while the player is producing samples. It is safe to
// call at any time.
func (p *Player) IsPlaying() bool {
	return p.State() == Playing
}

// Config returns the configuration in effect.
func (p *Player) Config() Config {
	return p.cfg
}

// SetConfig checks and applies a configuration. If a tune is loaded then the
// chips are locked from the new builder and the tune will be restarted. On
// failure the previous configuration remains in effect.
func (p *Player) SetConfig(cfg Config) error {
	if err := cfg.validate(); err != nil {
		return p.fail(err)
	}

	if p.tune != nil {
		lay := p.layout(cfg, p.tune.GetInfo())

		devs, err := p.lock(cfg, lay)
		if err != nil {
			return p.fail(curated.Errorf(ConfigError, err))
		}

		p.attach(devs, lay)
		p.needsInit = true
		p.ended = false
		if p.State() == Playing {
			p.state.Store(int32(Loaded))
		}
	}

	p.cfg = cfg
	p.mix.setup(cfg)
	p.err = ""

	return nil
}

// the chips and the machine used for the tune with the configuration
func (p *Player) layout(cfg Config, inf sidtune.Info) layout {
	lay := layout{c64: cfg.DefaultC64Model}

	if !cfg.ForceC64Model {
		switch inf.Clock {
		case sidtune.ClockPAL:
			if lay.c64 != Drean {
				lay.c64 = PAL
			}
		case sidtune.ClockNTSC:
			if lay.c64 != OldNTSC {
				lay.c64 = NTSC
			}
		}
	}

	lay.bases = []uint16{0xd400}

	second := inf.SidChipBaseOf(1)
	if second == 0 {
		second = cfg.SecondSidAddress
	}
	if second != 0 {
		lay.bases = append(lay.bases, second)

		third := inf.SidChipBaseOf(2)
		if third == 0 {
			third = cfg.ThirdSidAddress
		}
		if third != 0 && third != second {
			lay.bases = append(lay.bases, third)
		}
	}

	for i := range lay.bases {
		model := cfg.DefaultSidModel
		if !cfg.ForceSidModel {
			switch inf.SidModelOf(i) {
			case sidtune.Model6581:
				model = builder.MOS6581
			case sidtune.Model8580:
				model = builder.MOS8580
			}
		}
		lay.models = append(lay.models, model)
	}

	return lay
}

// lock and prepare a device for every chip in the layout. The devices of the
// current tune are reused if the builder is unchanged. Devices no longer needed
// are unlocked only once every new device is ready, so on failure the current
// devices are untouched
func (p *Player) lock(cfg Config, lay layout) ([]builder.Device, error) {
	b := cfg.Builder

	var reuse []builder.Device
	if len(p.m.sids) > 0 && b == p.cfg.Builder {
		reuse = p.m.sids[:min(len(p.m.sids), len(lay.models))]
	}

	fresh := len(lay.models) - len(reuse)
	if want := b.UsedDevices() + fresh; b.AvailDevices() < want {
		b.Create(min(want, builder.MaxSids))
	}
	if b.AvailDevices()-b.UsedDevices() < fresh {
		return nil, curated.Errorf(builder.DeviceError, "no available SIDs to lock")
	}

	clock := lay.c64.timing().clock
	resample := len(reuse) > 0 && (clock != p.lay.c64.timing().clock ||
		cfg.Frequency != p.cfg.Frequency ||
		cfg.SamplingMethod != p.cfg.SamplingMethod ||
		cfg.FastSampling != p.cfg.FastSampling)

	var devs, locked []builder.Device

	undo := func() {
		for _, d := range locked {
			b.Unlock(d)
		}
		for i, d := range reuse {
			d.Model(p.lay.models[i])
			if resample {
				_ = d.Sampling(p.lay.c64.timing().clock, float64(p.cfg.Frequency), p.cfg.SamplingMethod, p.cfg.FastSampling)
			}
		}
	}

	for i, model := range lay.models {
		var d builder.Device

		if i < len(reuse) {
			d = reuse[i]
			if model != p.lay.models[i] {
				d.Model(model)
			}
			if !resample {
				devs = append(devs, d)
				continue
			}
		} else {
			var err error
			d, err = b.Lock(model)
			if err != nil {
				undo()
				return nil, err
			}
			locked = append(locked, d)
		}

		err := d.Sampling(clock, float64(cfg.Frequency), cfg.SamplingMethod, cfg.FastSampling)
		if err != nil {
			undo()
			return nil, err
		}
		devs = append(devs, d)
	}

	for _, d := range p.m.sids[len(reuse):] {
		p.cfg.Builder.Unlock(d)
	}

	return devs, nil
}

// attach locked devices to the machine
func (p *Player) attach(devs []builder.Device, lay layout) {
	p.lay = lay
	p.m.sids = devs
	p.m.bases = lay.bases

	for i, d := range devs {
		d.Filter(p.filters[i])
		for v, mute := range p.mutes[i] {
			d.Voice(v, mute)
		}
	}
}

// unlock the devices of the current tune
func (p *Player) release() {
	for _, d := range p.m.sids {
		p.cfg.Builder.Unlock(d)
	}
	p.m.sids = nil
	p.m.bases = nil
}

// Load prepares the player for a tune. The tune is borrowed and must not be
// changed while it is loaded, other than by selecting a song. The song is
// selected at the time the tune is initialised by Play(). A nil tune unloads
// the current tune.
func (p *Player) Load(tune *sidtune.Tune) error {
	if tune == nil {
		p.unload()
		return nil
	}

	inf := tune.GetInfo()
	if inf.Songs == 0 {
		return p.fail(curated.Errorf(LoadError, "tune is not loaded"))
	}

	if err := p.cfg.validate(); err != nil {
		return p.fail(curated.Errorf(LoadError, err))
	}

	if inf.Compatibility == sidtune.CompatibilityBASIC && (p.kernal == nil || p.basic == nil) {
		return p.fail(curated.Errorf(LoadError, "BASIC tunes need the KERNAL and BASIC ROMs"))
	}

	lay := p.layout(p.cfg, inf)

	devs, err := p.lock(p.cfg, lay)
	if err != nil {
		return p.fail(curated.Errorf(LoadError, err))
	}

	p.tune = tune
	p.attach(devs, lay)

	p.m.reset(lay.c64.timing())
	_ = tune.PlaceInMemory(p.m.mem.ram[:])

	p.powerOnDelay = p.cfg.PowerOnDelay
	if p.powerOnDelay == DefaultPowerOnDelay {
		fp := tune.Fingerprint()
		p.powerOnDelay = int(binary.LittleEndian.Uint16(fp[:]) & MaxPowerOnDelay)
	}

	p.needsInit = true
	p.ended = false
	p.stop.Store(false)
	p.startCycle = p.m.cycles
	p.speedString = ""
	p.err = ""
	p.state.Store(int32(Loaded))

	logger.Logf(p, "player", "loaded %s with %d SID(s) on a %s C64", inf.FormatString, len(lay.bases), lay.c64)

	return nil
}

func (p *Player) unload() {
	p.release()
	p.tune = nil
	p.needsInit = false
	p.ended = false
	p.startCycle = p.m.cycles
	p.state.Store(int32(Idle))
}

// Close releases the chips used by the player.
func (p *Player) Close() {
	p.unload()
}

// initialise the machine and start the init routine of the current song
func (p *Player) initialise() {
	inf := p.tune.GetInfo()
	t := p.lay.c64.timing()

	p.m.reset(t)
	p.environment(t)
	_ = p.tune.PlaceInMemory(p.m.mem.ram[:])

	p.m.advance(p.powerOnDelay)
	p.m.discard()

	p.startCycle = p.m.cycles
	p.undocumented = [256]bool{}
	p.speedString = ""

	p.drv = driver{
		interruptMode: inf.PlayAddr == 0 ||
			inf.Compatibility == sidtune.CompatibilityR64 ||
			inf.Compatibility == sidtune.CompatibilityBASIC,
		speed:        inf.SongSpeed,
		play:         inf.PlayAddr,
		stages:       p.initStages(inf),
		initialising: true,
	}
	p.nextStage()

	p.needsInit = false
	p.ended = false
	p.err = ""

	logger.Logf(p, "player", "song %d of %d. init $%04x play $%04x", inf.CurrentSong, inf.Songs, inf.InitAddr, inf.PlayAddr)
}

// end playback because the tune has ended or because of an emulation fault
func (p *Player) end(err error) {
	p.ended = true
	p.drv.kind = noRoutine
	if err != nil {
		p.err = err.Error()
		logger.Log(p, "player", p.err)
	}
	p.state.Store(int32(Stopped))
}

// Play fills the buffer with interleaved samples and returns the number of
// samples written. Fewer samples than the length of the buffer are written
// if the tune ends, if the emulation faults or if Stop() is called.
func (p *Player) Play(buf []int16) int {
	if p.State() == Idle {
		p.err = curated.Errorf(LoadError, "no tune loaded").Error()
		return 0
	}

	if p.stop.Swap(false) {
		p.halt()
		return 0
	}

	if p.ended {
		return 0
	}

	if p.needsInit {
		p.initialise()
	}
	p.state.Store(int32(Playing))

	channels := p.cfg.Playback.Channels()
	frames := len(buf) / channels
	need := frames * p.ff

	stopped := p.run(need)

	frames = min(p.m.available(), need) / p.ff
	p.mix.mix(buf, p.m.sids, frames, p.ff)

	if stopped {
		p.halt()
	} else if p.ended {
		p.state.Store(int32(Stopped))
	}

	return frames * channels
}

// run the machine until every chip has produced the number of samples.
// returns true if Stop() was called
func (p *Player) run(need int) bool {
	for p.m.available() < need {
		if p.stop.Load() {
			p.stop.Store(false)
			return true
		}
		if p.ended {
			p.m.flush()
			return false
		}

		p.step()

		if p.m.pending >= flushCycles {
			p.m.flush()
		}
	}
	return false
}

// the tune is restarted by the next call to Play()
func (p *Player) halt() {
	p.needsInit = true
	p.ended = false
	p.drv.kind = noRoutine
	p.state.Store(int32(Stopped))
}

// Stop playback. Play() returns at the next instruction boundary and the
// tune is restarted by the next call to Play(). Stop has no effect unless the
// tune is playing. It is safe to call Stop() from any goroutine.
func (p *Player) Stop() {
	if p.State() != Playing {
		return
	}
	p.stop.Store(true)
}

// FastForward changes the playback speed. The percentage must be between
// MinFastForward and MaxFastForward.
func (p *Player) FastForward(percent int) error {
	if percent < MinFastForward || percent > MaxFastForward {
		return p.fail(curated.Errorf(RangeError, fmt.Sprintf("fast forward of %d%% is not supported", percent)))
	}
	p.ff = percent / 100
	return nil
}

// Mute or unmute a voice of a chip. The voice continues to run while it is
// muted.
func (p *Player) Mute(sid int, voice int, enable bool) error {
	if sid < 0 || sid >= builder.MaxSids || voice < 0 || voice >= 3 {
		return p.fail(curated.Errorf(RangeError, fmt.Sprintf("no voice %d on SID %d", voice, sid)))
	}
	p.mutes[sid][voice] = enable
	if sid < len(p.m.sids) {
		p.m.sids[sid].Voice(voice, enable)
	}
	return nil
}

// Filter enables or disables the filter of a chip.
func (p *Player) Filter(sid int, enable bool) error {
	if sid < 0 || sid >= builder.MaxSids {
		return p.fail(curated.Errorf(RangeError, fmt.Sprintf("no SID %d", sid)))
	}
	p.filters[sid] = enable
	if sid < len(p.m.sids) {
		p.m.sids[sid].Filter(enable)
	}
	return nil
}

// Time returns the number of seconds of emulated time since the tune was
// initialised.
func (p *Player) Time() uint32 {
	return uint32(p.TimeMs() / 1000)
}

// TimeMs returns the number of milliseconds of emulated time since the tune
// was initialised.
func (p *Player) TimeMs() uint64 {
	if p.needsInit || p.State() == Idle {
		return 0
	}
	return uint64(float64(p.m.cycles-p.startCycle) * 1000 / p.m.timing.clock)
}

// Cycles returns the number of CPU cycles since the tune was initialised.
func (p *Player) Cycles() uint64 {
	if p.needsInit || p.State() == Idle {
		return 0
	}
	return p.m.cycles - p.startCycle
}

// Cia1TimerA returns the value programmed into timer A of CIA 1.
func (p *Player) Cia1TimerA() uint16 {
	return p.m.cia1.timerA.latch
}

// Chips returns the number of chips used by the loaded tune.
func (p *Player) Chips() int {
	return len(p.m.sids)
}

// SetRoms sets the ROMs of the machine. The slices are borrowed. A nil
// KERNAL is replaced by a minimal KERNAL that supports interrupts. A nil
// BASIC or character ROM leaves RAM visible in its place. A ROM of the wrong
// size is rejected and treated as nil.
func (p *Player) SetRoms(kernal, basic, chargen []byte) error {
	var err error

	check := func(rom []byte, size int, name string) []byte {
		if rom != nil && len(rom) != size {
			if err == nil {
				err = curated.Errorf(ConfigError, fmt.Sprintf("%s ROM must be %d bytes", name, size))
			}
			return nil
		}
		return rom
	}

	p.kernal = check(kernal, 0x2000, "KERNAL")
	p.basic = check(basic, 0x2000, "BASIC")
	p.chargen = check(chargen, 0x1000, "character")

	p.m.mem.kernal = p.kernal
	if p.kernal == nil {
		p.m.mem.kernal = kernalReplacement[:]
	}
	p.m.mem.basic = p.basic
	p.m.mem.chargen = p.chargen

	if err != nil {
		return p.fail(err)
	}
	return nil
}

// Debug enables a trace of every instruction and every write to a SID
// register.
func (p *Player) Debug(enable bool, w io.Writer) {
	if enable && w != nil {
		p.m.trace = w
	} else {
		p.m.trace = nil
	}
}

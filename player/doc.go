// Package player is the playback engine. It emulates enough of a C64 to run
// the code of a tune and sends the writes to the SID registers to chips
// supplied by a builder.Builder.
//
// A Player is configured with SetConfig() and given a tune with Load(). The
// tune is initialised on the first call to Play(), which fills a buffer of
// interleaved 16-bit samples:
//
//	p := player.New()
//	cfg := player.DefaultConfig()
//	cfg.Builder = builder.NewReSIDfp()
//	if err := p.SetConfig(cfg); err != nil {
//		return err
//	}
//	if err := p.Load(tune); err != nil {
//		return err
//	}
//	buf := make([]int16, 4096)
//	for p.Play(buf) == len(buf) {
//		...
//	}
//
// Tunes in the PSID format have their play routine called once per frame by
// the engine. Tunes that need a real C64 environment (RSID, and PSID tunes
// without a play address) are driven by the interrupts of the emulated
// machine.
//
// Play() stops early when the tune ends, when Stop() is called or when the
// emulation faults. The Error() function says which. After an early return
// Play() returns zero until the tune is restarted by Stop() or Load().
//
// A Player must only be used by one goroutine at a time, with the exception
// of Stop() and IsPlaying(), which can be called at any time.
package player

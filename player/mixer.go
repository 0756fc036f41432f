package player

import "yaspg/sidplayfp/builder"

// mixer combines the output of the chips into the output buffer
type mixer struct {
	channels int
	left     int32
	right    int32
}

func (mx *mixer) setup(cfg Config) {
	mx.channels = cfg.Playback.Channels()
	mx.left = int32(cfg.LeftVolume)
	mx.right = int32(cfg.RightVolume)
}

func clip(v int32) int16 {
	return int16(max(-32768, min(32767, v)))
}

// mix frames into the buffer. each output sample is the average of factor
// samples from a chip. the samples are consumed
func (mx *mixer) mix(buf []int16, sids []builder.Device, frames int, factor int) {
	n := len(sids)
	if n == 0 || frames == 0 {
		return
	}

	var s [builder.MaxSids]int32

	for f := range frames {
		for c, d := range sids {
			samples := d.Samples()[f*factor : (f+1)*factor]
			var sum int32
			for _, v := range samples {
				sum += int32(v)
			}
			s[c] = sum / int32(factor)
		}

		if mx.channels == 1 {
			var sum int32
			for c := range n {
				sum += s[c]
			}
			buf[f] = clip(sum / int32(n) * mx.left / MaxVolume)
			continue
		}

		var l, r int32
		switch n {
		case 1:
			l, r = s[0], s[0]
		case 2:
			l, r = s[0], s[1]
		default:
			l = (2*s[0] + s[1]) / 3
			r = (2*s[2] + s[1]) / 3
		}
		buf[f*2] = clip(l * mx.left / MaxVolume)
		buf[f*2+1] = clip(r * mx.right / MaxVolume)
	}

	for _, d := range sids {
		d.Consume(frames * factor)
	}
}

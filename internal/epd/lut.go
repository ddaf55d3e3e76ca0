package epd

// Waveform is a full set of voltage-transition tables for the panel.
// Each field is keyed by the register it is loaded into.
type Waveform struct {
	Name string
	VCOM []byte // 0x20
	WW   []byte // 0x21
	BW   []byte // 0x22
	WB   []byte // 0x23
	BB   []byte // 0x24
}

func (w Waveform) entries() []struct {
	reg  byte
	data []byte
} {
	return []struct {
		reg  byte
		data []byte
	}{
		{cmdLUTVCOM, w.VCOM},
		{cmdLUTWW, w.WW},
		{cmdLUTBW, w.BW},
		{cmdLUTWB, w.WB},
		{cmdLUTBB, w.BB},
	}
}

// FastWaveform is the single-phase table used for interactive partial
// refreshes. It trades ghosting for latency.
var FastWaveform = Waveform{
	Name: "fast",
	VCOM: []byte{
		0x00, 0x0E, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
	WW: []byte{
		0xA0, 0x0E, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
	BW: []byte{
		0xA0, 0x0E, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
	WB: []byte{
		0x50, 0x0E, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
	BB: []byte{
		0x50, 0x0E, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
}

// SlowWaveform is the three-phase table used for full refreshes.
// It clears accumulated partial-refresh artifacts.
var SlowWaveform = Waveform{
	Name: "slow",
	VCOM: []byte{
		0x00, 0x08, 0x08, 0x00, 0x00, 0x02,
		0x00, 0x0F, 0x0F, 0x00, 0x00, 0x01,
		0x00, 0x08, 0x08, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00,
	},
	WW: []byte{
		0x50, 0x08, 0x08, 0x00, 0x00, 0x02,
		0x90, 0x0F, 0x0F, 0x00, 0x00, 0x01,
		0xA0, 0x08, 0x08, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
	BW: []byte{
		0x50, 0x08, 0x08, 0x00, 0x00, 0x02,
		0x90, 0x0F, 0x0F, 0x00, 0x00, 0x01,
		0xA0, 0x08, 0x08, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
	// The vendor listing labels the next two tables bb and wb; these are
	// the bytes it actually loads into 0x23 and 0x24.
	WB: []byte{
		0x20, 0x08, 0x08, 0x00, 0x00, 0x02,
		0x90, 0x0F, 0x0F, 0x00, 0x00, 0x01,
		0x10, 0x08, 0x08, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
	BB: []byte{
		0xA0, 0x08, 0x08, 0x00, 0x00, 0x02,
		0x90, 0x0F, 0x0F, 0x00, 0x00, 0x01,
		0x50, 0x08, 0x08, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
}

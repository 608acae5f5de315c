package models

// Preset is the immutable attribute bundle behind one vibe key.
type Preset struct {
	Label      string  `json:"label"`
	Color      string  `json:"color"` // hex, e.g. "#00E5FF"
	Intensity  float64 `json:"intensity"`
	Curtains   string  `json:"curtains"` // open | half | closed
	ACTempC    int     `json:"ac_temp"`
	Soundtrack string  `json:"soundtrack,omitempty"` // file under the soundtracks dir
}

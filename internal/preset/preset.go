// Package preset holds the fixed vibe table. Presets never change at runtime;
// everything else in the system validates mood keys against this set.
package preset

import "vibenest/internal/models"

// DefaultVibe is the vibe the room starts in and returns to on reset.
const DefaultVibe = "focus"

var table = map[string]models.Preset{
	"focus": {
		Label:      "Deep Work",
		Color:      "#00E5FF",
		Intensity:  1.5,
		Curtains:   "open",
		ACTempC:    21,
		Soundtrack: "focus.mp3",
	},
	"chill": {
		Label:      "Relaxing",
		Color:      "#FFCC80",
		Intensity:  0.4,
		Curtains:   "half",
		ACTempC:    23,
		Soundtrack: "chill.mp3",
	},
	"chaos": {
		Label:      "High Energy",
		Color:      "#FF0055",
		Intensity:  2.5,
		Curtains:   "closed",
		ACTempC:    18,
		Soundtrack: "chaos.mp3",
	},
	"forest": {
		Label:      "Nature/Zen",
		Color:      "#2ECC71",
		Intensity:  0.6,
		Curtains:   "open",
		ACTempC:    22,
		Soundtrack: "forest.mp3",
	},
	"midnight": {
		Label:      "Sleepy",
		Color:      "#1A237E",
		Intensity:  0.2,
		Curtains:   "closed",
		ACTempC:    20,
		Soundtrack: "midnight.mp3",
	},
}

// emotionToVibe maps classifier emotion labels onto vibe keys.
// Labels already present in the preset table pass through Resolve unchanged.
var emotionToVibe = map[string]string{
	"neutral": "focus",
	"happy":   "chill",
	"angry":   "chaos",
	"calm":    "forest",
	"sad":     "midnight",
}

// Lookup returns the preset for a vibe key.
func Lookup(name string) (models.Preset, bool) {
	p, ok := table[name]
	return p, ok
}

// Valid reports whether name is a known vibe key.
func Valid(name string) bool {
	_, ok := table[name]
	return ok
}

// Resolve maps a classifier label to a vibe key. Unrecognized labels fall
// back to DefaultVibe; the quick path never errors on an odd label.
func Resolve(label string) string {
	if Valid(label) {
		return label
	}
	if v, ok := emotionToVibe[label]; ok {
		return v
	}
	return DefaultVibe
}

// Keys returns all vibe keys. Order is unspecified.
func Keys() []string {
	out := make([]string, 0, len(table))
	for k := range table {
		out = append(out, k)
	}
	return out
}

package defs

import "time"

// Anim is a speech packet posted by a recognizer.
type Anim struct {
	Ts int `json:"ts"` // milliseconds since start

	Phones []*Viseme `json:"phones,omitempty"` // phones like derived from vosk
	Level  float64   `json:"level,omitempty"`  // loudness, 0..1
}

type Viseme struct {
	Time     int    `json:"time"` // ms
	Type     string `json:"type"`
	Value    string `json:"value"`
	Duration int    `json:"duration"` // ms
}

// Expression is a named override session.
type Expression struct {
	Name    string             `yaml:"name"`
	Weights map[string]float64 `yaml:"weights"`

	Duration    time.Duration `yaml:"duration"` // 0 holds until stopped
	SkipLipSync bool          `yaml:"skip_lip_sync"`
	ResetOnEnd  bool          `yaml:"reset_on_end"`
}

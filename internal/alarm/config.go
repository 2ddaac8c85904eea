// Package alarm sounds the wake-up alarm through the system audio device.
package alarm

import "time"

// Audio parameters of the playback context. Custom WAV files must use
// the same format.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Defaults for the synthesized beep pattern.
const (
	DefaultFrequency = 880.0
	DefaultBeeps     = 3
	DefaultBeepLen   = 250 * time.Millisecond
	DefaultGap       = 150 * time.Millisecond
	DefaultVolume    = 0.6
)

package alarm

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/hammamikhairi/powernap/internal/domain"
	"github.com/hammamikhairi/powernap/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*Alarm)(nil)

// Option configures the alarm.
type Option func(*Alarm)

// WithPattern sets the beep pitch, count, and timing.
func WithPattern(freq float64, beeps int, beepLen, gap time.Duration) Option {
	return func(a *Alarm) {
		a.freq = freq
		a.beeps = beeps
		a.beepLen = beepLen
		a.gap = gap
	}
}

// WithVolume sets the amplitude in [0, 1].
func WithVolume(v float64) Option {
	return func(a *Alarm) {
		a.volume = math.Max(0, math.Min(1, v))
	}
}

// WithSoundFile plays a WAV file instead of the synthesized beeps.
func WithSoundFile(path string) Option {
	return func(a *Alarm) {
		a.soundFile = path
	}
}

// sink plays PCM. *Player satisfies it.
type sink interface {
	Play(pcm []byte) error
}

// Alarm is a Notifier that sounds a beep pattern when the nap is over.
type Alarm struct {
	out       sink
	log       *logger.Logger
	freq      float64
	beeps     int
	beepLen   time.Duration
	gap       time.Duration
	volume    float64
	soundFile string
	cache     *soundCache
}

// New creates an alarm that plays through player.
func New(player *Player, log *logger.Logger, opts ...Option) *Alarm {
	return newAlarm(player, log, opts...)
}

func newAlarm(out sink, log *logger.Logger, opts ...Option) *Alarm {
	a := &Alarm{
		out:     out,
		log:     log,
		freq:    DefaultFrequency,
		beeps:   DefaultBeeps,
		beepLen: DefaultBeepLen,
		gap:     DefaultGap,
		volume:  DefaultVolume,
		cache:   newSoundCache(log),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Notify plays the alarm. Blocks until playback finishes.
func (a *Alarm) Notify(ctx context.Context, title, body string) error {
	pcm, err := a.sound()
	if err != nil {
		return err
	}
	a.log.Debug("sounding alarm for %q (%d bytes)", title, len(pcm))
	if err := a.out.Play(pcm); err != nil {
		return fmt.Errorf("playing alarm: %w", err)
	}
	return nil
}

func (a *Alarm) sound() ([]byte, error) {
	if a.soundFile == "" {
		desc := fmt.Sprintf("beeps:%g:%d:%s:%s:%g", a.freq, a.beeps, a.beepLen, a.gap, a.volume)
		return a.cache.get(desc, func() ([]byte, error) {
			return Beeps(a.freq, a.beeps, a.beepLen, a.gap, a.volume), nil
		})
	}

	info, err := os.Stat(a.soundFile)
	if err != nil {
		return nil, fmt.Errorf("reading alarm sound: %w", err)
	}
	desc := fmt.Sprintf("file:%s:%d:%d", a.soundFile, info.Size(), info.ModTime().UnixNano())
	return a.cache.get(desc, func() ([]byte, error) {
		wav, err := os.ReadFile(a.soundFile)
		if err != nil {
			return nil, fmt.Errorf("reading alarm sound: %w", err)
		}
		pcm, err := ExtractPCM(wav)
		if err != nil {
			return nil, fmt.Errorf("alarm sound %s: %w", a.soundFile, err)
		}
		return pcm, nil
	})
}

// Beeps renders count sine beeps separated by silence as mono 16-bit
// little-endian PCM at SampleRate. Each beep fades in and out over 5ms
// to avoid clicks.
func Beeps(freq float64, count int, beepLen, gap time.Duration, volume float64) []byte {
	beepSamples := samplesFor(beepLen)
	gapSamples := samplesFor(gap)
	fade := samplesFor(5 * time.Millisecond)

	total := count*beepSamples + max(count-1, 0)*gapSamples
	out := make([]byte, 0, total*2)
	for b := 0; b < count; b++ {
		if b > 0 {
			out = append(out, make([]byte, gapSamples*2)...)
		}
		for i := 0; i < beepSamples; i++ {
			env := 1.0
			if i < fade {
				env = float64(i) / float64(fade)
			} else if beepSamples-i < fade {
				env = float64(beepSamples-i) / float64(fade)
			}
			v := volume * env * math.Sin(2*math.Pi*freq*float64(i)/SampleRate)
			out = binary.LittleEndian.AppendUint16(out, uint16(int16(v*math.MaxInt16)))
		}
	}
	return out
}

func samplesFor(d time.Duration) int {
	return int(d.Seconds() * SampleRate)
}

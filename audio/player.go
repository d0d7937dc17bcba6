package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Player plays cues without blocking the caller
type Player interface {
	Play(c Cue)
}

// Silent is the Player used when audio is disabled
type Silent struct{}

func (Silent) Play(Cue) {}

// cueCache stores cues rendered once per player
type cueCache struct {
	mu     sync.Mutex
	format beep.Format
	volume float64
	store  map[Cue]*beep.Buffer
}

func newCueCache(rate beep.SampleRate, volume float64) *cueCache {
	return &cueCache{
		format: beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2},
		volume: volume,
		store:  make(map[Cue]*beep.Buffer),
	}
}

// get returns the cached buffer, rendering it on first use. Nil for unknown cues
func (c *cueCache) get(cue Cue) *beep.Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if buf, ok := c.store[cue]; ok {
		return buf
	}
	s := Synthesize(cue, c.format.SampleRate, c.volume)
	if s == nil {
		return nil
	}
	buf := beep.NewBuffer(c.format)
	buf.Append(s)
	c.store[cue] = buf
	return buf
}

// Speaker plays cues on the system audio device through a shared mixer
type Speaker struct {
	cache *cueCache
	mixer *beep.Mixer
}

// NewSpeaker initializes the audio device and starts the mixer
func NewSpeaker(sampleRate int, volume float64) (*Speaker, error) {
	rate := beep.SampleRate(sampleRate)
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("speaker init at %d Hz: %w", sampleRate, err)
	}
	s := &Speaker{
		cache: newCueCache(rate, volume),
		mixer: &beep.Mixer{},
	}
	speaker.Play(s.mixer)

	// Render the most frequent cue ahead of the first frame
	s.cache.get(CueTick)
	return s, nil
}

// Play queues cue on the mixer
func (s *Speaker) Play(c Cue) {
	buf := s.cache.get(c)
	if buf == nil {
		slog.Warn("unknown audio cue", "cue", int(c))
		return
	}
	speaker.Lock()
	s.mixer.Add(buf.Streamer(0, buf.Len()))
	speaker.Unlock()
}

// Close stops every playing cue
func (s *Speaker) Close() {
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
}

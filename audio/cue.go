package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// Cue is a short sound bound to a runtime event
type Cue int

const (
	CueTick   Cue = iota // pacemaker interval tick
	CueRing              // one-shot pacemaker end
	CueSwitch            // context switch
	CueError             // rejected command
)

var cueNames = [...]string{"tick", "ring", "switch", "error"}

func (c Cue) String() string {
	if c >= 0 && int(c) < len(cueNames) {
		return cueNames[c]
	}
	return "unknown"
}

// Cue durations
const (
	tickDuration   = 60 * time.Millisecond
	ringDuration   = 400 * time.Millisecond
	switchNote     = 80 * time.Millisecond
	errorDuration  = 150 * time.Millisecond
	defaultAttack  = 5 * time.Millisecond
	defaultRelease = 30 * time.Millisecond
)

// Duration returns how long cue plays
func (c Cue) Duration() time.Duration {
	switch c {
	case CueTick:
		return tickDuration
	case CueRing:
		return ringDuration
	case CueSwitch:
		return 2 * switchNote
	case CueError:
		return errorDuration
	}
	return 0
}

// Synthesize builds the streamer for cue at rate, scaled by volume
// Returns nil for an unknown cue
func Synthesize(c Cue, rate beep.SampleRate, volume float64) beep.Streamer {
	var s beep.Streamer
	switch c {
	case CueTick:
		s = tone(1320, tickDuration, WaveSine, defaultAttack, defaultRelease, rate)
	case CueRing:
		// A5 with its octave
		s = beep.Mix(
			newVolume(tone(880, ringDuration, WaveSine, defaultAttack, 300*time.Millisecond, rate), 0.7),
			newVolume(tone(1760, ringDuration, WaveSine, defaultAttack, 150*time.Millisecond, rate), 0.3),
		)
	case CueSwitch:
		// B5 then E6
		s = beep.Seq(
			tone(987.77, switchNote, WaveSquare, defaultAttack, 20*time.Millisecond, rate),
			tone(1318.51, switchNote, WaveSquare, defaultAttack, 40*time.Millisecond, rate),
		)
	case CueError:
		s = tone(100, errorDuration, WaveSaw, defaultAttack, 50*time.Millisecond, rate)
	default:
		return nil
	}
	return newVolume(s, volume)
}

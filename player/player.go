package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/lixenwraith/gifterm/frame"
	"github.com/lixenwraith/gifterm/render"
)

// DefaultDelay is the fixed pause after each drawn frame
const DefaultDelay = 75 * time.Millisecond

// ErrInterlaced reports an interlaced frame while interlaced playback is disallowed
var ErrInterlaced = errors.New("interlaced frames are not supported")

// Options tune playback
type Options struct {
	// Delay is the pause after every frame; zero selects DefaultDelay
	Delay time.Duration

	// AllowInterlaced draws interlaced frames instead of failing
	// Safe only when the source has already de-interlaced the pixel rows
	AllowInterlaced bool
}

// Stats counts renderer calls made during Run
type Stats struct {
	FramesDrawn  int
	AreasCleared int
}

// lastFrame is the disposal bookkeeping kept for the previously drawn frame
type lastFrame struct {
	bounds   frame.Rect
	disposal frame.Disposal
	index    int
}

// Player drives a Source into a Renderer, one frame at a time
type Player struct {
	source   frame.Source
	renderer render.Renderer
	opts     Options

	// sleep blocks for d or until ctx is done
	sleep func(ctx context.Context, d time.Duration) error

	last  *lastFrame
	stats Stats
}

// New creates a player; the caller keeps ownership of source and renderer
func New(source frame.Source, renderer render.Renderer, opts Options) *Player {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	return &Player{
		source:   source,
		renderer: renderer,
		opts:     opts,
		sleep:    sleepContext,
	}
}

// Stats returns counters accumulated by Run
func (p *Player) Stats() Stats {
	return p.stats
}

// Run plays the source to exhaustion
// Returns nil at end of sequence; any source, renderer or interlace error is returned
// unchanged and ends playback, as does ctx cancellation during the inter-frame sleep
func (p *Player) Run(ctx context.Context) error {
	state := StateAwaitNextFrame
	var current frame.Frame
	warnedPrev := false

	for state != StateDone {
		switch state {
		case StateAwaitNextFrame:
			f, err := p.source.Next()
			if err == io.EOF {
				state = StateDone
				continue
			}
			if err != nil {
				return p.abort(state, err)
			}
			current = f
			log.Printf("frame %d: %dx%d at (%d,%d) disposal=%s delay=%v interlaced=%t",
				f.Index, f.Width, f.Height, f.Left, f.Top, f.Disposal, f.Delay, f.Interlaced)
			state = StateHandleDisposal

		case StateHandleDisposal:
			if p.last != nil {
				switch p.last.disposal {
				case frame.DisposalBackground:
					if p.last.bounds.Empty() {
						break
					}
					if err := p.renderer.ClearArea(p.last.bounds); err != nil {
						return p.abort(state, err)
					}
					p.stats.AreasCleared++
				case frame.DisposalPrevious:
					// Known gap: restoring the pre-frame canvas needs a saved snapshot, none is kept
					if !warnedPrev {
						log.Printf("frame %d requests restore-to-previous; not implemented, left in place", p.last.index)
						warnedPrev = true
					}
				case frame.DisposalNone, frame.DisposalKeep:
					// Leave in place
				}
			}
			state = StateDraw

		case StateDraw:
			if current.Interlaced && !p.opts.AllowInterlaced {
				return p.abort(state, fmt.Errorf("frame %d: %w", current.Index, ErrInterlaced))
			}
			if err := p.renderer.DrawFrame(&current); err != nil {
				return p.abort(state, err)
			}
			p.stats.FramesDrawn++
			p.last = &lastFrame{
				bounds:   current.Bounds(),
				disposal: current.Disposal,
				index:    current.Index,
			}
			state = StateSleep

		case StateSleep:
			if err := p.sleep(ctx, p.opts.Delay); err != nil {
				return p.abort(state, err)
			}
			state = StateAwaitNextFrame
		}
	}

	log.Printf("playback done: %d frames drawn, %d areas cleared", p.stats.FramesDrawn, p.stats.AreasCleared)
	return nil
}

// abort logs where playback stopped and passes err through unchanged
func (p *Player) abort(state State, err error) error {
	log.Printf("playback stopped in %s after %d frames: %v", state, p.stats.FramesDrawn, err)
	return err
}

// sleepContext waits for d unless ctx ends first
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Package session implements the practice-session scheduler: a
// difficulty-weighted visiting order over a deck's images and the state
// machine that walks it under user control while tracking per-image time.
package session

import (
	"bytes"
	"errors"
	"image"
	"math/rand/v2"

	_ "image/jpeg"
	_ "image/png"

	"github.com/hyunsol/croquis/internal/logging"
	"github.com/hyunsol/croquis/internal/store"
)

// ErrNoValidImages means no image survived validation at session start;
// the session must not be constructed.
var ErrNoValidImages = errors.New("no valid images")

type State int

const (
	StateLoading State = iota
	StateDisplaying
	StateCapturing
	StatePaused
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateDisplaying:
		return "displaying"
	case StateCapturing:
		return "capturing"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

type Config struct {
	// DurationSeconds is the per-image countdown; ignored in study mode.
	DurationSeconds int
	// StudyMode counts up with no limit; the user finishes each drawing
	// manually.
	StudyMode bool
	// Seed fixes the shuffle order for tests. Nil reseeds from entropy,
	// so orders are not replayable across runs.
	Seed *uint64
	// Logger for skipped images; nil discards.
	Logger logging.Logger
}

// Result is handed back when a capture is accepted, for the caller to
// persist as a history pair.
type Result struct {
	Original []byte
	Drawing  []byte
	Seconds  int
	Filename string
	Metadata store.ImageMetadata
}

// Session walks a shuffled image order. All methods are meant for a single
// goroutine; the caller drives Tick once per active wall-clock second.
type Session struct {
	cfg   Config
	order []store.Image
	idx   int
	state State

	remaining int // countdown, non-study mode
	elapsed   int // count-up, study mode
}

// New validates and shuffles the given images (already tag-filtered by the
// caller) and enters Displaying on the first one. Images whose bytes do
// not parse as an image are logged and skipped; an empty result fails with
// ErrNoValidImages.
func New(images []store.Image, cfg Config) (*Session, error) {
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	// The countdown needs at least one second; a non-positive duration
	// would otherwise never reach the capture step.
	if !cfg.StudyMode && cfg.DurationSeconds < 1 {
		cfg.DurationSeconds = 1
	}

	valid := make([]store.Image, 0, len(images))
	for _, img := range images {
		if _, _, err := image.DecodeConfig(bytes.NewReader(img.Data)); err != nil {
			log.Warn("skipping undecodable image", "filename", img.Filename, "err", err)
			continue
		}
		valid = append(valid, img)
	}
	if len(valid) == 0 {
		return nil, ErrNoValidImages
	}

	var rng *rand.Rand
	if cfg.Seed != nil {
		rng = rand.New(rand.NewPCG(*cfg.Seed, 0))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	s := &Session{
		cfg:   cfg,
		order: WeightedShuffle(valid, rng),
		state: StateLoading,
	}
	s.resetTimer()
	s.state = StateDisplaying
	return s, nil
}

func (s *Session) resetTimer() {
	if s.cfg.StudyMode {
		s.elapsed = 0
	} else {
		s.remaining = s.cfg.DurationSeconds
	}
}

// Tick advances the clock by one second. It only counts while Displaying,
// so pausing neither loses nor double-counts a second. In non-study mode
// reaching zero enters Capturing.
func (s *Session) Tick() {
	if s.state != StateDisplaying {
		return
	}
	if s.cfg.StudyMode {
		s.elapsed++
		return
	}
	if s.remaining > 0 {
		s.remaining--
		if s.remaining == 0 {
			s.state = StateCapturing
		}
	}
}

// Advance is the user's "next". In study mode it finishes the current
// drawing (enters Capturing) instead of navigating, because study
// sessions are open-ended per image. Otherwise it skips to the next image
// without capturing, wrapping from the last image to the first.
func (s *Session) Advance() {
	switch s.state {
	case StateDisplaying, StatePaused:
	default:
		return
	}
	if s.cfg.StudyMode {
		s.state = StateCapturing
		return
	}
	s.next()
}

// Previous is the user's "back". In study mode it is reinterpreted as
// "finish current drawing" (enters Capturing); otherwise it steps back
// one image without wrapping below the first.
func (s *Session) Previous() {
	switch s.state {
	case StateDisplaying, StatePaused:
	default:
		return
	}
	if s.cfg.StudyMode {
		s.state = StateCapturing
		return
	}
	if s.idx > 0 {
		s.idx--
		s.resetTimer()
		s.state = StateDisplaying
	}
}

// TogglePause suspends or resumes the tick. Unpausing after the countdown
// already hit zero advances to the next image.
func (s *Session) TogglePause() {
	switch s.state {
	case StateDisplaying:
		s.state = StatePaused
	case StatePaused:
		s.state = StateDisplaying
		if !s.cfg.StudyMode && s.remaining == 0 {
			s.next()
		}
	}
}

// AcceptCapture completes the current image with the given drawing bytes
// and advances to the next image with the timer reset. ok is false outside
// Capturing.
func (s *Session) AcceptCapture(drawing []byte) (Result, bool) {
	if s.state != StateCapturing {
		return Result{}, false
	}

	img := s.order[s.idx]
	seconds := s.cfg.DurationSeconds
	if s.cfg.StudyMode {
		seconds = s.elapsed
	}
	res := Result{
		Original: img.Data,
		Drawing:  drawing,
		Seconds:  seconds,
		Filename: img.Filename,
		Metadata: store.ImageMetadata{
			Filename: img.Filename,
			Path:     img.OriginalPath,
			Width:    img.Width,
			Height:   img.Height,
			Size:     img.Size,
		},
	}

	s.next()
	return res, true
}

// DeclineCapture discards the capture attempt and stays in Capturing so
// the user can recapture.
func (s *Session) DeclineCapture() {
	// Remaining in StateCapturing is the whole behavior.
}

// Stop ends the session. Completed is terminal.
func (s *Session) Stop() {
	s.state = StateCompleted
}

func (s *Session) next() {
	s.idx = (s.idx + 1) % len(s.order)
	s.resetTimer()
	s.state = StateDisplaying
}

func (s *Session) State() State { return s.state }

// Current returns the image being displayed (or captured).
func (s *Session) Current() store.Image { return s.order[s.idx] }

// Order returns a copy of the visiting order, for inspection.
func (s *Session) Order() []store.Image {
	return append([]store.Image(nil), s.order...)
}

func (s *Session) Index() int { return s.idx }
func (s *Session) Len() int   { return len(s.order) }

// Remaining is the countdown in seconds (non-study mode).
func (s *Session) Remaining() int { return s.remaining }

// Elapsed is the count-up in seconds (study mode).
func (s *Session) Elapsed() int { return s.elapsed }

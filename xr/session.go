package xr

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// State is the AR session lifecycle state.
type State int

const (
	// StateInactive means no session exists and one may be requested.
	StateInactive State = iota

	// StateRequesting means a session request is in flight.
	StateRequesting

	// StateActive means an immersive session is running.
	StateActive

	// StateEnded means the session finished. A new request starts from
	// StateInactive again after Reset.
	StateEnded
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateRequesting:
		return "requesting"
	case StateActive:
		return "active"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// TransitionError reports an illegal session state transition.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("xr: illegal transition %s -> %s", e.From, e.To)
}

// Pose is a position and orientation in world space.
type Pose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// HitTestSource yields real-world surface poses while a session is
// active. Poll is called once per frame; ok is false when the device
// found no surface this frame.
type HitTestSource interface {
	Poll() (pose Pose, ok bool)
}

// SessionOptions configure a session request.
type SessionOptions struct {
	// HitTest requests a hit-test capability.
	HitTest bool

	// DOMOverlay requests an overlay surface for 2D UI during the
	// session, on platforms that have one.
	DOMOverlay bool
}

// System probes and starts immersive sessions on the host platform.
type System interface {
	// Supported reports whether an immersive AR session can be created.
	Supported(ctx context.Context) bool

	// RequestSession starts a session and returns its hit-test source.
	// The source may be nil when hit testing was not requested.
	RequestSession(ctx context.Context, opts SessionOptions) (HitTestSource, error)
}

// Session is the AR session state machine.
type Session struct {
	state   State
	hits    HitTestSource
	reticle Reticle
}

// NewSession creates an inactive session.
func NewSession() *Session {
	return &Session{}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Reticle returns the current placement reticle.
func (s *Session) Reticle() Reticle { return s.reticle }

// Request transitions Inactive → Requesting → Active. On failure the
// session returns to Inactive and the system error is wrapped.
func (s *Session) Request(ctx context.Context, sys System, opts SessionOptions) error {
	if s.state != StateInactive {
		return &TransitionError{From: s.state, To: StateRequesting}
	}
	s.state = StateRequesting

	hits, err := sys.RequestSession(ctx, opts)
	if err != nil {
		s.state = StateInactive
		return fmt.Errorf("requesting session: %w", err)
	}

	s.hits = hits
	s.reticle = Reticle{}
	s.state = StateActive
	return nil
}

// End transitions Active → Ended and drops the hit-test source.
func (s *Session) End() error {
	if s.state != StateActive {
		return &TransitionError{From: s.state, To: StateEnded}
	}
	s.state = StateEnded
	s.hits = nil
	s.reticle = Reticle{}
	return nil
}

// Reset returns an ended session to Inactive so a new request can run.
func (s *Session) Reset() error {
	if s.state != StateEnded {
		return &TransitionError{From: s.state, To: StateInactive}
	}
	s.state = StateInactive
	return nil
}

// Frame polls the hit-test source and updates the reticle. It must be
// called from the per-frame callback only; outside an active session it
// does nothing.
func (s *Session) Frame() {
	if s.state != StateActive || s.hits == nil {
		return
	}
	if pose, ok := s.hits.Poll(); ok {
		s.reticle = Reticle{Visible: true, Pose: pose}
	} else {
		s.reticle.Visible = false
	}
}

// Select maps a controller or touch select event to a placement pose:
// the reticle pose when a surface is currently tracked.
func (s *Session) Select() (Pose, bool) {
	if s.state != StateActive || !s.reticle.Visible {
		return Pose{}, false
	}
	return s.reticle.Pose, true
}

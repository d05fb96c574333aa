package xr

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// fakeSystem is a scriptable System implementation.
type fakeSystem struct {
	supported bool
	err       error
	hits      *fakeHits
	requests  int
}

func (f *fakeSystem) Supported(ctx context.Context) bool { return f.supported }

func (f *fakeSystem) RequestSession(ctx context.Context, opts SessionOptions) (HitTestSource, error) {
	f.requests++
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

// fakeHits yields a fixed pose while tracking is true.
type fakeHits struct {
	tracking bool
	pose     Pose
}

func (f *fakeHits) Poll() (Pose, bool) { return f.pose, f.tracking }

func TestSessionLifecycle(t *testing.T) {
	sys := &fakeSystem{supported: true, hits: &fakeHits{}}
	s := NewSession()

	if s.State() != StateInactive {
		t.Fatalf("State() = %v, want inactive", s.State())
	}
	if err := s.Request(context.Background(), sys, SessionOptions{HitTest: true}); err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if s.State() != StateActive {
		t.Fatalf("State() = %v, want active", s.State())
	}
	if err := s.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if s.State() != StateEnded {
		t.Fatalf("State() = %v, want ended", s.State())
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if s.State() != StateInactive {
		t.Fatalf("State() = %v, want inactive after reset", s.State())
	}
}

func TestSessionRequestFailure(t *testing.T) {
	sys := &fakeSystem{err: errors.New("no device")}
	s := NewSession()

	if err := s.Request(context.Background(), sys, SessionOptions{}); err == nil {
		t.Fatal("Request() should propagate system error")
	}
	if s.State() != StateInactive {
		t.Errorf("State() after failed request = %v, want inactive", s.State())
	}
}

func TestSessionIllegalTransitions(t *testing.T) {
	sys := &fakeSystem{hits: &fakeHits{}}
	s := NewSession()

	// End before any session exists.
	var te *TransitionError
	if err := s.End(); !errors.As(err, &te) {
		t.Errorf("End() on inactive = %v, want TransitionError", err)
	}

	if err := s.Request(context.Background(), sys, SessionOptions{}); err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	// Double request while active.
	if err := s.Request(context.Background(), sys, SessionOptions{}); !errors.As(err, &te) {
		t.Errorf("second Request() = %v, want TransitionError", err)
	}
	if te.From != StateActive {
		t.Errorf("TransitionError.From = %v, want active", te.From)
	}
	// Reset without ending.
	if err := s.Reset(); !errors.As(err, &te) {
		t.Errorf("Reset() while active = %v, want TransitionError", err)
	}
}

func TestSessionFrameUpdatesReticle(t *testing.T) {
	hits := &fakeHits{
		tracking: true,
		pose:     Pose{Position: mgl32.Vec3{1, 0, -2}, Orientation: mgl32.QuatIdent()},
	}
	sys := &fakeSystem{hits: hits}
	s := NewSession()

	if err := s.Request(context.Background(), sys, SessionOptions{HitTest: true}); err != nil {
		t.Fatalf("Request() error = %v", err)
	}

	s.Frame()
	if !s.Reticle().Visible {
		t.Fatal("reticle should be visible while tracking")
	}
	if got := s.Reticle().Pose.Position; got != hits.pose.Position {
		t.Errorf("reticle position = %v, want %v", got, hits.pose.Position)
	}

	hits.tracking = false
	s.Frame()
	if s.Reticle().Visible {
		t.Error("reticle should hide when tracking is lost")
	}
}

func TestSessionSelect(t *testing.T) {
	hits := &fakeHits{tracking: true, pose: Pose{Position: mgl32.Vec3{0, 0, -1}}}
	sys := &fakeSystem{hits: hits}
	s := NewSession()

	// Select outside a session yields nothing.
	if _, ok := s.Select(); ok {
		t.Error("Select() on inactive session should report no pose")
	}

	if err := s.Request(context.Background(), sys, SessionOptions{HitTest: true}); err != nil {
		t.Fatalf("Request() error = %v", err)
	}

	// No frame polled yet: reticle not visible.
	if _, ok := s.Select(); ok {
		t.Error("Select() before any frame should report no pose")
	}

	s.Frame()
	pose, ok := s.Select()
	if !ok {
		t.Fatal("Select() with visible reticle should report a pose")
	}
	if pose.Position != hits.pose.Position {
		t.Errorf("Select() pose = %v, want %v", pose.Position, hits.pose.Position)
	}
}

func TestSessionFrameOutsideActive(t *testing.T) {
	s := NewSession()
	s.Frame() // must not panic
	if s.Reticle().Visible {
		t.Error("reticle should stay hidden outside a session")
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateInactive:   "inactive",
		StateRequesting: "requesting",
		StateActive:     "active",
		StateEnded:      "ended",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}

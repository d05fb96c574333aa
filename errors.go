package glview

import (
	"errors"
	"fmt"
)

// Package errors for glview.
var (
	// ErrUnsupportedEnvironment is returned when the host platform has
	// no immersive AR capability. Callers treat it as "feature not
	// offered", never as a failure to surface to the user.
	ErrUnsupportedEnvironment = errors.New("glview: immersive AR not supported")

	// ErrEmptyName is returned when a model is loaded without a name.
	ErrEmptyName = errors.New("glview: model name must not be empty")

	// ErrNoEnvironment is returned when an environment operation runs
	// before an environment map was loaded.
	ErrNoEnvironment = errors.New("glview: no environment map loaded")
)

// AssetLoadError reports a failed model or environment load. The
// failure is terminal for the single request only; registry state for
// other entries is never affected.
type AssetLoadError struct {
	// Name is the display name the load was requested under.
	Name string

	// Source is the diagnostic name of the asset source.
	Source string

	// Err is the underlying cause.
	Err error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("glview: loading %q from %s: %v", e.Name, e.Source, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }

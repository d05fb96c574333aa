// Package xr drives the immersive AR session lifecycle for glview.
//
// The session is an explicit state machine
// (Inactive → Requesting → Active → Ended) with typed transition
// errors, replacing ad hoc session event listeners. While a session is
// active the viewer polls it once per frame: the session queries its
// hit-test source, moves the placement reticle onto the detected
// surface, and maps select events to object placement.
//
// Device capability is probed through the System interface. A platform
// without immersive AR support is not an error condition: the feature
// is silently not offered.
package xr

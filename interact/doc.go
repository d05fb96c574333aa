// Package interact implements pointer interaction for glview: pick-ray
// construction from a perspective camera, orbit controls, and drag
// controls over an explicit target list.
//
// DragControls is the interaction-layer binding the registry rebinds on
// every mutation: it is constructed over a fixed object list and
// disposed rather than mutated. While a drag is in progress the bound
// orbit controls are disabled so the two gestures never fight over the
// pointer.
package interact

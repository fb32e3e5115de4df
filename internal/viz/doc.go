// Package viz is the terminal host for the particle field.
//
// The field is drawn on a braille surface, two by four dots per cell, with
// a stats panel beside it. A Bubble Tea tick drives the simulation clock,
// mouse motion feeds the pointer, and the terminal size is the surface size.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart the field
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Expand the key help
//	Q     - Quit
//
// Clicking fires a burst when bursts are enabled.
package viz

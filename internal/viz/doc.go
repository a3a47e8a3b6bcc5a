// Package viz draws the simulation in a terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one scene, drawn before every step
//   - [Picker]: preset menu that opens a live view
//   - [Canvas]: Braille-based pixel canvas with a per-cell color layer
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Space   - Pause/Resume simulation
//	N       - Advance one frame while paused
//	R       - Rebuild the scene
//	+/-     - Double/halve ticks per frame
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	?       - Show help overlay
//	Q / Esc - Quit
//
// # Recording
//
// G starts capturing every frame; pressing it again (or quitting) writes
// the frames as an animated GIF to Options.GIFPath.
package viz

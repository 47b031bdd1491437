// Package viz renders particle runs in the terminal.
//
// [Model] is a Bubble Tea program that steps a run loop a few ticks per
// frame and draws the particles on a braille [Canvas]. [Summary] formats
// the end-of-run report printed by the CLI.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	+/-   - Zoom in/out
//	]/[   - More/fewer ticks per frame
//	Q     - Quit
package viz

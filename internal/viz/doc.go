// Package viz provides the terminal view of a running erosion lab.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of a [lab.Session] with replay and a water graph
//   - [RenderGrid]: half-block terrain drawing, two cells per character
//   - [RunInteractive]: preset menu followed by the live view
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset with the same seed
//	+/-   - Rain up/down
//	G     - Toggle raise mode
//	Enter - Raise ground at the cursor
//	T     - Cycle color themes
//	V     - Toggle GIF recording
//	[]    - Time travel (rewind/forward)
//
// # Recording
//
// Recordings are saved as riverlab_<unix time>.gif in the current directory.
package viz

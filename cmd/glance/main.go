// glance - interactive 3D model viewer for the terminal.
//
// Controls:
//
//	Left drag        - Orbit (turntable) or look around (first person)
//	Right/Shift drag - Pan
//	Scroll, +/-      - Zoom
//	W/A/S/D, arrows  - Move
//	Q/E              - Move down/up
//	Space            - Random spin
//	R                - Reset view
//	T/X/G            - Toggle texture, wireframe, specular
//	P, Tab           - Show the slider panel, select a slider
//	[ ] and { }      - Step the selected slider by 1 or 10
//	L                - Aim the light (move mouse, click to set, Esc to cancel)
//	?                - Toggle HUD
//	Esc, Ctrl+C      - Quit
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}

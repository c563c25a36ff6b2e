package math

import "github.com/chewxy/math32"

const (
	// Deg2Rad converts degrees to radians.
	Deg2Rad = math32.Pi * 2 / 360
	// Rad2Deg converts radians to degrees.
	Rad2Deg = 360 / (math32.Pi * 2)
)

// SPDX-License-Identifier: EPL-2.0

package utils

// CubicInterpolate evaluates a Catmull-Rom spline through four consecutive
// samples at fractional position t between y1 (t=0) and y2 (t=1).
func CubicInterpolate(y0, y1, y2, y3, t float32) float32 {
	c3 := 0.5 * (-y0 + 3*y1 - 3*y2 + y3)
	c2 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c1 := 0.5 * (y2 - y0)

	return ((c3*t+c2)*t+c1)*t + y1
}

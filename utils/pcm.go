// SPDX-License-Identifier: EPL-2.0

package utils

// Clamp bounds x to the normalized sample range [-1, 1].
func Clamp(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// FullScale returns the magnitude of the most negative value of a signed
// PCM sample with the given bit depth (128 for 8-bit, 32768 for 16-bit...).
// Unknown depths fall back to 16-bit.
func FullScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128.0
	case 16:
		return 32768.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0
	}
}

// PCMToFloat32 normalizes an integer PCM sample of bitDepth bits.
func PCMToFloat32(v int, bitDepth int) float32 {
	return float32(v) / FullScale(bitDepth)
}

// Float32ToPCM scales a normalized sample to an integer sample of bitDepth
// bits. Positive full scale maps to the largest positive value.
func Float32ToPCM(x float32, bitDepth int) int {
	return int(Clamp(x) * (FullScale(bitDepth) - 1))
}

package processor

import "math"

// TargetDimensions computes the canvas size for a resize of an origW x origH
// image to the requested reqW x reqH, where zero means "not given".
//
// With proportional set, a request larger than the original in either axis
// yields the original size. When only one dimension is given the other is
// derived from the aspect ratio, but the given value is applied to the
// image's longer side: a portrait image takes it as its height and a
// landscape or square image takes it as its width, whichever field carried
// it.
func TargetDimensions(origW, origH, reqW, reqH int, proportional bool) (int, int) {
	width, height := reqW, reqH

	if (reqW > origW || reqH > origH) && proportional {
		return origW, origH
	}

	if width > 0 && height > 0 {
		return width, height
	}

	if origH > origW {
		height = reqH
		if reqW > 0 {
			height = reqW
		}
		width = scale(height, origW, origH)
	} else {
		width = reqW
		if reqH > 0 {
			width = reqH
		}
		height = scale(width, origH, origW)
	}

	return width, height
}

func scale(v, num, den int) int {
	if den == 0 {
		return 1
	}
	s := int(math.Round(float64(v) * float64(num) / float64(den)))
	if s < 1 {
		return 1
	}
	return s
}

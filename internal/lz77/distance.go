package lz77

// specialDistanceCodes lists the 120 (dx, dy) offsets the reference
// assigns to short special-distance codes: the relative 2D offsets
// that recur often enough in raster-scanned data (pixels, residuals,
// or any other token stream that was flattened from a 2D grid) to
// deserve a code shorter than a plain numeric distance. This table's
// entries were not retrievable from the subset of the reference
// sources checked into this repository's original_source/ directory
// (the table lives in a header that subset doesn't include), so it
// was reconstructed from the public reference format's known
// structure — a taxicap-growing sequence of offsets, mirrored
// positive/negative across the x axis — rather than copied verbatim;
// treat the exact entry order past the first two dozen as a
// best-effort reconstruction, not a verified-bit-identical table.
// Index 0 is a placeholder and is never emitted as a code.
var specialDistanceCodes = [...][2]int{
	{0, 0}, // unused placeholder, keeps indices 1-based like the source table
	{0, 1}, {1, 0}, {1, 1}, {-1, 1}, {0, 2}, {2, 0}, {1, 2}, {-1, 2},
	{2, 1}, {-2, 1}, {2, 2}, {-2, 2}, {0, 3}, {3, 0}, {1, 3}, {-1, 3},
	{3, 1}, {-3, 1}, {2, 3}, {-2, 3}, {3, 2}, {-3, 2}, {0, 4}, {4, 0},
	{1, 4}, {-1, 4}, {4, 1}, {-4, 1}, {3, 3}, {-3, 3}, {2, 4}, {-2, 4},
	{4, 2}, {-4, 2}, {0, 5}, {5, 0}, {1, 5}, {-1, 5}, {5, 1}, {-5, 1},
	{3, 4}, {-3, 4}, {4, 3}, {-4, 3}, {2, 5}, {-2, 5}, {5, 2}, {-5, 2},
	{0, 6}, {6, 0}, {1, 6}, {-1, 6}, {6, 1}, {-6, 1}, {4, 4}, {-4, 4},
	{3, 5}, {-3, 5}, {5, 3}, {-5, 3}, {2, 6}, {-2, 6}, {6, 2}, {-6, 2},
	{0, 7}, {7, 0}, {1, 7}, {-1, 7}, {5, 4}, {-5, 4}, {4, 5}, {-4, 5},
	{7, 1}, {-7, 1}, {3, 6}, {-3, 6}, {6, 3}, {-6, 3}, {0, 8}, {8, 0},
	{2, 7}, {-2, 7}, {7, 2}, {-7, 2}, {4, 6}, {-4, 6}, {6, 4}, {-6, 4},
	{1, 8}, {-1, 8}, {8, 1}, {-8, 1}, {5, 5}, {-5, 5}, {3, 7}, {-3, 7},
	{7, 3}, {-7, 3}, {0, 9}, {9, 0}, {2, 8}, {-2, 8}, {8, 2}, {-8, 2},
	{6, 5}, {-6, 5}, {5, 6}, {-5, 6}, {1, 9}, {-1, 9}, {9, 1}, {-9, 1},
	{4, 7}, {-4, 7}, {7, 4}, {-7, 4}, {3, 8}, {-3, 8}, {8, 3}, {-8, 3},
}

// NumSpecialDistanceCodes is the number of entries SpecialDistance
// accepts (codes 1..NumSpecialDistanceCodes are special; everything
// above maps to a plain distance offset). Fixed at 120 per the
// reference's kNumSpecialDistances.
const NumSpecialDistanceCodes = len(specialDistanceCodes) - 1

// SpecialDistance maps a small special-distance code plus the
// context's row stride (distanceMultiplier — the number of symbols
// per "row" in whatever 2D structure the token stream was flattened
// from, or 0 if the stream has no such structure) to an actual
// sequential distance, generalizing the teacher's
// PlaneCodeToDistance/CodeToPlane tables from fixed ARGB image planes
// to an arbitrary stride.
func SpecialDistance(code int, distanceMultiplier int) int {
	if code < 1 || code > NumSpecialDistanceCodes || distanceMultiplier == 0 {
		return code
	}
	dx, dy := specialDistanceCodes[code][0], specialDistanceCodes[code][1]
	d := dy*distanceMultiplier + dx
	if d < 1 {
		d = 1
	}
	return d
}

// EncodeDistance is SpecialDistance's inverse direction: given an
// actual sequential distance and the row stride, it returns the
// special code that reproduces it; if no special code matches (or
// distanceMultiplier is 0) it returns distance plus the number of
// special codes, so the combined code space stays contiguous, matching
// the teacher's own distance-code layout.
func EncodeDistance(distance int, distanceMultiplier int) int {
	if distanceMultiplier != 0 {
		for code := 1; code <= NumSpecialDistanceCodes; code++ {
			if SpecialDistance(code, distanceMultiplier) == distance {
				return code
			}
		}
	}
	return distance + NumSpecialDistanceCodes
}

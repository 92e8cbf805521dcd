package bitty

// Rect is an axis-aligned rectangle defined by its edges rather than an
// origin and size, matching the half-open [left,right) x [top,bottom)
// convention used throughout the cell buffer and dispatcher.
type Rect[T int | int32 | int64 | uint32] struct {
	Left, Top, Right, Bottom T
}

// Clamp restricts the rectangle to lie within to.
func (r *Rect[T]) Clamp(to Rect[T]) {
	r.Left = max(r.Left, to.Left)
	r.Right = min(r.Right, to.Right)
	r.Top = max(r.Top, to.Top)
	r.Bottom = min(r.Bottom, to.Bottom)
}

// CopyWidthAndHeight resizes the rectangle in place to match from's
// dimensions, keeping this rectangle's Left/Top origin.
func (r *Rect[T]) CopyWidthAndHeight(from Rect[T]) {
	r.Right = r.Left + from.Right - from.Left
	r.Bottom = r.Top + from.Bottom - from.Top
}

// IsValid reports whether the rectangle has non-negative width and height.
func (r Rect[T]) IsValid() bool {
	return r.Right >= r.Left && r.Bottom >= r.Top
}

// Width returns Right - Left.
func (r Rect[T]) Width() T { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r Rect[T]) Height() T { return r.Bottom - r.Top }

// CeilDiv returns ceil(a / b) for positive integers.
func CeilDiv[T int | int32 | int64 | uint | uint32 | uint64](a, b T) T {
	return (a + b - 1) / b
}

// EuclideanMod returns a mod b in the range [0, b), even for negative a.
func EuclideanMod(a int, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

// Mat4 is an opaque 4x4 transform matrix, in row-major order, handed to a
// Renderer alongside a CellBuffer's dirty cells. The buffer never interprets
// its contents; it only stores and returns whatever the owner sets.
type Mat4 [16]float32

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// addSatU32 adds a and b, saturating at math.MaxUint32 instead of wrapping.
func addSatU32(a, b uint32) uint32 {
	sum := a + b
	if sum < a {
		return ^uint32(0)
	}
	return sum
}

// subSatU32 subtracts b from a, saturating at 0 instead of wrapping.
func subSatU32(a, b uint32) uint32 {
	if b > a {
		return 0
	}
	return a - b
}

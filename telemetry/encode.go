package telemetry

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/flocklab/murmur/components"
	"github.com/flocklab/murmur/systems"
)

// Telemetry payload format tags.
const (
	// FormatMeta marks a payload carrying configuration and order
	// parameters only.
	FormatMeta = "meta"
	// FormatU16XY additionally carries quantized agent positions:
	// interleaved x,y pairs as little-endian uint16, base64 encoded.
	FormatU16XY = "u16xy"
)

const quantScale = 65535

// QuantizePositions packs agent positions into interleaved little-endian
// uint16 pairs. Each coordinate is normalized by its world dimension,
// clamped to [0,1] and scaled to [0,65535], so positions outside the
// world (containment band overshoot) land on the nearest edge rather
// than wrapping. The worst-case decode error is dimension/65536 per
// axis.
func QuantizePositions(flock []systems.Boid, width, height float64) []byte {
	buf := make([]byte, 4*len(flock))
	for i, b := range flock {
		binary.LittleEndian.PutUint16(buf[4*i:], quantizeCoord(b.Pos.X, width))
		binary.LittleEndian.PutUint16(buf[4*i+2:], quantizeCoord(b.Pos.Y, height))
	}
	return buf
}

func quantizeCoord(v, dim float64) uint16 {
	q := v / dim
	if !(q > 0) { // catches negatives and NaN
		return 0
	}
	if q > 1 {
		q = 1
	}
	return uint16(math.Round(q * quantScale))
}

// EncodePositions returns the base64 form of QuantizePositions, the
// payload's data field.
func EncodePositions(flock []systems.Boid, width, height float64) string {
	return base64.StdEncoding.EncodeToString(QuantizePositions(flock, width, height))
}

// DecodePositions reverses EncodePositions back into world coordinates.
// Consumers on the Go side use it instead of reimplementing the layout;
// tests use it to pin the error bound.
func DecodePositions(data string, width, height float64) ([]components.Position, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("telemetry: decode positions: %w", err)
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("telemetry: position blob length %d is not a multiple of 4", len(raw))
	}
	out := make([]components.Position, len(raw)/4)
	for i := range out {
		qx := binary.LittleEndian.Uint16(raw[4*i:])
		qy := binary.LittleEndian.Uint16(raw[4*i+2:])
		out[i] = components.Position{
			X: float64(qx) / quantScale * width,
			Y: float64(qy) / quantScale * height,
		}
	}
	return out, nil
}

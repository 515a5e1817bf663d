package telemetry

import (
	"encoding/base64"
	"math"
	"math/rand"
	"testing"

	"github.com/flocklab/murmur/systems"
)

func TestQuantizePositionsLayout(t *testing.T) {
	flock := []systems.Boid{
		boid(500, 0, 0, 0), // x at far edge, y at origin
		boid(0, 300, 0, 0), // x at origin, y at far edge
	}

	buf := QuantizePositions(flock, 500, 300)

	want := []byte{
		0xFF, 0xFF, 0x00, 0x00, // (65535, 0) little-endian
		0x00, 0x00, 0xFF, 0xFF, // (0, 65535)
	}
	if len(buf) != len(want) {
		t.Fatalf("len = %d, want %d", len(buf), len(want))
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %#x, want %#x", i, buf[i], want[i])
		}
	}
}

func TestQuantizeCoordClamps(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		dim  float64
		want uint16
	}{
		{"below zero clamps low", -42, 500, 0},
		{"above dim clamps high", 750, 500, 65535},
		{"zero", 0, 500, 0},
		{"at dim", 500, 500, 65535},
		{"midpoint", 250, 500, 32768},
		{"nan clamps low", math.NaN(), 500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quantizeCoord(tt.v, tt.dim); got != tt.want {
				t.Errorf("quantizeCoord(%v, %v) = %d, want %d", tt.v, tt.dim, got, tt.want)
			}
		})
	}
}

func TestEncodePositionsErrorBound(t *testing.T) {
	const w, h = 500.0, 300.0
	rng := rand.New(rand.NewSource(7))

	flock := make([]systems.Boid, 64)
	for i := range flock {
		flock[i] = boid(rng.Float64()*w, rng.Float64()*h, 0, 0)
	}

	decoded, err := DecodePositions(EncodePositions(flock, w, h), w, h)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != len(flock) {
		t.Fatalf("decoded %d positions, want %d", len(decoded), len(flock))
	}

	maxErrX := w / 65536
	maxErrY := h / 65536
	for i, p := range decoded {
		if dx := math.Abs(p.X - flock[i].Pos.X); dx > maxErrX {
			t.Errorf("agent %d: x error %v exceeds %v", i, dx, maxErrX)
		}
		if dy := math.Abs(p.Y - flock[i].Pos.Y); dy > maxErrY {
			t.Errorf("agent %d: y error %v exceeds %v", i, dy, maxErrY)
		}
	}
}

func TestEncodePositionsLength(t *testing.T) {
	flock := make([]systems.Boid, 13)
	raw, err := base64.StdEncoding.DecodeString(EncodePositions(flock, 100, 100))
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	if len(raw) != 4*len(flock) {
		t.Errorf("blob length = %d, want %d", len(raw), 4*len(flock))
	}
}

func TestDecodePositionsRejectsBadInput(t *testing.T) {
	if _, err := DecodePositions("not base64!!", 100, 100); err == nil {
		t.Error("expected error for invalid base64")
	}
	// "AAAA" decodes to 3 bytes, not a multiple of the 4-byte stride.
	if _, err := DecodePositions("AAAA", 100, 100); err == nil {
		t.Error("expected error for truncated blob")
	}
}

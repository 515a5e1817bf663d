package sim

import (
	"testing"

	"github.com/flocklab/murmur/config"
)

func benchStep(b *testing.B, n int) {
	cfg := config.Default()
	cfg.NumBoids = n
	cfg.Width = 1000
	cfg.Height = 1000
	cfg.TeleThrottle = 0

	s, err := New(cfg, Options{Seed: 1})
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}
	defer s.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Step()
	}
}

// Below the worker-pool threshold: single goroutine path.
func BenchmarkStep32(b *testing.B) { benchStep(b, 32) }

// Above the threshold: chunked across the pool.
func BenchmarkStep256(b *testing.B)  { benchStep(b, 256) }
func BenchmarkStep1024(b *testing.B) { benchStep(b, 1024) }

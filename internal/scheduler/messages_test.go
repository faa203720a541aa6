package scheduler

import (
	"math/rand"
	"testing"

	"github.com/sadopc/remindr/internal/weather"
)

// ============================================================
// Hour buckets
// ============================================================

func TestBucketBoundaries(t *testing.T) {
	cases := []struct {
		hour int
		want *[]string
	}{
		{5, &nightMessages},
		{6, &morningMessages},
		{9, &morningMessages},
		{10, &middayMessages},
		{13, &middayMessages},
		{14, &afternoonMessages},
		{17, &afternoonMessages},
		{18, &eveningMessages},
		{21, &eveningMessages},
		{22, &nightMessages},
		{0, &nightMessages},
	}
	for _, c := range cases {
		got := bucketFor(c.hour)
		if &got[0] != &(*c.want)[0] {
			t.Errorf("hour %d mapped to wrong bucket", c.hour)
		}
	}
}

// ============================================================
// Selection
// ============================================================

func TestPickDeterministicWithSeed(t *testing.T) {
	now := at(t, 9, 0)
	snap := weather.Neutral()

	a := NewMessageSelector(rand.New(rand.NewSource(42)))
	b := NewMessageSelector(rand.New(rand.NewSource(42)))

	for i := 0; i < 20; i++ {
		if a.Pick(now, &snap) != b.Pick(now, &snap) {
			t.Fatal("same seed should give the same sequence")
		}
	}
}

func TestPickDrawsFromBucketAndConditions(t *testing.T) {
	now := at(t, 9, 0)
	hot := weather.Neutral()
	hot.Temperature = 35
	hot.UVIndex = 8

	allowed := make(map[string]bool)
	for _, m := range morningMessages {
		allowed[m] = true
	}
	for _, m := range hotMessages {
		allowed[m] = true
	}
	for _, m := range highUVMessages {
		allowed[m] = true
	}

	sel := NewMessageSelector(rand.New(rand.NewSource(1)))
	sawCondition := false
	for i := 0; i < 500; i++ {
		msg := sel.Pick(now, &hot)
		if !allowed[msg] {
			t.Fatalf("unexpected message %q", msg)
		}
		for _, m := range hotMessages {
			if msg == m {
				sawCondition = true
			}
		}
	}
	if !sawCondition {
		t.Fatal("condition messages never selected")
	}
}

func TestPickWithoutWeather(t *testing.T) {
	sel := NewMessageSelector(rand.New(rand.NewSource(1)))
	now := at(t, 15, 0)

	allowed := make(map[string]bool)
	for _, m := range afternoonMessages {
		allowed[m] = true
	}
	for i := 0; i < 100; i++ {
		if msg := sel.Pick(now, nil); !allowed[msg] {
			t.Fatalf("unexpected message %q", msg)
		}
	}
}

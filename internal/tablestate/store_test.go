package tablestate

import "testing"

func TestConsumeIsOneShot(t *testing.T) {
	s := NewStore()

	if s.Consume(1) {
		t.Fatal("nothing freed yet")
	}

	s.MarkFreed(1)
	if !s.Consume(1) {
		t.Fatal("freed table must be consumable once")
	}
	if s.Consume(1) {
		t.Fatal("second consume must report nothing: the signal is one-shot")
	}
}

func TestConsumeAllDrains(t *testing.T) {
	s := NewStore()
	s.MarkFreed(1)
	s.MarkFreed(2)
	s.MarkFreed(2)

	ids := s.ConsumeAll()
	if len(ids) != 2 {
		t.Fatalf("ConsumeAll = %v, want two distinct tables", ids)
	}
	if got := s.ConsumeAll(); got != nil {
		t.Fatalf("drained store returned %v", got)
	}
}

func TestSubscribeFanOut(t *testing.T) {
	s := NewStore()

	ch1, cancel1 := s.Subscribe()
	ch2, cancel2 := s.Subscribe()
	defer cancel2()

	s.MarkFreed(7)

	if got := <-ch1; got != 7 {
		t.Fatalf("subscriber 1 got %d, want 7", got)
	}
	if got := <-ch2; got != 7 {
		t.Fatalf("subscriber 2 got %d, want 7", got)
	}

	cancel1()
	if _, ok := <-ch1; ok {
		t.Fatal("cancelled subscription channel should be closed")
	}

	// A full subscriber must not block the publisher.
	for i := 0; i < 100; i++ {
		s.MarkFreed(int64(i))
	}
}

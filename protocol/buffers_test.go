package protocol

import "testing"

func TestScratchOutput(t *testing.T) {
	scratch := NewScratchOutput()

	scratch.Output([]byte{1, 2, 3})
	if len(scratch.Result()) != 3 {
		t.Errorf("Expected 3 bytes, got %d", len(scratch.Result()))
	}

	scratch.Output([]byte{4, 5})
	got := scratch.Result()
	if len(got) != 5 || got[2] != 3 || got[4] != 5 {
		t.Errorf("Expected [1 2 3 4 5], got %v", got)
	}

	scratch.Reset()
	if len(scratch.Result()) != 0 {
		t.Errorf("After reset, expected empty result, got %v", scratch.Result())
	}
}

func TestScratchOutputTruncates(t *testing.T) {
	scratch := NewScratchOutput()
	scratch.Output(make([]byte, FrameMax+10))
	if len(scratch.Result()) != FrameMax {
		t.Errorf("Expected output capped at %d, got %d", FrameMax, len(scratch.Result()))
	}
}

func TestLineQueue(t *testing.T) {
	q := NewLineQueue(10)

	if !q.IsEmpty() || q.Free() != 9 {
		t.Fatalf("New queue should be empty with 9 free, got free=%d", q.Free())
	}

	if !q.PushLine([]byte("abc\n")) {
		t.Fatal("Expected first line accepted")
	}
	if q.PushLine([]byte("defghi\n")) {
		t.Error("Expected oversized line rejected")
	}
	if q.Dropped() != 1 || q.Available() != 4 {
		t.Errorf("Expected 1 drop and 4 bytes queued, got %d and %d", q.Dropped(), q.Available())
	}

	buf := make([]byte, 2)
	if n := q.Read(buf); n != 2 || string(buf) != "ab" {
		t.Errorf("Expected to read 'ab', got %q", buf[:n])
	}

	// Wraps around the end of the backing array
	if !q.PushLine([]byte("xyz12\n")) {
		t.Fatal("Expected line accepted after drain")
	}
	out := make([]byte, 16)
	n := q.Read(out)
	if string(out[:n]) != "c\nxyz12\n" {
		t.Errorf("Expected 'c\\nxyz12\\n', got %q", out[:n])
	}
	if !q.IsEmpty() {
		t.Error("Expected queue empty after draining")
	}

	q.Reset()
	if q.Dropped() != 0 {
		t.Error("Expected drop counter cleared")
	}
}

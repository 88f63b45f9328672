package utils

import (
	"testing"
)

func TestLazyRegex(t *testing.T) {
	lr := NewLazyRegex(`^G(\d+)$`)

	re := lr.Re()
	if !re.MatchString("G28") {
		t.Error("expected match for 'G28'")
	}
	if re.MatchString("M82") {
		t.Error("expected no match for 'M82'")
	}

	if re2 := lr.Re(); re != re2 {
		t.Error("expected same regexp instance on second call")
	}
}

func TestLazyRegexSubmatch(t *testing.T) {
	lr := NewLazyRegex(`^G(\d+)`)

	m := lr.Submatch("G92 E0")
	if len(m) != 2 || m[1] != "92" {
		t.Errorf("submatch = %v", m)
	}
	if m := lr.Submatch("; comment"); m != nil {
		t.Errorf("expected nil, got %v", m)
	}
}

func TestLazyRegexConcurrent(t *testing.T) {
	lr := NewLazyRegex(`\w+`)
	done := make(chan bool, 10)

	for range 10 {
		go func() {
			re := lr.Re()
			if !re.MatchString("hello") {
				t.Error("expected match")
			}
			done <- true
		}()
	}

	for range 10 {
		<-done
	}
}

package sync

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestIsAffirmative(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{answer: "y", want: true},
		{answer: "Y", want: true},
		{answer: "yes", want: true},
		{answer: "YES", want: true},
		{answer: "yeah", want: true},
		{answer: " y ", want: true},
		{answer: "", want: false},
		{answer: "n", want: false},
		{answer: "no", want: false},
		{answer: "sure", want: false},
		{answer: "ok", want: false},
		{answer: " ", want: false},
	}

	for _, tt := range tests {
		t.Run("answer_"+tt.answer, func(t *testing.T) {
			if got := IsAffirmative(tt.answer); got != tt.want {
				t.Errorf("IsAffirmative(%q) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer

	if !Confirm(bufio.NewScanner(strings.NewReader("yes\n")), &out, "Proceed?") {
		t.Error("expected yes to confirm")
	}
	if !strings.Contains(out.String(), "Proceed? [y/N]: ") {
		t.Errorf("prompt not rendered: %q", out.String())
	}

	if Confirm(bufio.NewScanner(strings.NewReader("\n")), &out, "Proceed?") {
		t.Error("empty input must decline")
	}

	// Closed input counts as no.
	if Confirm(bufio.NewScanner(strings.NewReader("")), &out, "Proceed?") {
		t.Error("closed input must decline")
	}
}

func TestConfirm_SequentialPrompts(t *testing.T) {
	// One scanner serves consecutive prompts; the answers must arrive in
	// order even when the whole input is buffered up front.
	var out bytes.Buffer
	sc := bufio.NewScanner(strings.NewReader("y\nn\ny\n"))

	for i, want := range []bool{true, false, true} {
		if got := Confirm(sc, &out, "Proceed?"); got != want {
			t.Errorf("prompt %d = %v, want %v", i+1, got, want)
		}
	}
}

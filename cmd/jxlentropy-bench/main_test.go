package main

import (
	"bytes"
	"testing"

	"github.com/deepteams/jxlentropy"
)

func TestTokenDumpRoundTrip(t *testing.T) {
	tokens := []jxlentropy.Token{
		{Context: 0, Value: 7},
		{Context: 2, Value: 1024, IsLZ77Length: true},
		{Context: 1, Value: 0},
	}

	var buf bytes.Buffer
	if err := writeTokenDump(&buf, tokens, 3); err != nil {
		t.Fatalf("writeTokenDump: %v", err)
	}

	got, numContexts, err := readTokenDumpFromReader(&buf)
	if err != nil {
		t.Fatalf("readTokenDumpFromReader: %v", err)
	}
	if numContexts != 3 {
		t.Fatalf("numContexts = %d, want 3", numContexts)
	}
	if len(got) != len(tokens) {
		t.Fatalf("got %d tokens, want %d", len(got), len(tokens))
	}
	for i, want := range tokens {
		if got[i] != want {
			t.Fatalf("token %d: got %+v, want %+v", i, got[i], want)
		}
	}
}

func TestBoundaryScenariosBuildValidStreams(t *testing.T) {
	for n := 1; n <= 5; n++ {
		tokens, numContexts, label, err := boundaryScenario(n)
		if err != nil {
			t.Fatalf("scenario %d: %v", n, err)
		}
		if len(tokens) == 0 {
			t.Fatalf("scenario %d (%s): expected a non-empty token stream", n, label)
		}
		if numContexts < 1 {
			t.Fatalf("scenario %d (%s): expected at least one context", n, label)
		}
		if _, err := jxlentropy.BuildAndEncodeHistograms(tokens, numContexts, jxlentropy.DefaultHistogramParams()); err != nil {
			t.Fatalf("scenario %d (%s): encode failed: %v", n, label, err)
		}
	}
}

func TestBoundaryScenarioUnknownIndexErrors(t *testing.T) {
	if _, _, _, err := boundaryScenario(7); err == nil {
		t.Fatal("expected an error for an out-of-range scenario index")
	}
}

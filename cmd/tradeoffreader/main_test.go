package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fmindex/tradeoff/src/perf"
)

func TestRunCountsPerGroup(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	srcs := []perf.Source{
		{Group: perf.Chimpanzee, Path: write("c.csv", "BlockingFactor,MemoryUsage,QueryTime\n500,1,2\n500,3,4\n")},
		{Group: perf.Dog, Path: write("d.csv", "BlockingFactor,MemoryUsage,QueryTime\n500,x,2\n")},
		{Group: perf.Human, Path: write("h.csv", "BlockingFactor,MemoryUsage,QueryTime\n")},
	}
	var out bytes.Buffer
	if err := run(&out, srcs); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Total rows: 3", "Chimpanzee: 2 (missing values: 0)", "Dog: 1 (missing values: 1)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in output:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Human") {
		t.Fatalf("group without rows should not be listed:\n%s", got)
	}
}

func TestRunMissingFile(t *testing.T) {
	err := run(&bytes.Buffer{}, []perf.Source{{Group: perf.Dog, Path: filepath.Join(t.TempDir(), "none.csv")}})
	if err == nil {
		t.Fatalf("expected error")
	}
}

package main

import (
	"runtime"
	"testing"
)

func TestSearchDirSeparatorMatchesHostOS(t *testing.T) {
	got := searchDirSeparator()
	want := ":"
	if runtime.GOOS == "windows" {
		want = ";"
	}
	if got != want {
		t.Fatalf("searchDirSeparator() = %q, want %q for GOOS=%s", got, want, runtime.GOOS)
	}
}

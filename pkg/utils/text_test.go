package utils

import (
	"testing"
)

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello..." {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
	if Truncate("héllo wörld", 5) != "héllo..." {
		t.Errorf("rune truncation: got %s", Truncate("héllo wörld", 5))
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Write API Docs", "api docs") {
		t.Error("case-insensitive match expected")
	}
	if ContainsFold("meeting notes", "docs") {
		t.Error("no match expected")
	}
}

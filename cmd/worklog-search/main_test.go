package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSearchArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after query are moved first",
			args:     []string{"weekly report", "-limit", "5"},
			expected: []string{"-limit", "5", "weekly report"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-limit", "5", "weekly report"},
			expected: []string{"-limit", "5", "weekly report"},
		},
		{
			name:     "query only returns unchanged",
			args:     []string{"weekly report"},
			expected: []string{"weekly report"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"one", "two", "-output", "json"},
			expected: []string{"-output", "json", "one", "two"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := searchArgsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("searchArgsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"deploy"}, "deploy"},
		{"multiple words", []string{"weekly", "report"}, "weekly report"},
		{"single quoted phrase", []string{"weekly report"}, "weekly report"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSearchQuery(tt.args)
			if got != tt.expected {
				t.Errorf("buildSearchQuery(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	if got := splitList("pending, in_progress ,,done"); !reflect.DeepEqual(got, []string{"pending", "in_progress", "done"}) {
		t.Errorf("splitList() = %v", got)
	}
	if got := splitList(""); got != nil {
		t.Errorf("splitList(empty) = %v, want nil", got)
	}
}

func TestSplitIDs(t *testing.T) {
	if got := splitIDs("3,7, 11,junk"); !reflect.DeepEqual(got, []int64{3, 7, 11}) {
		t.Errorf("splitIDs() = %v", got)
	}
	if got := splitIDs(""); got != nil {
		t.Errorf("splitIDs(empty) = %v, want nil", got)
	}
}

func TestOutputFormat(t *testing.T) {
	for name, ok := range map[string]bool{"text": true, "compact": true, "json": true, "yaml": false} {
		if _, err := outputFormat(name); (err == nil) != ok {
			t.Errorf("outputFormat(%q): err = %v", name, err)
		}
	}
}

func TestLoadConfig_cwdFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  port: 9300\n"), 0600); err != nil {
		t.Fatal(err)
	}
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })

	cfg, path, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9300 {
		t.Errorf("port = %d, want 9300", cfg.Server.Port)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("resolved path = %q", path)
	}
}

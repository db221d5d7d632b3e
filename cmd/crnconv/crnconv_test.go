package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/goopsie/crnbridge/internal/crntest"
	"github.com/goopsie/crnbridge/pkg/archive"
	"github.com/goopsie/crnbridge/pkg/crn"
)

type setFlags map[string]bool

func (s setFlags) IsSet(name string) bool { return s[name] }

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing", func(t *testing.T) {
		c, err := loadConfigFile(filepath.Join(dir, "missing.yaml"))
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if c != (Config{}) {
			t.Errorf("expected zero config, got %+v", c)
		}
	})

	t.Run("Valid", func(t *testing.T) {
		path := filepath.Join(dir, "config.yaml")
		body := "format: png\nlog_level: debug\nlog_format: json\noutput_dir: /tmp/out\n"
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		c, err := loadConfigFile(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		want := Config{Format: "png", LogLevel: "debug", LogFormat: "json", OutputDir: "/tmp/out"}
		if c != want {
			t.Errorf("got %+v, want %+v", c, want)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("format: [unterminated"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := loadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestApplyConfig(t *testing.T) {
	c := Config{Format: "png", LogLevel: "debug", LogFormat: "json", OutputDir: "out"}

	level, format, dir := "warn", "text", ""
	applyGlobalConfig(setFlags{"log-level": true}, c, &level, &format, &dir)
	if level != "warn" {
		t.Errorf("explicit flag overridden: level = %q", level)
	}
	if format != "json" || dir != "out" {
		t.Errorf("config not applied: format = %q, dir = %q", format, dir)
	}

	texFormat := "dds"
	applyConvertConfig(setFlags{}, c, &texFormat)
	if texFormat != "png" {
		t.Errorf("format: got %q, want png", texFormat)
	}
	texFormat = "jpg"
	applyConvertConfig(setFlags{"format": true}, c, &texFormat)
	if texFormat != "jpg" {
		t.Errorf("explicit format overridden: got %q", texFormat)
	}
}

func TestResolveOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tex", "a.crn")

	got, err := resolveOutput(input, "", "", "", ".dds")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "tex", "a.dds"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got, err = resolveOutput(input, "", filepath.Join(dir, "out"), "_full", ".crn")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "out", "a_full.crn"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); err != nil {
		t.Errorf("output directory not created: %v", err)
	}

	got, err = resolveOutput(input, filepath.Join(dir, "x", "y.png"), "ignored", "", ".dds")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "x", "y.png"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoadSegments(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "a.crns")
	if err := archive.WriteFile(archivePath, [][]byte{[]byte("abc"), []byte("de")}); err != nil {
		t.Fatal(err)
	}

	data, n, err := loadSegments(nil, archivePath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != "abcde" || n != 2 {
		t.Errorf("got %q, %d", data, n)
	}

	if _, _, err := loadSegments([]string{"a1.crn"}, archivePath); err == nil {
		t.Error("expected error for both sources")
	}

	data, n, err = loadSegments(nil, "")
	if err != nil || data != nil || n != 0 {
		t.Errorf("no sources: got %v, %d, %v", data, n, err)
	}

	if got := levelsFor(false, 0, 3); got != 3 {
		t.Errorf("levelsFor default: got %d", got)
	}
	if got := levelsFor(true, 1, 3); got != 1 {
		t.Errorf("levelsFor explicit: got %d", got)
	}
}

func TestInfo(t *testing.T) {
	data := crntest.Container{LevelOffsets: []uint32{0, 100, 250, 500}, Segmented: true, Missing: 1}.Bytes()
	h, err := crn.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	info := newInfo("a.crn", len(data), h)

	raw, err := json.Marshal(info)
	if err != nil {
		t.Fatal(err)
	}
	var decoded infoJSON
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if !decoded.Segmented || len(decoded.Levels) != 3 || decoded.Levels[1].Size != 150 {
		t.Errorf("unexpected info: %+v", decoded)
	}
	// A segmented header does not record where its last level ends.
	if decoded.Levels[2].Size != 0 || decoded.DataSize != crntest.DefaultHeaderByteSize {
		t.Errorf("segmented sizes: last level %d, data size %d", decoded.Levels[2].Size, decoded.DataSize)
	}
	if decoded.Format != "DXT5" {
		t.Errorf("format: got %q", decoded.Format)
	}

	var buf bytes.Buffer
	writeInfo(&buf, info)
	if !strings.Contains(buf.String(), "segmented: true") {
		t.Errorf("unexpected text output:\n%s", buf.String())
	}
}

package consumer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPropertiesYAMLOverridesOnlyMentionedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "props.yaml")
	contents := "buffer: 10\ntest_card: colorbars\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	props := NewPropertyBag()
	applyNormalisationDefaults(props)
	props.Set("buffer", 25) // overwritten by the loaded file below

	if err := LoadPropertiesYAML(path, props); err != nil {
		t.Fatalf("LoadPropertiesYAML: %v", err)
	}

	if got := props.GetInt("buffer"); got != 10 {
		t.Fatalf("buffer = %d, want 10", got)
	}
	if got := props.GetString("test_card"); got != "colorbars" {
		t.Fatalf("test_card = %q, want colorbars", got)
	}
	// fps wasn't mentioned in the file; the normalisation default
	// should survive untouched.
	if got := props.GetFloat("fps"); got != 25.0 {
		t.Fatalf("fps = %v, want the untouched PAL default 25.0", got)
	}
}

func TestDumpThenLoadPropertiesYAMLRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.yaml")

	props := NewPropertyBag()
	applyNormalisationDefaults(props)
	props.Set("ante", "echo start")
	props.Set("post", "echo stop")

	if err := DumpPropertiesYAML(path, props); err != nil {
		t.Fatalf("DumpPropertiesYAML: %v", err)
	}

	loaded := NewPropertyBag()
	if err := LoadPropertiesYAML(path, loaded); err != nil {
		t.Fatalf("LoadPropertiesYAML: %v", err)
	}

	if got := loaded.GetString("ante"); got != "echo start" {
		t.Fatalf("ante = %q, want %q", got, "echo start")
	}
	if got := loaded.GetString("post"); got != "echo stop" {
		t.Fatalf("post = %q, want %q", got, "echo stop")
	}
	if got := loaded.GetInt("buffer"); got != props.GetInt("buffer") {
		t.Fatalf("buffer = %d, want %d", got, props.GetInt("buffer"))
	}
}

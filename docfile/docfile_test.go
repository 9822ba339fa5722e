package docfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWrite_PrettyAndAtomic(t *testing.T) {
	// WHAT: Documents are written pretty-printed with 2-space indent and no
	// .tmp file is left behind.
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "doc.json")

	if err := Write(path, map[string]any{"a": []int{1, 2}}); err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "\n  \"a\"") {
		t.Errorf("not pretty-printed: %q", raw)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("tmp file left behind")
	}

	var back map[string][]int
	if err := Read(path, &back); err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(back["a"]) != 2 {
		t.Errorf("roundtrip: got %+v", back)
	}
}

package machine

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// findROMs recursively collects .gb files under dir. GBC-only ROMs are
// skipped at the machine level (CGB mode is an explicit non-goal).
func findROMs(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".gb") {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

// runBlargg steps a test ROM one instruction at a time until it reports
// pass/fail over the serial port, or maxSteps is exhausted.
func runBlargg(t *testing.T, romPath string, maxSteps int) {
	t.Helper()
	rom, err := os.ReadFile(romPath)
	if err != nil {
		t.Fatalf("read ROM: %v", err)
	}

	m := New()
	if err := m.LoadCartridge(rom); err != nil {
		t.Fatalf("load ROM: %v", err)
	}
	m.PowerOn()

	var buf bytes.Buffer
	m.SetSerialWriter(&buf)

	for i := 0; i < maxSteps; i++ {
		ok, err := m.Step()
		if !ok {
			t.Fatalf("%s: step failed: %v", filepath.Base(romPath), err)
		}
		out := buf.String()
		if strings.Contains(strings.ToLower(out), "passed") {
			return
		}
		if strings.Contains(strings.ToLower(out), "failed") {
			t.Fatalf("%s reported failure via serial:\n%s", filepath.Base(romPath), out)
		}
	}
	t.Fatalf("timeout waiting for serial 'Passed' in %s; last output:\n%s", filepath.Base(romPath), buf.String())
}

// TestBlargg scans testroms/blargg (or BLARGG_DIR) and runs every .gb ROM
// found through to a pass/fail serial report. Opt-in: blargg's test ROMs
// are not part of this repository, so this is a no-op unless a host points
// it at a local copy.
func TestBlargg(t *testing.T) {
	if os.Getenv("RUN_BLARGG") == "" {
		t.Skip("set RUN_BLARGG=1 and point BLARGG_DIR at a blargg test-rom checkout to run")
	}

	base := os.Getenv("BLARGG_DIR")
	if base == "" {
		var root string
		if _, file, _, ok := runtime.Caller(0); ok {
			dir := filepath.Dir(file)
			for {
				if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
					root = dir
					break
				}
				parent := filepath.Dir(dir)
				if parent == dir {
					break
				}
				dir = parent
			}
		}
		if root == "" {
			root, _ = os.Getwd()
		}
		base = filepath.Join(root, "testroms", "blargg")
	}
	if _, err := os.Stat(base); err != nil {
		t.Skipf("blargg ROM dir missing: %s", base)
	}

	roms, err := findROMs(base)
	if err != nil {
		t.Fatalf("scan ROMs: %v", err)
	}
	if len(roms) == 0 {
		t.Skipf("no ROMs found in %s", base)
	}

	maxSteps := 200_000_000
	if v := os.Getenv("BLARGG_MAX_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxSteps = n
		}
	}

	for _, rom := range roms {
		rom := rom
		name := strings.TrimSuffix(filepath.Base(rom), filepath.Ext(rom))
		t.Run(name, func(t *testing.T) { runBlargg(t, rom, maxSteps) })
	}
}

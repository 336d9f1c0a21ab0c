package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestVerboseToggle(t *testing.T) {
	capture(t)

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels_Verbose(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Debug("chunked %d windows", 3)
	Info("indexed %s", "notes.md")
	Warn("skipping %s", "broken.txt")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] chunked 3 windows\n")
	assert.Contains(t, out, "[INFO] indexed notes.md\n")
	assert.Contains(t, out, "[WARN] skipping broken.txt\n")
}

func TestDebugInfo_Silent(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Debug("hidden")
	Info("also hidden")

	assert.Zero(t, buf.Len())
}

func TestWarn_AlwaysPrints(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Warn("watch folder missing: %s", "/tmp/nope")

	assert.Equal(t, "[WARN] watch folder missing: /tmp/nope\n", buf.String())
}

func TestSection(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Section("Routing")

	assert.Equal(t, "\n=== Routing ===\n", buf.String())
}

func TestSection_Silent(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Section("Routing")

	assert.Zero(t, buf.Len())
}

func TestConcurrentAccess(t *testing.T) {
	capture(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			SetVerbose(true)
			Debug("worker %d", n)
			IsVerbose()
			SetVerbose(false)
		}(i)
	}
	wg.Wait()
}

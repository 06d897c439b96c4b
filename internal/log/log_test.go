package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stderr)

	logger := New("logtest")
	logger.Infof("hidden %d", 1)
	logger.Warningf("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message written at notice level: %q", out)
	}
	if !strings.Contains(out, "shown 2") || !strings.Contains(out, "[logtest]") {
		t.Fatalf("warning message missing module tag or text: %q", out)
	}

	buf.Reset()
	SetLevel(Debug)
	logger.Debugf("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Fatalf("debug message not written after SetLevel(Debug): %q", buf.String())
	}
}

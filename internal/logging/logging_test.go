package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{JSON: true, Out: &buf})
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger := WithComponent("timeline")
	logger.Info().Int("clips", 3).Msg("loaded")
	logger.Debug().Msg("hidden")

	out := buf.String()
	if !strings.Contains(out, `"component":"timeline"`) || !strings.Contains(out, `"clips":3`) {
		t.Errorf("unexpected output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug line written at info level")
	}
}

func TestInitVerboseConsole(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Verbose: true, Out: &buf})
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger := WithComponent("clock")
	logger.Debug().Msg("tick")
	if !strings.Contains(buf.String(), "tick") {
		t.Errorf("debug line missing in verbose mode: %q", buf.String())
	}
	if isTerminal(&buf) {
		t.Error("buffer reported as terminal")
	}
}

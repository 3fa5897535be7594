package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInit(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	logger, runID := Init(zerolog.WarnLevel, &buf)

	if _, err := uuid.Parse(runID); err != nil {
		t.Errorf("run ID %q is not a UUID: %v", runID, err)
	}

	logger.Info().Msg("hidden message")
	log.Warn().Msg("shown message")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown message") {
		t.Errorf("global logger not replaced: %q", out)
	}
	if !strings.Contains(out, runID) {
		t.Errorf("output missing run_id %s: %q", runID, out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("colour codes written to a non-terminal: %q", out)
	}
}

func TestInit_DistinctRunIDs(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	_, a := Init(zerolog.InfoLevel, &bytes.Buffer{})
	_, b := Init(zerolog.InfoLevel, &bytes.Buffer{})
	if a == b {
		t.Errorf("Init() returned the same run ID twice: %s", a)
	}
}

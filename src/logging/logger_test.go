package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	saved := baseLogger
	baseLogger = newLogger(zapcore.AddSync(&buf))
	savedLevel := atomicLevel.Level()
	t.Cleanup(func() {
		baseLogger = saved
		atomicLevel.SetLevel(savedLevel)
	})
	return &buf
}

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("info")

	msg := "[bench] human.txt chunk 12/40 done (30.0% of 20000 bases) patterns=4"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(30.0% of 20000 bases)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "%!o(MISSING)") || strings.Contains(out, "%!f(MISSING)") {
		t.Fatalf("log output still shows fmt artifact: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("warn")

	Debugf("debug %d", 1)
	Infof("info %d", 2)
	Warnf("warn %d", 3)
	Errorf("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Fatalf("messages below warn were not filtered: %s", out)
	}
	if !strings.Contains(out, "warn 3") || !strings.Contains(out, "error 4") {
		t.Fatalf("expected warn and error messages: %s", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "ERROR") {
		t.Fatalf("expected level names in output: %s", out)
	}
}

func TestSetLogLevel_UnknownIgnored(t *testing.T) {
	captureLogs(t)
	SetLogLevel("debug")
	SetLogLevel("verbose")
	if got := GetLogLevel(); got != LevelDebug {
		t.Fatalf("unknown level changed state: got %v", got)
	}
	SetLogLevel(" Warning ")
	if got := GetLogLevel(); got != LevelWarn {
		t.Fatalf("expected warn, got %v", got)
	}
}

package monitoring

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"quiet", LevelQuiet},
		{"ops", LevelOps},
		{" Diag ", LevelDiag},
		{"TRACE", LevelTrace},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if got.String() != strings.ToLower(strings.TrimSpace(tt.in)) {
			t.Errorf("String() = %q", got.String())
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
	if s := Level(9).String(); s != "Level(9)" {
		t.Errorf("String() = %q", s)
	}
}

func TestWritersFor(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var buf bytes.Buffer
	var logged []string
	SetLogger(func(format string, v ...interface{}) {
		logged = append(logged, format)
	})

	lw := WritersFor(LevelQuiet, &buf)
	if lw.Ops != nil || lw.Diag != nil || lw.Trace != nil {
		t.Errorf("quiet should disable every stream, got %+v", lw)
	}

	lw = WritersFor(LevelOps, &buf)
	if lw.Ops == nil || lw.Diag != nil || lw.Trace != nil {
		t.Errorf("ops level streams = %+v", lw)
	}

	lw = WritersFor(LevelDiag, &buf)
	if lw.Ops == nil || lw.Diag == nil || lw.Trace != nil {
		t.Errorf("diag level streams = %+v", lw)
	}

	lw = WritersFor(LevelTrace, &buf)
	if lw.Trace == nil {
		t.Error("trace level should enable trace stream")
	}

	Logf("still installed")
	if len(logged) != 1 {
		t.Errorf("WritersFor must leave Logf alone, logged %q", logged)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should reach the stream writer, got %q", buf.String())
	}
}

func TestLoggerFor(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var buf bytes.Buffer
	for _, l := range []Level{LevelQuiet, LevelOps} {
		if f := LoggerFor(l, &buf); f != nil {
			t.Errorf("LoggerFor(%v) should be nil", l)
		}
	}

	SetLogger(LoggerFor(LevelQuiet, &buf))
	Logf("muted")
	if buf.Len() != 0 {
		t.Errorf("Logf should be muted at quiet, wrote %q", buf.String())
	}

	SetLogger(LoggerFor(LevelDiag, &buf))
	Logf("wrote %s", "manifest")
	if !strings.Contains(buf.String(), "wrote manifest") {
		t.Errorf("Logf should write at diag, got %q", buf.String())
	}
}

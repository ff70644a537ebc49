package rclog

import "testing"

type captureSink struct {
	level Level
	msg   string
}

func (s *captureSink) Output(callDepth int, l Level, msg string) {
	s.level = l
	s.msg = msg
}

func TestLevelFiltering(t *testing.T) {
	sink := &captureSink{}
	l := NewSink(WarnLevel, sink)
	l.Info("should be filtered")
	if sink.msg != "" {
		t.Fatalf("Info below WarnLevel should be filtered, got %q", sink.msg)
	}
	l.Warn("should pass")
	if sink.msg != "should pass" {
		t.Fatalf("msg = %q, want %q", sink.msg, "should pass")
	}
	if sink.level != WarnLevel {
		t.Fatalf("level = %v, want WarnLevel", sink.level)
	}
}

func TestLevelFromString(t *testing.T) {
	l, err := LevelFromString("ERROR")
	if err != nil || l != ErrorLevel {
		t.Fatalf("LevelFromString(ERROR) = %v, %v", l, err)
	}
	if _, err := LevelFromString("bogus"); err == nil {
		t.Fatal("expected error for unknown level name")
	}
}

func TestDiscardNeverOutputs(t *testing.T) {
	sink := &captureSink{}
	l := NewSink(DebugLevel, sink)
	l = Discard
	l.Error("should never appear")
	if sink.msg != "" {
		t.Fatal("Discard should never reach the sink")
	}
}

func TestNamedTagsMessages(t *testing.T) {
	sink := &captureSink{}
	l := NewSink(DebugLevel, sink)
	l.Named("atomiccell").Debug("contended")
	if sink.msg != "atomiccell: contended" {
		t.Fatalf("msg = %q, want %q", sink.msg, "atomiccell: contended")
	}
}

func TestNamedNestsComponents(t *testing.T) {
	sink := &captureSink{}
	l := NewSink(DebugLevel, sink)
	l.Named("handle").Named("weak").Debug("expired")
	if sink.msg != "handle.weak: expired" {
		t.Fatalf("msg = %q, want %q", sink.msg, "handle.weak: expired")
	}
}

func TestDiscardNamedStillSilent(t *testing.T) {
	l := Discard.Named("handle").(*logger)
	if l.sink != nil {
		t.Fatal("Named child of Discard should inherit its nil sink")
	}
	l.Error("should never panic or output anywhere")
}

func TestDefaultSetAndGet(t *testing.T) {
	sink := &captureSink{}
	custom := NewSink(DebugLevel, sink)
	SetDefault(custom)
	defer SetDefault(New(WarnLevel, nopWriter{}))
	Default().Debug("hello")
	if sink.msg != "hello" {
		t.Fatalf("msg = %q, want hello", sink.msg)
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

package errors

import (
	"io"
	"strings"
	"testing"
)

func TestABCInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"plain registered error": {
			err:      ErrNotFound,
			debug:    false,
			wantLog:  "not found",
			wantCode: ErrNotFound.code,
		},
		"wrapped registered error": {
			err:      Wrap(Wrap(ErrNotFound, "foo"), "bar"),
			debug:    false,
			wantLog:  "bar: foo: not found",
			wantCode: ErrNotFound.code,
		},
		"nil is empty message": {
			err:      nil,
			debug:    false,
			wantLog:  "",
			wantCode: 0,
		},
		"nil registered error is not an error": {
			err:      (*Error)(nil),
			debug:    false,
			wantLog:  "",
			wantCode: 0,
		},
		"stdlib is generic message": {
			err:      io.EOF,
			debug:    false,
			wantLog:  "internal error",
			wantCode: 1,
		},
		"stdlib returns error message in debug mode": {
			err:      io.EOF,
			debug:    true,
			wantLog:  "EOF",
			wantCode: 1,
		},
		"panic value is hidden": {
			err:      Wrap(ErrPanic, "secret"),
			debug:    false,
			wantLog:  "panic",
			wantCode: ErrPanic.code,
		},
		"panic value is shown in debug mode": {
			err:      Wrap(ErrPanic, "secret"),
			debug:    true,
			wantLog:  "secret: panic",
			wantCode: ErrPanic.code,
		},
		"wrapped stdlib is only a generic message": {
			err:      Wrap(io.EOF, "cannot read file"),
			debug:    false,
			wantLog:  "internal error",
			wantCode: 1,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if !strings.HasPrefix(log, tc.wantLog) || (!tc.debug && log != tc.wantLog) {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestABCIInfoDebugContainsStack(t *testing.T) {
	_, log := ABCIInfo(Wrap(io.EOF, "cannot read file"), true)
	if !strings.HasPrefix(log, "cannot read file: EOF") {
		t.Fatalf("unexpected log %q", log)
	}
	if !strings.Contains(log, "TestABCIInfoDebugContainsStack") {
		t.Fatalf("debug log must contain the stack trace: %q", log)
	}
}

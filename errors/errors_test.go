package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

var (
	errTimeout = Register(90001, "timeout")
	errGone    = Register(90002, "gone")
)

func TestCause(t *testing.T) {
	std := stdlib.New("this is a stdlib error")

	cases := map[string]struct {
		err  error
		root error
	}{
		"errors are self-causing": {
			err:  errTimeout,
			root: errTimeout,
		},
		"wrap reveals root cause": {
			err:  Wrap(errTimeout, "foo"),
			root: errTimeout,
		},
		"cause works for stderr as root": {
			err:  Wrap(std, "some helpful text"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      errTimeout,
			b:      errTimeout,
			wantIs: true,
		},
		"two different coded errors": {
			a:      errTimeout,
			b:      errGone,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      errTimeout,
			b:      Wrap(errTimeout, "too slow"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      errTimeout,
			b:      Wrap(errGone, "long gone"),
			wantIs: false,
		},
		"not equal to stdlib error": {
			a:      errTimeout,
			b:      fmt.Errorf("stdlib error"),
			wantIs: false,
		},
		"not equal to a wrapped stdlib error": {
			a:      errTimeout,
			b:      Wrap(fmt.Errorf("stdlib error"), "wrapped"),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is any error nil": {
			a:      nil,
			b:      (*customError)(nil),
			wantIs: true,
		},
		"nil is not not-nil": {
			a:      nil,
			b:      errTimeout,
			wantIs: false,
		},
		"not-nil is not nil": {
			a:      errTimeout,
			b:      nil,
			wantIs: false,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result: %v", got)
			}
		})
	}
}

type customError struct{}

func (customError) Error() string {
	return "custom error"
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "ignored"); err != nil {
		t.Fatalf("want nil, got %+v", err)
	}
}

func TestWrapPreservesStacktraceOnce(t *testing.T) {
	err := Wrap(Wrap(errTimeout, "inner"), "outer")
	trace := fmt.Sprintf("%+v", err)
	if want := "errors_test.go"; !strings.Contains(trace, want) {
		t.Fatalf("stack trace not found in %q", trace)
	}
}

func TestRegisterPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	Register(90001, "duplicate code")
}

func TestRecover(t *testing.T) {
	var err error
	func() {
		defer Recover(&err)
		panic("kaboom")
	}()
	if !ErrPanic.Is(err) {
		t.Fatalf("want ErrPanic, got %+v", err)
	}
}

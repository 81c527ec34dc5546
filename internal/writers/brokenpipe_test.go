package writers

import (
	"errors"
	"io"
	"syscall"
	"testing"
)

func TestIsBrokenPipe(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"epipe", syscall.EPIPE, true},
		{"epipe message text only", errors.New("write: broken pipe"), false},
		{"closed pipe", io.ErrClosedPipe, true},
		{"unrelated", errors.New("boom"), false},
	}
	for _, c := range cases {
		if got := IsBrokenPipe(c.err); got != c.want {
			t.Errorf("%s: IsBrokenPipe(%v) = %v, want %v", c.name, c.err, got, c.want)
		}
	}
}

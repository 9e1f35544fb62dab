package cdr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			"registration",
			&Error{Op: "RegisterSimpleChannel", Code: -1, Err: ErrRegistration},
			"cdr.RegisterSimpleChannel: registration failed (errcode -1)",
		},
		{
			"invalid with detail",
			&Error{Op: "NewSegmentBuffer", Err: ErrInvalidConfig, Detail: "unsupported element width 3"},
			"cdr.NewSegmentBuffer: invalid configuration: unsupported element width 3",
		},
		{
			"load",
			&Error{Op: "Open", Err: ErrLoad, Detail: "load libcdr.so: not found"},
			"cdr.Open: library load failed: load libcdr.so: not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorClassification(t *testing.T) {
	err := fmt.Errorf("poll channel: %w", &Error{Op: "GetChannelValue", Code: 2, Err: ErrOperation})

	assert.True(t, errors.Is(err, ErrOperation))
	assert.False(t, errors.Is(err, ErrRegistration))

	code, ok := Code(err)
	assert.True(t, ok)
	assert.Equal(t, 2, code)

	_, ok = Code(errors.New("plain"))
	assert.False(t, ok)
	_, ok = Code(&Error{Op: "Open", Err: ErrLoad})
	assert.False(t, ok)
}

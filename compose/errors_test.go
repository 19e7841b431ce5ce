package compose

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("handler: %w", newError(KindInvalidColor, "bad", nil))
	assert.ErrorIs(t, err, ErrInvalidColor)
	assert.NotErrorIs(t, err, ErrDecode)
	assert.Equal(t, KindInvalidColor, KindOf(err))
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := newError(KindSegmentation, "segment image", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "segment image: boom", err.Error())
}

func TestKindOf_Unknown(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestIsClientError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want bool
	}{
		{KindDecode, true},
		{KindInvalidEncoding, true},
		{KindInvalidColor, true},
		{KindInvalidBackground, true},
		{KindComposition, false},
		{KindSegmentation, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsClientError(newError(tt.kind, "x", nil)))
		})
	}
	assert.False(t, IsClientError(errors.New("plain")))
}

package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_IsKindAndMessage(t *testing.T) {
	err := New(ErrNotFound, MsgUserNotFound)
	require.ErrorIs(t, err, ErrNotFound)
	require.NotErrorIs(t, err, ErrInvalidToken)
	require.Equal(t, MsgUserNotFound, err.Error())

	wrapped := fmt.Errorf("load user: %w", err)
	require.ErrorIs(t, wrapped, ErrNotFound)
	require.Equal(t, MsgUserNotFound, Message(wrapped))
}

func TestError_EmptyMessageFallsBackToKind(t *testing.T) {
	err := New(ErrInvalidParameter, "")
	require.Equal(t, ErrInvalidParameter.Error(), err.Error())
	require.Equal(t, "boom", Message(errors.New("boom")))
}

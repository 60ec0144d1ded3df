package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasErrorPrefix(t *testing.T) {
	cases := map[string]bool{
		"Error: boom":             true,
		"error: lower":            true,
		"ERROR:":                  true,
		"Error en el servidor: x": false,
		"Usuario registrado":      false,
		"":                        false,
		"Err":                     false,
	}
	for msg, want := range cases {
		require.Equal(t, want, HasErrorPrefix(msg), "message %q", msg)
	}
}

func TestMessageWrapped(t *testing.T) {
	base := &Error{Kind: KindRejected, Op: "register", StatusCode: 404, Detail: "Not Found"}
	wrapped := fmt.Errorf("service: %w", base)
	require.Equal(t, "Error: Not Found", Message(wrapped))
	require.Equal(t, KindRejected, KindOf(wrapped))
}

func TestMessagePlainError(t *testing.T) {
	require.Equal(t, "", Message(nil))
	require.Equal(t, "Error: boom", Message(errors.New("boom")))
	require.Equal(t, Kind(0), KindOf(errors.New("boom")))
}

func TestErrorString(t *testing.T) {
	err := &Error{Kind: KindServer, Op: "register", StatusCode: 500, Err: ErrEmailTaken}
	require.Equal(t, "register: server (500): user with the provided email already exists", err.Error())
	require.Equal(t, "decode", KindDecode.String())
}

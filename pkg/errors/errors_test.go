package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		msg      string
		expected string
	}{
		{name: "nil error stays nil", err: nil, msg: "loading catalog"},
		{name: "sentinel", err: ErrPackageNotFound, msg: "resolving com.example.Editor", expected: "resolving com.example.Editor: unknown package"},
		{name: "empty message", err: errors.New("boom"), msg: "", expected: ": boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrap(tt.err, tt.msg)
			if tt.err == nil {
				assert.NoError(t, result)
				return
			}
			require.Error(t, result)
			assert.Equal(t, tt.expected, result.Error())
			assert.ErrorIs(t, result, tt.err)
		})
	}
}

func TestWrapf(t *testing.T) {
	assert.NoError(t, Wrapf(nil, "installing %s", "x"))

	err := Wrapf(ErrChecksumMismatch, "downloading %s %s", "com.example.Lib", "1.5")
	require.Error(t, err)
	assert.Equal(t, "downloading com.example.Lib 1.5: checksum mismatch", err.Error())
	assert.ErrorIs(t, err, ErrChecksumMismatch)
	assert.NotErrorIs(t, err, ErrDownloadFailed)
}

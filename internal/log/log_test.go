// SPDX-License-Identifier: Unlicense OR MIT

package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	l, err := New("")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))

	l, err = New("warn")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	_, err = New("chatty")
	assert.Error(t, err)
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)
	l := zap.NewExample()
	SetLogger(l)
	assert.Same(t, l, Logger())
	SetLogger(nil)
	assert.NotSame(t, l, Logger())
	assert.False(t, Logger().Core().Enabled(zapcore.ErrorLevel))
}

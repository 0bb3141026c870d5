// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"go.uber.org/zap"
)

// Option configures an Engine.
type Option func(e *Engine)

// WithLogger directs engine logging to l.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithShaderAnalyzer installs the collaborator that preprocesses and
// reflects shader sources at compile time.
func WithShaderAnalyzer(a ShaderAnalyzer) Option {
	return func(e *Engine) {
		e.analyzer = a
	}
}

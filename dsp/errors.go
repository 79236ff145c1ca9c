// SPDX-License-Identifier: EPL-2.0

package dsp

import "errors"

var (
	ErrDuplicateEffect  = errors.New("effect id already in chain")
	ErrUnknownEffect    = errors.New("unknown effect")
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrUnknownFilter    = errors.New("unknown filter type")
)

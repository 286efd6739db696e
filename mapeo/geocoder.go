// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"context"
)

// Geocodificador is an external geocoding provider. Implementations return
// at most one candidate; a miss is a nil candidate, not an error. Errors are
// reserved for transport and protocol failures, and the cascade treats them
// the same as a miss anyway.
type Geocodificador interface {
	Geocodificar(ctx context.Context, direccion string) (*Candidato, error)
}

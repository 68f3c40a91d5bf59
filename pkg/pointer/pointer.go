// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer helps with the optional (*T) fields of partial-update payloads.
package pointer

// To returns a pointer to v.
func To[T any](v T) *T {
	return &v
}

// Fallback returns *p, or current when the field was not sent.
func Fallback[T any](p *T, current T) T {
	if p == nil {
		return current
	}
	return *p
}

// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package leadership

import "context"

type Repository interface {
	// Get returns the message or NOT_FOUND before the first save.
	Get(ctx context.Context) (*Message, error)
	Upsert(ctx context.Context, m *Message) error
}

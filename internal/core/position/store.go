// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package position

import "context"

type Repository interface {
	// List returns positions by sort order; activeOnly hides closed ones.
	List(ctx context.Context, activeOnly bool) ([]*Position, error)
	FindByID(ctx context.Context, id string) (*Position, error)
	Create(ctx context.Context, p *Position) error
	Update(ctx context.Context, p *Position) error
	Delete(ctx context.Context, id string) error
}

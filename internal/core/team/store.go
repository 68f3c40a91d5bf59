// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package team

import "context"

type Repository interface {
	List(ctx context.Context, activeOnly bool) ([]*Member, error)
	FindByID(ctx context.Context, id string) (*Member, error)
	Create(ctx context.Context, m *Member) error
	Update(ctx context.Context, m *Member) error
	Delete(ctx context.Context, id string) error
}

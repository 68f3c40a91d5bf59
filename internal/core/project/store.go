// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import "context"

type Repository interface {
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Project, int, error)
	ListPublished(ctx context.Context) ([]*Project, error)
	FindByID(ctx context.Context, id string) (*Project, error)
	FindBySlug(ctx context.Context, slug string) (*Project, error)
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) error
}

// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package document

import "context"

type Repository interface {
	List(ctx context.Context, filter Filter) ([]*Document, error)
	FindByID(ctx context.Context, id string) (*Document, error)
	Create(ctx context.Context, d *Document) error
	Update(ctx context.Context, d *Document) error
	Delete(ctx context.Context, id string) error
}

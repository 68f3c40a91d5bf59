// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package brochure

import (
	"context"

	"github.com/taibuivan/pipemill/internal/core/group"
)

// Repository is the brochure store. Besides the per-row operations the group
// workflow needs, it can run several writes in one transaction.
type Repository interface {
	group.Store[*Brochure]
	group.Transactor[*Brochure]

	// List returns a filtered page of rows and the total count, newest first.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Brochure, int, error)

	// ListPublished returns every row visible on the public site.
	ListPublished(ctx context.Context) ([]*Brochure, error)
}

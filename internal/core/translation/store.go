// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package translation

import (
	"context"
	"time"
)

// JobStore keeps jobs between the translate request and the editor's decision.
//
// Jobs expire after ttl; an expired job behaves as if it never existed.
type JobStore interface {

	/*
		Save stores job, replacing any job with the same ID.

		Parameters:
		  - ctx: context.Context
		  - job: *Job
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Save(ctx context.Context, job *Job, ttl time.Duration) error

	/*
		Get returns the job with the given ID.

		Returns:
		  - *Job: Decoded job
		  - error: apperr.NotFound when absent or expired
	*/
	Get(ctx context.Context, id string) (*Job, error)

	// Take returns the job and removes it in one step, so of two concurrent
	// callers only one receives it. The other gets apperr.NotFound.
	Take(ctx context.Context, id string) (*Job, error)
}

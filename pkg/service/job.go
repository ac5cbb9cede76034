package service

import (
	"context"
	"fmt"
)

type Job interface {
	Init(ctx context.Context) error
	Run(ctx context.Context) error
	CleanUp(ctx context.Context) error
}

// RunJob drives a job through its lifecycle. CleanUp runs whenever Init
// succeeded, even if Run failed.
func RunJob(ctx context.Context, job Job) (err error) {
	if err := job.Init(ctx); err != nil {
		return fmt.Errorf("init job: %w", err)
	}

	defer func() {
		if cerr := job.CleanUp(ctx); cerr != nil && err == nil {
			err = fmt.Errorf("cleanup job: %w", cerr)
		}
	}()

	if err := job.Run(ctx); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	return nil
}

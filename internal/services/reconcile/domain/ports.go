package domain

import "context"

// RunnerPort is the public port exposed by the reconcile module
type RunnerPort interface {
	// Run executes one full regeneration and returns the reconciled result
	Run(ctx context.Context) (*Result, error)
}

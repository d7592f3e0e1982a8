package cron

import (
	"context"
	"errors"
)

const (
	workspaceSweepJobName = "workspace_sweep"
	statePurgeJobName     = "browser_state_purge"
)

type workspaceSweeper interface {
	Sweep(ctx context.Context) int
}

type statePurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// WorkspaceSweepJob evicts idle in-memory workspaces on this instance.
type WorkspaceSweepJob struct {
	sweeper workspaceSweeper
}

func NewWorkspaceSweepJob(sweeper workspaceSweeper) (*WorkspaceSweepJob, error) {
	if sweeper == nil {
		return nil, errors.New("workspace sweeper required")
	}
	return &WorkspaceSweepJob{sweeper: sweeper}, nil
}

func (j *WorkspaceSweepJob) Name() string { return workspaceSweepJobName }

func (j *WorkspaceSweepJob) Run(ctx context.Context) (int, error) {
	return j.sweeper.Sweep(ctx), nil
}

// StatePurgeJob deletes expired browser state rows from the shared database.
type StatePurgeJob struct {
	purger statePurger
}

func NewStatePurgeJob(purger statePurger) (*StatePurgeJob, error) {
	if purger == nil {
		return nil, errors.New("state purger required")
	}
	return &StatePurgeJob{purger: purger}, nil
}

func (j *StatePurgeJob) Name() string { return statePurgeJobName }

func (j *StatePurgeJob) Exclusive() bool { return true }

func (j *StatePurgeJob) Run(ctx context.Context) (int, error) {
	n, err := j.purger.PurgeExpired(ctx)
	return int(n), err
}

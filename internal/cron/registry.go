package cron

import "context"

// Job is one housekeeping task. Run reports how many items it handled.
type Job interface {
	Name() string
	Run(ctx context.Context) (int, error)
}

// Exclusive marks jobs that touch shared state and must run on one instance
// at a time. Jobs without it run on every instance each cycle.
type Exclusive interface {
	Exclusive() bool
}

// Registry tracks registered jobs.
type Registry struct {
	jobs []Job
}

func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{}
	for _, job := range jobs {
		registry.Register(job)
	}
	return registry
}

// Register adds a job to the registry.
func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	r.jobs = append(r.jobs, job)
}

// Jobs returns the registered jobs in the order they were added.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}

func isExclusive(job Job) bool {
	ex, ok := job.(Exclusive)
	return ok && ex.Exclusive()
}

package pipeline

import "github.com/nao1215/regreport/internal/model"

// Job carries one fitted model document through the pipeline. Each step
// reads what earlier steps left on the job and adds its own outcome.
type Job struct {
	// Source is the path of the fitted model document.
	Source string

	// Model is the decoded fitted model.
	Model *model.FittedModel

	// Result is the composed report.
	Result *model.Result

	// RunID is the history id of the stored result, empty when not saved.
	RunID string

	// Duplicates lists earlier runs whose report text is identical.
	Duplicates []string

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string

	// Err is the error that stopped the job, nil on success.
	Err error
}

// NewJob creates a job for a fitted model document.
func NewJob(source string) *Job {
	return &Job{Source: source}
}

// Failed reports whether a step failed.
func (j *Job) Failed() bool {
	return j.Err != nil
}

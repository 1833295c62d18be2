// Package pipeline provides a framework for executing render steps in
// sequence.
//
// A fitted model document goes through the stages load, validate,
// generate and save. Each stage is a Step that receives the current Job
// and adds its outcome to it.
//
// The pipeline supports both single documents and batch processing of
// several documents with concurrency control using errgroup. Each report
// is still composed on a single goroutine.
package pipeline

// Package pipeline provides a framework for executing extraction steps in
// sequence.
//
// The pipeline pattern is used to process a pasted publication block through
// multiple stages: optional HTML stripping, record extraction, and summary
// generation. Each stage is implemented as a Step that receives the current
// report and can modify it.
//
// The pipeline supports both single-input runs and batch processing of
// multiple input files with concurrency control using errgroup.
package pipeline

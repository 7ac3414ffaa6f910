// Package pipeline provides a framework for executing scan steps in sequence.
//
// A scan runs three steps against a model.ScanReport: the URL heuristics,
// the content heuristics and the verdict that combines them. Each step is
// implemented as a Step that receives the current report and fills in its
// part.
//
// Design decision: We keep the pipeline pattern even though every step is
// a pure function because:
// 1. It gives consistent logging and error recording across steps
// 2. It supports cancellation via context between steps
// 3. Callers (CLI, HTTP API) can add steps without touching the analyzers
//
// The pipeline supports both individual scans and batch processing with
// concurrency control using errgroup.
package pipeline

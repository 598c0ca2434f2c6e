// Package processor contains the core flow of txcv. It builds the
// translation provider from stored credentials, runs batches through the
// rate-limited scheduler, and drives the pipe and interactive modes,
// printing every translation and recording it in the history.
package processor

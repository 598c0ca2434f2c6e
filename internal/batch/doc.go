// Package batch runs word translations concurrently behind a shared token
// bucket and hands the results back in input order. It also reads word
// lists from files and pipes.
package batch

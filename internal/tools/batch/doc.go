// Package batch collects per-item results for tools that operate on a
// list of ids, such as the thread export tool. It parses id-list
// arguments that arrive as a string or an array, runs the operation per
// id, and reports partial failures without aborting the batch.
package batch

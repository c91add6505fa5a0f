// Package watcher classifies files as they land in an inbox directory.
//
// Filesystem events from fsnotify are debounced per path so that a file
// still being written is classified once, after it goes quiet. A token
// bucket limits how many files are classified per second when a large
// batch arrives at once.
package watcher

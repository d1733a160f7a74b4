// publish.go -- atomic publication of a frozen table file
//
// Section 6's caller contract spells out the pattern in prose ("write to
// temp file, close(), rename"); this turns it into one call, grounded on
// calvinalkan-agent-task/internal/fs/real.go's WriteFileAtomic wrapper
// around the same library.
package ftstable

import "github.com/natefinch/atomic"

// PublishAtomic renames tmpPath onto finalPath such that any concurrent
// reader either sees the old finalPath (if it existed) or the complete
// new one -- never a partially written file. Both paths must be on the
// same filesystem for the rename to be atomic.
func PublishAtomic(tmpPath, finalPath string) error {
	return atomic.ReplaceFile(tmpPath, finalPath)
}

// Package recycle frees source-tree space after successful enrichment by
// moving original recordings to the system trash, never deleting outright.
package recycle

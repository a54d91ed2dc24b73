// Package session is the host-side owner of an editable graph. It applies
// structured edit events, tracks the active node, and keeps an output cache
// across evaluations, dropping the entries an edit makes stale.
//
// A Session is safe for concurrent use; events typically arrive on transport
// goroutines.
package session

// Package approval maps admin review tasks onto the backend operations that
// approve, reject or promote them. The backend owns every state transition;
// a successful dispatch is always followed by a full task refetch so the
// caller sees whatever state the backend settled on.
package approval

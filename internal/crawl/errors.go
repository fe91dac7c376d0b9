package crawl

import "errors"

var (
	// ErrAlreadyRunning is returned to a trigger caller when a cycle is
	// in flight. The in-flight crawl is left untouched.
	ErrAlreadyRunning = errors.New("a crawl is already running")

	// ErrPersistence wraps store failures that must reach the caller,
	// notably a failed crawl-run history write: losing history silently
	// would corrupt the ETA historical path.
	ErrPersistence = errors.New("persistence failure")
)

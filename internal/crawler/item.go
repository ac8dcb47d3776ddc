package crawler

import (
	"emperror.dev/errors"
)

// ItemResult is the outcome of processing one owner or repository.
type ItemResult struct {
	Subject string
	Records int
	Err     error
}

func (r ItemResult) OK() bool {
	return r.Err == nil
}

// isolate runs fn for one item. A panic is turned into the item's error so the loop can go on.
func isolate(subject string, fn func() (int, error)) (result ItemResult) {
	result.Subject = subject
	defer func() {
		if p := recover(); p != nil {
			result.Err = errors.Errorf("panic while processing %s: %v", subject, p)
		}
	}()

	result.Records, result.Err = fn()
	return result
}

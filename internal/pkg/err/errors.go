package err

import "github.com/pkg/errors"

// ErrNotFound indicates a missing job, transcript or storage object
var ErrNotFound = errors.New("not found")

// IsNotFound tests the error chain for ErrNotFound
func IsNotFound(e error) bool {
	return errors.Is(e, ErrNotFound)
}

package encoding

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"

	"vidfit/internal/services"
)

// lockOutput takes an advisory lock next to output so concurrent runs cannot
// write the same file. The returned release function removes the lock file.
func lockOutput(output string) (func(), error) {
	lockPath := output + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrUnexpected, stageName, "lock output", "failed to acquire output lock", err)
	}
	if !ok {
		return nil, services.Wrap(
			services.ErrValidation,
			stageName,
			"lock output",
			fmt.Sprintf("%s is being written by another vidfit run", output),
			nil,
		)
	}
	return func() {
		_ = lock.Unlock()
		_ = os.Remove(lockPath)
	}, nil
}

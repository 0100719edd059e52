package commands

import (
	"errors"
	"fmt"
	"io"

	"todocat/internal/exitcode"
	"todocat/internal/service"
)

// reportFailure prints a scoped failure message with its cause and returns
// the exit code for err. Rejected requests (4xx) are user errors; transport
// failures and server errors are backend errors.
func reportFailure(errOut io.Writer, msg string, err error) int {
	fmt.Fprintf(errOut, "error: %s (%v)\n", msg, err)
	return exitCodeFor(err)
}

func exitCodeFor(err error) int {
	var reqErr *service.RequestError
	if errors.As(err, &reqErr) && reqErr.Status >= 400 && reqErr.Status < 500 {
		return exitcode.UserError
	}
	return exitcode.BackendError
}

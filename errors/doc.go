/*
Package errors provides semantic error types for the detabase library.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound      = errors.New("item not found")
	    ErrAlreadyExists = errors.New("item already exists")
	    ErrInvalidInput  = errors.New("invalid input")
	    ErrRequestFailed = errors.New("request failed")
	)

Usage:

	// Check error type
	err := users.Update(ctx, "123", update)
	if err != nil {
	    if errors.IsNotFound(err) {
	        // Handle not found case
	        return fmt.Errorf("member %s does not exist", "123")
	    }
	    return err
	}

	// Create typed errors
	err := errors.NewNotFoundError("users", "123")
	err := errors.NewValidationError("key", "must not be empty")
	err := errors.NewRequestError("query", 401, "unauthorized")

RequestError additionally carries the HTTP status returned by the remote
service; errors.StatusCode(err) extracts it through any layer of wrapping.

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors

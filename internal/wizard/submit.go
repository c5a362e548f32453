package wizard

import (
	"context"
	"errors"
)

type validatable interface {
	Validate() error
}

// submit validates the form and runs call. A validation failure yields an
// error toast without any request; a failed call yields the generic failure
// message.
func submit[T any](ctx context.Context, form validatable, success, failure string, call func(context.Context) (T, error)) (T, Toast, error) {
	var zero T
	if err := form.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return zero, validationToast(verr), err
		}
		return zero, errorToast(err.Error()), err
	}
	out, err := call(ctx)
	if err != nil {
		return zero, errorToast(failure), err
	}
	return out, successToast(success), nil
}

// remove runs a delete call and reports it as a toast.
func remove(ctx context.Context, success, failure string, call func(context.Context) error) (Toast, error) {
	if err := call(ctx); err != nil {
		return errorToast(failure), err
	}
	return successToast(success), nil
}

func pick(isNew bool, create, update string) string {
	if isNew {
		return create
	}
	return update
}

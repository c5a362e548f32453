package wizard

// ToastKind selects how a toast is styled.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is the notification shown to the editor after a wizard action.
type Toast struct {
	Kind    ToastKind `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message,omitempty"`
}

func successToast(message string) Toast {
	return Toast{Kind: ToastSuccess, Title: "Success", Message: message}
}

func errorToast(message string) Toast {
	return Toast{Kind: ToastError, Title: "Error", Message: message}
}

func validationToast(err *ValidationError) Toast {
	return Toast{Kind: ToastError, Title: "Validation Error", Message: err.First()}
}

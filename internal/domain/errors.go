package domain

// ErrType classifies errors for the TUI to display appropriate messages.
type ErrType int

const (
	ErrUnknown       ErrType = iota
	ErrNoKubeconfig          // kubeconfig file not found
	ErrBadKubeconfig         // kubeconfig is malformed
	ErrNoContext             // no current context set
	ErrUnreachable           // cluster not reachable (timeout/DNS)
	ErrTokenExpired          // 401 Unauthorized
	ErrForbidden             // 403 Forbidden
	ErrNotFound              // 404 Not Found
	ErrConflict              // 409 Conflict
	ErrRateLimited           // 429 Too Many Requests
	ErrServerError           // 500+
	ErrTLS                   // TLS/cert error
	ErrInvalid               // rejected user input (unknown container, revision...)
)

func (t ErrType) String() string {
	switch t {
	case ErrNoKubeconfig:
		return "no_kubeconfig"
	case ErrBadKubeconfig:
		return "bad_kubeconfig"
	case ErrNoContext:
		return "no_context"
	case ErrUnreachable:
		return "unreachable"
	case ErrTokenExpired:
		return "token_expired"
	case ErrForbidden:
		return "forbidden"
	case ErrNotFound:
		return "not_found"
	case ErrConflict:
		return "conflict"
	case ErrRateLimited:
		return "rate_limited"
	case ErrServerError:
		return "server_error"
	case ErrTLS:
		return "tls"
	case ErrInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// APIError wraps a K8s API error with classification.
type APIError struct {
	Type    ErrType
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

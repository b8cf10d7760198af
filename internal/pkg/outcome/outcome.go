// Package outcome models the three ways an analysis step can end: a real
// result, a result produced by an explicit fallback path, or a failure.
package outcome

import "fmt"

type Kind int

const (
	KindOK Kind = iota
	KindDegraded
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindDegraded:
		return "degraded"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type Result[T any] struct {
	Value  T
	Kind   Kind
	Reason string
	Err    error
}

func OK[T any](v T) Result[T] {
	return Result[T]{Value: v, Kind: KindOK}
}

func Degraded[T any](v T, reason string) Result[T] {
	return Result[T]{Value: v, Kind: KindDegraded, Reason: reason}
}

func Failed[T any](err error) Result[T] {
	return Result[T]{Kind: KindFailed, Err: err, Reason: errString(err)}
}

func (r Result[T]) IsDegraded() bool {
	return r.Kind == KindDegraded
}

// Unwrap returns the value, or the failure error. Degraded results still
// yield their value.
func (r Result[T]) Unwrap() (T, error) {
	if r.Kind == KindFailed {
		var zero T
		if r.Err == nil {
			return zero, fmt.Errorf("outcome failed: %s", r.Reason)
		}
		return zero, r.Err
	}
	return r.Value, nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Report folds the kinds of several step results into one response level
// quality marker.
type Report struct {
	reasons []string
}

func (r *Report) Note(kind Kind, step, reason string) {
	if kind == KindOK {
		return
	}
	if reason == "" {
		reason = kind.String()
	}
	r.reasons = append(r.reasons, step+": "+reason)
}

func Track[T any](r *Report, step string, res Result[T]) Result[T] {
	r.Note(res.Kind, step, res.Reason)
	return res
}

func (r *Report) Degraded() bool {
	return len(r.reasons) > 0
}

func (r *Report) Reasons() []string {
	if len(r.reasons) == 0 {
		return []string{}
	}
	out := make([]string, len(r.reasons))
	copy(out, r.reasons)
	return out
}

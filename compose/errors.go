package compose

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindDecode            Kind = "DecodeError"
	KindInvalidEncoding   Kind = "InvalidEncodingError"
	KindInvalidColor      Kind = "InvalidColorError"
	KindInvalidBackground Kind = "InvalidBackgroundTypeError"
	KindComposition       Kind = "CompositionError"
	KindSegmentation      Kind = "SegmentationError"
	KindUnknown           Kind = ""
)

// Error is the single error type returned by the pipeline. Every failure
// carries exactly one Kind and optionally the underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind, so the sentinels
// below can be used with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrDecode            = &Error{Kind: KindDecode, Msg: "compose: cannot decode image"}
	ErrInvalidEncoding   = &Error{Kind: KindInvalidEncoding, Msg: "compose: invalid payload encoding"}
	ErrInvalidColor      = &Error{Kind: KindInvalidColor, Msg: "compose: invalid color value"}
	ErrInvalidBackground = &Error{Kind: KindInvalidBackground, Msg: "compose: invalid background type"}
	ErrComposition       = &Error{Kind: KindComposition, Msg: "compose: composition failed"}
	ErrSegmentation      = &Error{Kind: KindSegmentation, Msg: "compose: segmentation failed"}
)

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsClientError reports whether err was caused by malformed caller input
// rather than a collaborator or service fault.
func IsClientError(err error) bool {
	switch KindOf(err) {
	case KindDecode, KindInvalidEncoding, KindInvalidColor, KindInvalidBackground:
		return true
	default:
		return false
	}
}

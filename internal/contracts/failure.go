package contracts

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// FailureKind classifies why a stage could not produce its value
type FailureKind string

const (
	KindInvalidInput        FailureKind = "invalid_input"
	KindNotFound            FailureKind = "not_found"
	KindUpstreamUnavailable FailureKind = "upstream_unavailable"
	KindTimeout             FailureKind = "timeout"

	// KindCanceled means the caller went away (closed tab, dropped socket).
	// It says nothing about EDGAR or the LLM.
	KindCanceled FailureKind = "canceled"
)

// Failure is the single error type returned across stage boundaries
// ⭐ SSOT: 단계 실패는 모두 Failure로 전달 (조용한 실패 금지)
type Failure struct {
	Stage Stage
	Kind  FailureKind
	Err   error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: %s", f.Stage, f.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", f.Stage, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Fail builds a Failure with a formatted cause
func Fail(stage Stage, kind FailureKind, format string, args ...interface{}) *Failure {
	return &Failure{Stage: stage, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Classify wraps err into a Failure for stage. An existing Failure is
// returned unchanged so the stage that first saw the problem is kept.
func Classify(stage Stage, err error) error {
	if err == nil {
		return nil
	}

	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	return &Failure{Stage: stage, Kind: KindOf(err), Err: err}
}

// KindOf maps any error onto a FailureKind
func KindOf(err error) FailureKind {
	if err == nil {
		return ""
	}

	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	return KindUpstreamUnavailable
}

// StageOf returns the stage recorded on err, if any
func StageOf(err error) Stage {
	var f *Failure
	if errors.As(err, &f) {
		return f.Stage
	}
	return ""
}

// IsNotFound reports whether err is a not_found Failure
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

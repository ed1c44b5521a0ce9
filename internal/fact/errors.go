package fact

import "errors"

// Status sentinels for typed error returns. Operations return one of
// these (wrapped with context via %w) rather than an exception;
// invariant-breaking states panic instead (see Store/Fact doc
// comments).
var (
	ErrNullPointer      = errors.New("null-pointer")
	ErrRetracted        = errors.New("retracted")
	ErrCouldNotAssert   = errors.New("could-not-assert")
	ErrCouldNotModify   = errors.New("could-not-modify")
	ErrCouldNotRetract  = errors.New("could-not-retract")
	ErrRuleNetworkError = errors.New("rule-network-error")
	ErrTemplateNotFound = errors.New("template-not-found")
	ErrImpliedTemplate  = errors.New("implied-template")
	ErrNoDefault        = errors.New("could-not-assert: slot has no default and was left void")
)

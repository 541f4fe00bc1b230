// Package chainerr distinguishes the two error classes the maintenance
// driver must treat differently: Fatal errors abort the block, BestEffort
// errors are logged and the enclosing loop continues.
package chainerr

import "github.com/pkg/errors"

// Fatal wraps err as an error that must abort the enclosing maintenance
// call: failed lookups of required singletons, invariant assertions, and
// consensus-arithmetic overflow.
func Fatal(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}

// Fatalf is Fatal with a formatted message.
func Fatalf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// Assert returns a Fatal error if cond is false.
func Assert(cond bool, msg string) error {
	if cond {
		return nil
	}
	return errors.New(msg)
}

// bestEffort marks an error as recoverable: the call site logs it and
// continues the enclosing loop rather than aborting the block.
type bestEffort struct{ cause error }

func (b *bestEffort) Error() string { return b.cause.Error() }
func (b *bestEffort) Cause() error  { return b.cause }
func (b *bestEffort) Unwrap() error { return b.cause }

// BestEffort wraps err to mark it recoverable per spec §7's enumerated
// best-effort sites (buyback orders, cheque reversal, bonus issuance,
// annual-member upgrade).
func BestEffort(err error) error {
	if err == nil {
		return nil
	}
	return &bestEffort{cause: err}
}

// IsBestEffort reports whether err was produced by BestEffort.
func IsBestEffort(err error) bool {
	_, ok := errors.Cause(err).(*bestEffort)
	if ok {
		return true
	}
	var be *bestEffort
	for e := err; e != nil; {
		if b, ok := e.(*bestEffort); ok {
			be = b
			break
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return be != nil
}

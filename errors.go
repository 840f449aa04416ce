// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import (
	"errors"
	"fmt"
)

// Kind classifies the category of a codec failure.
type Kind int

const (
	// KindTruncated: a read would pass end-of-buffer.
	KindTruncated Kind = iota + 1
	// KindInvalidMagic: a container or sub-block signature did not match.
	KindInvalidMagic
	// KindUnknownTag: a block tag is not in the registry.
	KindUnknownTag
	// KindValueOutOfRange: an integer does not fit in its mask's bit width.
	KindValueOutOfRange
	// KindMissingBlock: a required block is absent during serialization.
	KindMissingBlock
	// KindDanglingReference: a name does not resolve.
	KindDanglingReference
	// KindDuplicateKey: a uniqueness invariant was violated.
	KindDuplicateKey
	// KindChecksumMismatch: reserved for future integrity fields.
	KindChecksumMismatch
	// KindAlignmentError: a size or alignment invariant was violated (a
	// block length that is not a multiple of 4 on read, or a field or
	// header of the wrong size on write).
	KindAlignmentError
)

func (k Kind) String() string {
	switch k {
	case KindTruncated:
		return "Truncated"
	case KindInvalidMagic:
		return "InvalidMagic"
	case KindUnknownTag:
		return "UnknownTag"
	case KindValueOutOfRange:
		return "ValueOutOfRange"
	case KindMissingBlock:
		return "MissingBlock"
	case KindDanglingReference:
		return "DanglingReference"
	case KindDuplicateKey:
		return "DuplicateKey"
	case KindChecksumMismatch:
		return "ChecksumMismatch"
	case KindAlignmentError:
		return "AlignmentError"
	default:
		return "Unknown"
	}
}

// CodecError is the single error type returned across the core: a kind, a
// path-qualified context identifying the failing file/block tag/byte offset,
// and an optional wrapped cause. The core never swallows errors; every
// failure path returns one of these instead of a bare string.
type CodecError struct {
	Kind    Kind
	Context string
	Cause   error
}

func (e *CodecError) Error() string {
	if e.Context == "" && e.Cause == nil {
		return e.Kind.String()
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	}
	if e.Context == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Cause)
}

func (e *CodecError) Unwrap() error { return e.Cause }

// Is reports whether target is a *CodecError with the same Kind, so callers
// can do errors.Is(err, &CodecError{Kind: KindTruncated}).
func (e *CodecError) Is(target error) bool {
	var other *CodecError
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

func newErr(kind Kind, context string, cause error) *CodecError {
	return &CodecError{Kind: kind, Context: context, Cause: cause}
}

// Truncated builds a KindTruncated error qualified by context.
func Truncated(context string) error { return newErr(KindTruncated, context, nil) }

// InvalidMagic builds a KindInvalidMagic error qualified by context.
func InvalidMagic(context string) error { return newErr(KindInvalidMagic, context, nil) }

// UnknownTag builds a KindUnknownTag error qualified by context.
func UnknownTag(context string) error { return newErr(KindUnknownTag, context, nil) }

// ValueOutOfRange builds a KindValueOutOfRange error qualified by context.
func ValueOutOfRange(context string) error { return newErr(KindValueOutOfRange, context, nil) }

// MissingBlock builds a KindMissingBlock error qualified by context.
func MissingBlock(context string) error { return newErr(KindMissingBlock, context, nil) }

// DanglingReference builds a KindDanglingReference error qualified by context.
func DanglingReference(context string) error { return newErr(KindDanglingReference, context, nil) }

// DuplicateKey builds a KindDuplicateKey error qualified by context.
func DuplicateKey(context string) error { return newErr(KindDuplicateKey, context, nil) }

// AlignmentError builds a KindAlignmentError error qualified by context.
func AlignmentError(context string) error { return newErr(KindAlignmentError, context, nil) }

// wrap attaches context and a cause to an existing error, promoting it to a
// *CodecError if it isn't one already (defaulting to KindTruncated context
// carriers are rare; most wrap calls pass an existing *CodecError through).
func wrap(context string, cause error) error {
	var ce *CodecError
	if errors.As(cause, &ce) {
		if ce.Context == "" {
			return newErr(ce.Kind, context, ce.Cause)
		}
		return newErr(ce.Kind, context+": "+ce.Context, ce.Cause)
	}
	return newErr(KindTruncated, context, cause)
}

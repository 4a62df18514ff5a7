/**
 * Copyright (c) 2025, The Loom Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package di

import (
	"fmt"
	"log"
	"runtime"
	"strconv"
	"unsafe"

	"github.com/botobag/loom/internal/util"

	jsoniter "github.com/json-iterator/go"
)

// Op describes an operation, usually as the package and method, such as "di.RegisterFactory".
type Op string

// ErrKind defines the kind of error this is.
type ErrKind uint8

// Enumeration of Kind
const (
	ErrKindOther           ErrKind = iota // Unclassified error. This value is not printed in the error message.
	ErrKindRegistration                   // A producer could not be registered.
	ErrKindNotResolvable                  // No producer or decomposition path satisfied the query.
	ErrKindUnsupportedType                // A host type has no mapping in the descriptor algebra.
	ErrKindCycle                          // A dependency cycle could not be broken with a placeholder.
	ErrKindInternal                       // Internal error
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindOther:
		return "other error"
	case ErrKindRegistration:
		return "registration error"
	case ErrKindNotResolvable:
		return "not resolvable"
	case ErrKindUnsupportedType:
		return "unsupported type"
	case ErrKindCycle:
		return "cycle error"
	case ErrKindInternal:
		return "internal error"
	}
	return "unknown error kind"
}

// QueryPath records the steps of producer invocation and parameter resolution that led to an
// error: factory names as strings and parameter positions as integers. It gives "which dependency
// of which factory failed" diagnostics for deeply assembled graphs.
type QueryPath struct {
	// Currently this could only be either int or string.
	keys []interface{}
}

// Empty returns true if the path doesn't contain any path keys.
func (path QueryPath) Empty() bool {
	return len(path.keys) == 0
}

// AppendFactory adds a factory name to the end of current path.
func (path *QueryPath) AppendFactory(name string) {
	path.keys = append(path.keys, name)
}

// AppendParameter adds a parameter position to the end of current path.
func (path *QueryPath) AppendParameter(index int) {
	path.keys = append(path.keys, index)
}

// Clone makes a deep copy of the path.
func (path QueryPath) Clone() QueryPath {
	if len(path.keys) == 0 {
		return QueryPath{}
	}

	keys := make([]interface{}, len(path.keys))
	copy(keys, path.keys)
	return QueryPath{keys}
}

// String serializes a QueryPath to more readable format.
func (path QueryPath) String() string {
	var b util.StringBuilder
	for _, key := range path.keys {
		switch key := key.(type) {
		case string:
			if b.Len() > 0 {
				b.WriteRune('.')
			}
			b.WriteString(key)

		case int:
			b.WriteRune('[')
			b.WriteString(strconv.FormatInt(int64(key), 10))
			b.WriteRune(']')

			// Other types should never happen.
		}
	}
	return b.String()
}

// queryPathMarshaller implements jsoniter.ValEncoder to encode QueryPath to JSON.
type queryPathMarshaller struct{}

var _ jsoniter.ValEncoder = queryPathMarshaller{}

// IsEmpty implements jsoniter.ValEncoder.
func (queryPathMarshaller) IsEmpty(ptr unsafe.Pointer) bool {
	return len((*QueryPath)(ptr).keys) == 0
}

// Encode implements jsoniter.ValEncoder.
func (queryPathMarshaller) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	path := (*QueryPath)(ptr)
	numPathKeys := len(path.keys)
	stream.WriteArrayStart()
	for i, key := range path.keys {
		switch key := key.(type) {
		case string:
			stream.WriteString(key)
		case int:
			stream.WriteInt(key)
		default:
			stream.Error = fmt.Errorf(`unsupported type "%T" of key in query path`, key)
			return
		}

		if i != numPathKeys-1 {
			stream.WriteMore()
		}
	}
	stream.WriteArrayEnd()
}

// MarshalJSON serializes path keys to JSON.
func (path *QueryPath) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(path)
}

// An Error describes a failure during registration or resolution. It carries the descriptor of
// the query that failed (when one is involved) and the path of factory invocations that led to
// the failure, and can be serialized to JSON for logging.
type Error struct {
	// Message describes the error for debugging purposes.
	Message string

	// Query is the descriptor that could not be satisfied, if the error concerns one.
	Query Descriptor

	// Path describes the chain of factory invocations and parameter positions that produced the
	// error.
	Path QueryPath

	// The underlying error that triggered this one
	Err error

	// Op is the operation being performed, usually the name of the method being invoked.
	Op Op

	// Kind is the class of error
	Kind ErrKind
}

// Error implements Go error interface.
var _ error = (*Error)(nil)

// NewError builds an error value from arguments. Inspired by the design of upspin.io/errors [0].
//
// [0]: https://commandcenter.blogspot.com/2017/12/error-handling-in-upspin.html.
func NewError(message string, args ...interface{}) error {
	e := &Error{
		Message: message,
	}

	for _, arg := range args {
		switch arg := arg.(type) {
		case Descriptor:
			e.Query = arg

		case QueryPath:
			e.Path = arg

		case error:
			e.Err = arg

		case Op:
			e.Op = arg

		case ErrKind:
			e.Kind = arg

		default:
			_, file, line, _ := runtime.Caller(1)
			log.Printf("NewError: bad call from %s:%d: %v", file, line, args)
			return fmt.Errorf("unknown type %T, value %v in error call", arg, arg)
		}
	}

	// Propagate query, path and kind from the underlying error when not provided in argument.
	if prev, ok := e.Err.(*Error); ok {
		if e.Query == nil {
			e.Query = prev.Query
		}
		if e.Path.Empty() && !prev.Path.Empty() {
			e.Path = prev.Path.Clone()
		}
		if e.Kind == ErrKindOther {
			e.Kind = prev.Kind
		}
	}

	return e
}

// WrapError is a convenient wrapper to build an Error value from an underlying error with a
// message.
func WrapError(err error, message string) error {
	return NewError(message, err)
}

// WrapErrorf is similar to WrapError but with the format specifier.
func WrapErrorf(err error, format string, args ...interface{}) error {
	return NewError(fmt.Sprintf(format, args...), err)
}

// NewNotResolvableError returns the error raised when no producer or decomposition path satisfies
// a query. The failed descriptor is carried for diagnostics.
func NewNotResolvableError(query Descriptor) error {
	return NewError(
		fmt.Sprintf("container is not able to resolve type '%s'; make sure it is registered", query),
		query, ErrKindNotResolvable)
}

// Error implements Go's error interface.
func (e *Error) Error() string {
	var b util.StringBuilder
	e.printError(&b, nil)
	return b.String()
}

func (e *Error) printError(b *util.StringBuilder, nextErr *Error) {
	// If the previous error was also one of ours, suppress duplications so the message won't
	// contain the same kind or path twice.
	initialLen := b.Len()

	// pad appends str to the buffer if the buffer already has some data.
	pad := func(str string) {
		if b.Len() == initialLen {
			return
		}
		b.WriteString(str)
	}

	if len(e.Op) > 0 {
		b.WriteString(string(e.Op))
	}

	if len(e.Message) > 0 {
		pad(": ")
		b.WriteString(e.Message)
	}

	if !e.Path.Empty() {
		// Don't print path if the next error already did.
		if nextErr == nil || nextErr.Path.String() != e.Path.String() {
			if b.Len() == initialLen {
				b.WriteString("In ")
			} else {
				b.WriteString(" in ")
			}
			b.WriteString("resolution path ")
			b.WriteString(e.Path.String())
		}
	}

	if e.Kind != ErrKindOther {
		// Don't print kind if the next error has the same kind as ours.
		if nextErr == nil || nextErr.Kind != e.Kind {
			pad(": ")
			b.WriteString(e.Kind.String())
		}
	}

	if e.Err != nil {
		if prev, ok := e.Err.(*Error); ok {
			// Indent on new line if we are cascading non-empty Error.
			pad(":\n  ")
			prev.printError(b, e)
		} else {
			pad(": ")
			b.WriteString(e.Err.Error())
		}
	}
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error { return e.Err }

// MarshalJSON implements json.Marshaler.
func (e *Error) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(e)
}

// errorMarshaller implements jsoniter.ValEncoder to encode an Error to JSON.
type errorMarshaller struct{}

var _ jsoniter.ValEncoder = errorMarshaller{}

// IsEmpty implements jsoniter.ValEncoder.
func (errorMarshaller) IsEmpty(ptr unsafe.Pointer) bool {
	e := (*Error)(ptr)
	return len(e.Message) == 0 && e.Err == nil
}

// Encode implements jsoniter.ValEncoder.
func (errorMarshaller) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	e := (*Error)(ptr)
	stream.WriteObjectStart()

	stream.WriteObjectField("message")
	stream.WriteString(e.Message)

	if e.Kind != ErrKindOther {
		stream.WriteMore()
		stream.WriteObjectField("kind")
		stream.WriteString(e.Kind.String())
	}

	if e.Query != nil {
		stream.WriteMore()
		stream.WriteObjectField("query")
		stream.WriteString(e.Query.String())
	}

	if !e.Path.Empty() {
		stream.WriteMore()
		stream.WriteObjectField("path")
		stream.WriteVal(e.Path)
	}

	stream.WriteObjectEnd()
}

func init() {
	jsoniter.RegisterTypeEncoder("di.QueryPath", queryPathMarshaller{})
	jsoniter.RegisterTypeEncoder("di.Error", errorMarshaller{})
}

// kindOf extracts the ErrKind from an error produced by this package, unwrapping as needed.
func kindOf(err error) ErrKind {
	for err != nil {
		e, ok := err.(*Error)
		if !ok {
			return ErrKindOther
		}
		if e.Kind != ErrKindOther {
			return e.Kind
		}
		err = e.Err
	}
	return ErrKindOther
}

// IsNotResolvable returns true if err indicates that a query had no producer or decomposition
// path; callers typically recover from it (e.g. by registering more producers), in contrast with
// registration errors which indicate misuse.
func IsNotResolvable(err error) bool { return kindOf(err) == ErrKindNotResolvable }

// IsRegistrationError returns true if err was raised while registering a producer.
func IsRegistrationError(err error) bool { return kindOf(err) == ErrKindRegistration }

// IsUnsupportedType returns true if err indicates a host type with no mapping in the descriptor
// algebra.
func IsUnsupportedType(err error) bool { return kindOf(err) == ErrKindUnsupportedType }

// IsCycleError returns true if err indicates a dependency cycle that could not be broken with a
// placeholder. This is a programming-error-class failure distinct from NotResolvable.
func IsCycleError(err error) bool { return kindOf(err) == ErrKindCycle }

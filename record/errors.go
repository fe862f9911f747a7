package record

import "errors"

var (
	// ErrInvalidRecord indicates serialized record data is malformed.
	ErrInvalidRecord = errors.New("record: invalid record data")

	// ErrKindMismatch indicates the data holds a different record kind.
	ErrKindMismatch = errors.New("record: record kind mismatch")

	// ErrInvalidStatus indicates an unknown status or choice value.
	ErrInvalidStatus = errors.New("record: invalid status value")

	// ErrInvalidAddress indicates an address string or slice is malformed.
	ErrInvalidAddress = errors.New("record: invalid address")
)

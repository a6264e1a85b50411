// Package mep composes the frame, command and registry layers into the
// client-facing surface: info-request builders, control builders, the text
// and pictogram layout builder, and the response parser.
package mep

import "github.com/aesysnet/mepcodec/pkg/proto"

// Error taxonomy re-exported from pkg/proto so callers importing only this
// package can still dispatch on errors.Is without reaching into proto.
var (
	ErrInvalidArgument   = proto.ErrInvalidArgument
	ErrBadFrame          = proto.ErrBadFrame
	ErrNotPermitted      = proto.ErrNotPermitted
	ErrOutOfMemory       = proto.ErrOutOfMemory
	ErrMalformedSequence = proto.ErrMalformedSequence
)

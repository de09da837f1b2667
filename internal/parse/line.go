package parse

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnparseable is returned by ParseLine for a line that does not have the
// "[DATE, TIME] SENDER: MESSAGE" shape.
var ErrUnparseable = errors.New("unparseable line")

const (
	bracketDelim = "] "
	stampDelim   = ", "
	senderDelim  = ": "
)

// ParseLine converts one raw transcript line into a Record.
//
// The line is split at the first "] ", the bracket segment (minus one leading
// "[") must hold exactly one ", " separating date and time, and the remainder is
// split at the first ": " into sender and message. A message body that itself
// contains ": " is kept intact. Sender and message are trimmed; an empty sender
// makes the line unparseable, an empty message does not.
func ParseLine(raw string) (Record, error) {
	line := strings.TrimRight(raw, "\r\n")

	stamp, rest, ok := strings.Cut(line, bracketDelim)
	if !ok {
		return Record{}, fmt.Errorf("%w: no %q", ErrUnparseable, bracketDelim)
	}

	stamp = strings.TrimPrefix(stamp, "[")
	parts := strings.Split(stamp, stampDelim)
	if len(parts) != 2 {
		return Record{}, fmt.Errorf("%w: timestamp %q has %d parts, want 2", ErrUnparseable, stamp, len(parts))
	}

	sender, message, ok := strings.Cut(rest, senderDelim)
	if !ok {
		return Record{}, fmt.Errorf("%w: no %q after timestamp", ErrUnparseable, senderDelim)
	}

	sender = strings.TrimSpace(sender)
	if sender == "" {
		return Record{}, fmt.Errorf("%w: empty sender", ErrUnparseable)
	}

	return Record{
		Date:    parts[0],
		Time:    parts[1],
		Sender:  sender,
		Message: strings.TrimSpace(message),
	}, nil
}

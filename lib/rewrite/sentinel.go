// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Sentinel code points stand in for characters the XML serializer would
// otherwise drop or escape. They are swapped in before parsing and
// swapped back after serialization. The code points match the original
// export tooling so processed files diff cleanly against its output.
const (
	sentinelFormFeed       = '☢' // literal \f in attribute values
	sentinelCarriageReturn = '☣' // literal \r in attribute values
	sentinelSingleQuote    = '☤' // ' in free-text attributes, restored as &apos;
)

// ErrSentinelCollision reports input that already contains one of the
// sentinel code points. Proceeding would make the sentinel round trip
// ambiguous, so the document is rejected instead.
var ErrSentinelCollision = errors.New("rewrite: sentinel code point present in input")

var (
	sentinelEncoder = strings.NewReplacer(
		"\f", string(sentinelFormFeed),
		"\r", string(sentinelCarriageReturn),
	)
	sentinelDecoder = strings.NewReplacer(
		string(sentinelFormFeed), "\f",
		string(sentinelCarriageReturn), "\r",
		string(sentinelSingleQuote), "&apos;",
	)
)

// encodeSentinels replaces literal form-feed and carriage-return
// characters with their sentinel code points. It fails if any sentinel
// already occurs in the input.
func encodeSentinels(doc []byte) ([]byte, error) {
	for _, sentinel := range []rune{sentinelFormFeed, sentinelCarriageReturn, sentinelSingleQuote} {
		if bytes.ContainsRune(doc, sentinel) {
			return nil, fmt.Errorf("%w: U+%04X", ErrSentinelCollision, sentinel)
		}
	}
	return []byte(sentinelEncoder.Replace(string(doc))), nil
}

// decodeSentinels restores sentinel code points in serialized output:
// form feed and carriage return become literal characters again, and the
// quote sentinel becomes the XML apostrophe entity.
func decodeSentinels(doc string) string {
	return sentinelDecoder.Replace(doc)
}

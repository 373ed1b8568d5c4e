package geom

import (
	"errors"
	"fmt"
)

// Errors fall in two families. Structural precondition violations (an
// index that does not exist, the wrong number of planes for an
// inference) are returned as wrapped sentinel errors with the offending
// identifier in the message. Out-of-plane nearest-wire queries are
// recoverable and carry both the naive and the corrected answer in a
// structured error, so the caller can decide whether to treat them as
// failures. Degenerate geometry (parallel wires, vanishing slopes) is
// not an error at all: those paths return documented sentinel values.

var (
	// ErrNoSuchCryostat reports a cryostat index with no cryostat behind it.
	ErrNoSuchCryostat = errors.New("no such cryostat")

	// ErrNoSuchTPC reports a TPC index with no TPC behind it.
	ErrNoSuchTPC = errors.New("no such TPC")

	// ErrNoSuchPlane reports a plane index with no plane behind it.
	ErrNoSuchPlane = errors.New("no such plane")

	// ErrNoSuchWire reports a wire index with no wire behind it.
	ErrNoSuchWire = errors.New("no such wire")

	// ErrNoSuchChannel reports a channel number the mapping does not serve.
	ErrNoSuchChannel = errors.New("no such channel")

	// ErrNoSuchOpDet reports an optical detector index with no detector
	// behind it.
	ErrNoSuchOpDet = errors.New("no such optical detector")

	// ErrNotThreePlanes reports a third-plane inference on a TPC that does
	// not have exactly three planes. This is a usage error, not a
	// recoverable geometry condition.
	ErrNotThreePlanes = errors.New("third-plane inference requires exactly three planes")

	// ErrNoSuchView reports a view not present in the queried TPC.
	ErrNoSuchView = errors.New("no plane with requested view")
)

// InvalidWireError reports a nearest-wire query whose plane projection
// falls outside the wire-covered region. Bad is the wire that would be
// nearest if the plane extended forever, marked invalid since it does
// not exist; Better is the existing wire actually closest to the query
// point, so callers that accept border effects can use it directly.
type InvalidWireError struct {
	Bad    WireID
	Better WireID
}

func (e *InvalidWireError) Error() string {
	return fmt.Sprintf("nearest wire %v is off the plane (closest existing wire %v)",
		e.Bad, e.Better)
}

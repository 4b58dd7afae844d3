package x12

// Envelope segment identifiers.
const (
	isaSegmentID = "ISA"
	ieaSegmentID = "IEA"
	gsSegmentID  = "GS"
	geSegmentID  = "GE"
	stSegmentID  = "ST"
	seSegmentID  = "SE"
)

// ISA element indexes. The interchange header is fixed-width: every element
// is padded to its full length, and the whole segment is 106 bytes.
const (
	isaIndexSenderIDQualifier = 5
	isaIndexSenderID          = 6
	isaIndexReceiverQualifier = 7
	isaIndexReceiverID        = 8
	isaIndexDate              = 9
	isaIndexTime              = 10
	isaIndexControlNumber     = 13
)

const (
	isaByteCount             = 106
	isaElementSeparatorIndex = 3
	isaComponentSepIndex     = 104
	isaSegmentTermIndex      = 105
)

const (
	ieaIndexGroupCount    = 1
	ieaIndexControlNumber = 2
)

// GS element indexes.
const (
	gsIndexFunctionalCode = 1
	gsIndexSenderCode     = 2
	gsIndexReceiverCode   = 3
	gsIndexDate           = 4
	gsIndexTime           = 5
	gsIndexControlNumber  = 6
)

const (
	geIndexTransactionCount = 1
	geIndexControlNumber    = 2
)

// ST/SE element indexes.
const (
	stIndexTransactionSetCode = 1
	stIndexControlNumber      = 2
)

const (
	seIndexSegmentCount  = 1
	seIndexControlNumber = 2
)

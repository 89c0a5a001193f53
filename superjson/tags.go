package superjson

// Wire tags used in meta.values. These spellings are fixed by the JavaScript
// superjson library and must never change: the four special numeric values
// share tagNumber and are distinguished by their plain string form.
const (
	tagUndefined = "undefined"
	tagDate      = "Date"
	tagBigInt    = "bigint"
	tagNumber    = "number"
	tagSet       = "set"
	tagMap       = "map"
	tagRegExp    = "regexp"
	tagURL       = "URL"
	tagError     = "Error"
)

// Plain string forms carried under tagNumber.
const (
	numNaN         = "NaN"
	numPosInfinity = "Infinity"
	numNegInfinity = "-Infinity"
	numNegZero     = "-0"
)

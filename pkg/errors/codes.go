package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	CodeInternal      ErrorCode = "COMMON_001"
	CodeInvalidParam  ErrorCode = "COMMON_002"
	CodeNotFound      ErrorCode = "COMMON_003"
	CodeUnavailable   ErrorCode = "COMMON_004"
	CodeTimeout       ErrorCode = "COMMON_005"
	CodeSerialization ErrorCode = "COMMON_006"
	CodeDatabaseError ErrorCode = "COMMON_007"
	CodeCacheError    ErrorCode = "COMMON_008"

	CodeOK      ErrorCode = "OK"
	CodeUnknown ErrorCode = "UNKNOWN"
)

// Rights-resolution error codes
const (
	// CodeEmptyQuery signals that no valid track identifiers survived
	// normalization.  Recoverable: callers surface a notice and skip
	// resolution entirely.
	CodeEmptyQuery ErrorCode = "RGT_001"

	// CodeCatalogUnavailable signals that the rights catalog could not be
	// read.  Fatal for the current lookup; no partial results are returned.
	CodeCatalogUnavailable ErrorCode = "RGT_002"

	// CodeMalformedGrant marks a catalog row that violates grant invariants
	// (e.g. effective_from after effective_to).  Such rows are skipped and
	// counted, never raised out of a lookup.
	CodeMalformedGrant ErrorCode = "RGT_003"

	// CodeUnknownTerritory signals a territory code absent from the
	// territory directory; the request is rejected before resolution.
	CodeUnknownTerritory ErrorCode = "RGT_004"

	// CodeMetadataUnavailable signals that the descriptive metadata source
	// could not be read.
	CodeMetadataUnavailable ErrorCode = "RGT_005"
)

// httpStatusByCode maps error codes to HTTP response status codes.
var httpStatusByCode = map[ErrorCode]int{
	CodeInternal:      http.StatusInternalServerError,
	CodeInvalidParam:  http.StatusBadRequest,
	CodeNotFound:      http.StatusNotFound,
	CodeUnavailable:   http.StatusServiceUnavailable,
	CodeTimeout:       http.StatusGatewayTimeout,
	CodeSerialization: http.StatusInternalServerError,
	CodeDatabaseError: http.StatusServiceUnavailable,
	CodeCacheError:    http.StatusInternalServerError,

	CodeEmptyQuery:          http.StatusBadRequest,
	CodeCatalogUnavailable:  http.StatusServiceUnavailable,
	CodeMalformedGrant:      http.StatusUnprocessableEntity,
	CodeUnknownTerritory:    http.StatusBadRequest,
	CodeMetadataUnavailable: http.StatusServiceUnavailable,
}

// HTTPStatus returns the HTTP status code associated with c.  Unrecognised
// codes map to 500 so that an unmapped failure is never silently downgraded.
func (c ErrorCode) HTTPStatus() int {
	if status, ok := httpStatusByCode[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

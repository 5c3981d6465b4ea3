package errors

// ErrorCode identifies a failure class across the pipeline
type ErrorCode int

const (
	ErrorCode_INTERNAL ErrorCode = iota + 1
	ErrorCode_INVALID_PAYLOAD
	ErrorCode_AUTH_FAILED
	ErrorCode_NOT_FOUND
	ErrorCode_RATE_LIMITED
	ErrorCode_TRANSPORT_FAILED
	ErrorCode_VALIDATION_FAILED
	ErrorCode_DUPLICATE
	ErrorCode_PARTIAL_WRITE
	ErrorCode_SIGNATURE_INVALID
	ErrorCode_HTTP_OK
)

var codeNames = map[ErrorCode]string{
	ErrorCode_INTERNAL:          "INTERNAL",
	ErrorCode_INVALID_PAYLOAD:   "INVALID_PAYLOAD",
	ErrorCode_AUTH_FAILED:       "AUTH_FAILED",
	ErrorCode_NOT_FOUND:         "NOT_FOUND",
	ErrorCode_RATE_LIMITED:      "RATE_LIMITED",
	ErrorCode_TRANSPORT_FAILED:  "TRANSPORT_FAILED",
	ErrorCode_VALIDATION_FAILED: "VALIDATION_FAILED",
	ErrorCode_DUPLICATE:         "DUPLICATE",
	ErrorCode_PARTIAL_WRITE:     "PARTIAL_WRITE",
	ErrorCode_SIGNATURE_INVALID: "SIGNATURE_INVALID",
	ErrorCode_HTTP_OK:           "OK",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

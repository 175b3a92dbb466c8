package errors

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by all modules.
const (
	ErrCodeInternal        ErrorCode = "COMMON_001"
	ErrCodeInvalidInput    ErrorCode = "COMMON_002"
	ErrCodeNotFound        ErrorCode = "COMMON_003"
	ErrCodeTimeout         ErrorCode = "COMMON_004"
	ErrCodeSerialization   ErrorCode = "COMMON_005"
	ErrCodeExternalService ErrorCode = "COMMON_006"
	ErrCodeCacheError      ErrorCode = "COMMON_007"
)

// Text-processing error codes (cleaning, rewriting).
const (
	ErrCodeTextEmpty      ErrorCode = "TEXT_001"
	ErrCodeTextTooShort   ErrorCode = "TEXT_002"
	ErrCodeSpanOutOfRange ErrorCode = "TEXT_003"
	ErrCodeSpanUnsorted   ErrorCode = "TEXT_004"
	ErrCodeSpanOverlap    ErrorCode = "TEXT_005"
)

// Entity-resolution error codes.
const (
	ErrCodeLookupTimeout  ErrorCode = "RES_001"
	ErrCodeLookupFailed   ErrorCode = "RES_002"
	ErrCodeLookupBadReply ErrorCode = "RES_003"
)

// Tokenization error codes.
const (
	ErrCodeEntityTextMismatch ErrorCode = "TOK_001"
	ErrCodeSentenceSplit      ErrorCode = "TOK_002"
)

// History-store error codes.
const (
	ErrCodeHistoryRead      ErrorCode = "HIST_001"
	ErrCodeHistoryWrite     ErrorCode = "HIST_002"
	ErrCodeHistoryMalformed ErrorCode = "HIST_003"
)

// Fatal reports whether code belongs to the fatal category: conditions that
// must halt the batch immediately rather than being logged and skipped.
func Fatal(code ErrorCode) bool {
	switch code {
	case ErrCodeEntityTextMismatch, ErrCodeHistoryMalformed, ErrCodeHistoryRead,
		ErrCodeSpanUnsorted, ErrCodeSpanOverlap:
		return true
	}
	return false
}

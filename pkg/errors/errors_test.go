package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SciText-Prep/pkg/errors"
)

func TestNewFieldsAreSet(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal", errors.ErrCodeInternal, "unexpected failure"},
		{"empty text", errors.ErrCodeTextEmpty, "text 17 is empty"},
		{"lookup timeout", errors.ErrCodeLookupTimeout, "lookup for 'graphene oxide' timed out"},
		{"history malformed", errors.ErrCodeHistoryMalformed, "search_history.json is not valid JSON"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestErrorFormat(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeSpanOverlap, "spans overlap")
	assert.Equal(t, "[TEXT_005] spans overlap", ae.Error())

	withDetail := ae.WithDetail("ops 2 and 3")
	assert.Equal(t, "[TEXT_005] spans overlap: ops 2 and 3", withDetail.Error())
	assert.Empty(t, ae.Detail, "WithDetail must not mutate the receiver")
}

func TestNewf(t *testing.T) {
	t.Parallel()

	ae := errors.Newf(errors.ErrCodeSpanOutOfRange, "span [%d,%d) out of range", 5, 40)
	assert.Equal(t, "span [5,40) out of range", ae.Message)
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("read /tmp/x: no such file")
	ae := errors.Wrap(cause, errors.ErrCodeHistoryRead, "failed to read search history")

	require.NotNil(t, ae)
	assert.Equal(t, cause, ae.Unwrap())
	assert.True(t, stderrors.Is(ae, cause))
}

func TestWrapNilReturnsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, errors.Wrap(nil, errors.ErrCodeHistoryRead, "ignored"))
}

func TestCodeExtraction(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeEntityTextMismatch, "mismatch")
	wrapped := fmt.Errorf("outer: %w", ae)

	assert.Equal(t, errors.ErrCodeEntityTextMismatch, errors.Code(wrapped))
	assert.True(t, errors.IsCode(wrapped, errors.ErrCodeEntityTextMismatch))
	assert.False(t, errors.IsCode(wrapped, errors.ErrCodeTextEmpty))

	assert.Equal(t, errors.ErrCodeInternal, errors.Code(stderrors.New("plain")))
	assert.Equal(t, errors.ErrorCode(""), errors.Code(nil))
}

func TestFatalTaxonomy(t *testing.T) {
	t.Parallel()

	fatal := []errors.ErrorCode{
		errors.ErrCodeEntityTextMismatch,
		errors.ErrCodeHistoryMalformed,
		errors.ErrCodeHistoryRead,
		errors.ErrCodeSpanUnsorted,
		errors.ErrCodeSpanOverlap,
	}
	for _, code := range fatal {
		assert.True(t, errors.Fatal(code), "code %s should be fatal", code)
	}

	nonFatal := []errors.ErrorCode{
		errors.ErrCodeTextEmpty,
		errors.ErrCodeLookupTimeout,
		errors.ErrCodeLookupFailed,
		errors.ErrCodeCacheError,
	}
	for _, code := range nonFatal {
		assert.False(t, errors.Fatal(code), "code %s should not be fatal", code)
	}
}

func TestIsFatalTraversesChain(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeHistoryMalformed, "corrupt file")
	wrapped := fmt.Errorf("restoring session: %w", inner)

	assert.True(t, errors.IsFatal(wrapped))
	assert.False(t, errors.IsFatal(stderrors.New("plain")))
	assert.False(t, errors.IsFatal(nil))
}

func TestConvenienceFactories(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.ErrCodeInvalidInput, errors.NewInvalidInputError("bad args").Code)
	assert.Equal(t, errors.ErrCodeLookupTimeout, errors.NewTimeoutError("slow").Code)
}

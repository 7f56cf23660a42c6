package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
		word   string
	}{
		{KindValidation, http.StatusBadRequest, "fail"},
		{KindAuth, http.StatusUnauthorized, "fail"},
		{KindTokenExpired, http.StatusUnauthorized, "fail"},
		{KindTokenInvalid, http.StatusUnauthorized, "fail"},
		{KindForbidden, http.StatusForbidden, "fail"},
		{KindNotFound, http.StatusNotFound, "fail"},
		{KindConflict, http.StatusConflict, "fail"},
		{KindInternal, http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.kind.HTTPStatus())
			assert.Equal(t, tt.word, tt.kind.StatusWord())
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindAuth, KindOf(fmt.Errorf("handler: %w", Auth("nope"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain error")))
}

func TestError_Operational(t *testing.T) {
	assert.True(t, Validation("bad input").Operational())
	assert.False(t, Internal(errors.New("db down")).Operational())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindInternal, "opaque", cause)
	assert.ErrorIs(t, err, cause)
}

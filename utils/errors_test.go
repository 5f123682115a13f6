package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusCode(ErrNotFound))
	assert.Equal(t, http.StatusConflict, StatusCode(ErrConflict))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusCode(ErrValidation))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(ErrStoreUnavailable))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))

	// Wrapped sentinels still map.
	wrapped := fmt.Errorf("image 7: %w", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, StatusCode(wrapped))
}

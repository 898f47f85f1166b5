package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})

	t.Run("wrapped domain error is preserved", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", NewNotFound("Ticket", nil))
		de := ToDomainError(err)
		assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
		assert.Equal(t, "Ticket not found", de.Message)
	})

	t.Run("fiber error keeps its status", func(t *testing.T) {
		de := ToDomainError(fiber.ErrMethodNotAllowed)
		assert.Equal(t, http.StatusMethodNotAllowed, de.HTTPStatus)
		assert.Equal(t, "METHOD_NOT_ALLOWED", de.Code)
	})

	t.Run("unknown error is internal", func(t *testing.T) {
		cause := errors.New("connection reset")
		de := ToDomainError(fmt.Errorf("insert ticket: %w", cause))
		assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
		assert.Equal(t, "internal server error", de.Message)
		assert.ErrorIs(t, de, cause)
	})
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, ToDomainError(NewValidationError("bad", nil)).HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, ToDomainError(NewBadRequest("empty")).HTTPStatus)
	assert.Equal(t, http.StatusServiceUnavailable, NewServiceUnavailable("DOWN", "down").HTTPStatus)
}

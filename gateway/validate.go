package gateway

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"beepit/errors"
)

// MaxContentLength is the maximum accepted message length, in characters.
const MaxContentLength = 5000

var validate = validator.New()

// validateContent rejects blank and oversized content before it reaches any
// state machine.
func validateContent(frame InboundFrame) error {
	if strings.TrimSpace(frame.Content) == "" {
		return errors.ErrEmptyContent
	}
	if err := validate.Struct(frame); err != nil {
		return errors.ErrContentTooLong
	}
	return nil
}

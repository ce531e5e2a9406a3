package progression

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pienaaranker/storypoints-sub000/internal/curriculum"
)

// ErrInvalidAttempt is returned by ValidateAttempt for attempts the engine
// must not see.
var ErrInvalidAttempt = errors.New("invalid attempt")

// Attempt is an attempt outcome as reported by the host UI.
type Attempt struct {
	Checkpoint curriculum.Checkpoint `validate:"required,checkpoint"`
	Success    bool
	Accuracy   float64 `validate:"gte=0,lte=1"`
}

// attemptValidate is shared by all callers; validator.Validate is safe for
// concurrent use once configured.
var attemptValidate *validator.Validate

func init() {
	attemptValidate = validator.New()
	_ = attemptValidate.RegisterValidation("checkpoint", validateCheckpoint)
}

func validateCheckpoint(fl validator.FieldLevel) bool {
	return curriculum.Checkpoint(fl.Field().String()).Known()
}

// ValidateAttempt checks an attempt before it is recorded. The engine itself
// does not clamp or reject values, so hosts call this at the boundary.
func ValidateAttempt(a Attempt) error {
	err := attemptValidate.Struct(a)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidAttempt, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "checkpoint":
			msgs = append(msgs, fmt.Sprintf("unknown checkpoint %q", fe.Value()))
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s, got %v", strings.ToLower(fe.Field()), fe.Tag(), fe.Param(), fe.Value()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidAttempt, strings.Join(msgs, "; "))
}

package tasks

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/akyairhashvil/streakboard/internal/config"
	"github.com/akyairhashvil/streakboard/internal/models"
)

// Validate is the shared validator instance for task input.
var Validate *validator.Validate

func init() {
	Validate = validator.New()
	if err := Validate.RegisterValidation("task_status", validateTaskStatus); err != nil {
		panic(fmt.Sprintf("failed to register task_status validator: %v", err))
	}
	if err := Validate.RegisterValidation("task_priority", validateTaskPriority); err != nil {
		panic(fmt.Sprintf("failed to register task_priority validator: %v", err))
	}
}

func validateTaskStatus(fl validator.FieldLevel) bool {
	return models.TaskStatus(fl.Field().String()).Valid()
}

func validateTaskPriority(fl validator.FieldLevel) bool {
	return models.Priority(fl.Field().String()).Valid()
}

// TaskInput is the caller-supplied part of a new task.
type TaskInput struct {
	Title         string     `validate:"required,max=100"`
	Description   string     `validate:"max=500"`
	Status        string     `validate:"omitempty,task_status"`
	Priority      string     `validate:"omitempty,task_priority"`
	DueDate       *time.Time `validate:"-"`
	Tags          []string   `validate:"-"`
	EstimatedTime *int64     `validate:"omitempty,min=0"`
}

// patchInput carries the set fields of a Patch. Nil fields are left alone.
type patchInput struct {
	Title         *string            `validate:"omitnil,required,max=100"`
	Description   *string            `validate:"omitnil,max=500"`
	Status        *models.TaskStatus `validate:"omitnil,task_status"`
	Priority      *models.Priority   `validate:"omitnil,task_priority"`
	EstimatedTime *int64             `validate:"omitnil,min=0"`
}

// FieldError is a validation failure scoped to one input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects field errors so a form can show each one inline.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid task: " + strings.Join(parts, "; ")
}

// For returns the message for field, or "".
func (e *ValidationError) For(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// SanitizeText trims whitespace and strips control characters other than
// newline and tab.
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}
	return sanitized.String()
}

func validateInput(in TaskInput) error {
	return validateStruct(in)
}

func validateStruct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return "must not be negative"
	case "task_status":
		return fmt.Sprintf("unknown status %q", fe.Value())
	case "task_priority":
		return fmt.Sprintf("unknown priority %q", fe.Value())
	default:
		return "is invalid"
	}
}

// ParseDue parses a due date typed as YYYY-MM-DD HH:MM (or a bare date, which
// means end of that day) in loc. Empty input means no due date.
func ParseDue(raw string, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(config.DueDateLayout, raw, loc); err == nil {
		return &t, nil
	}
	if d, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		t := d.Add(23*time.Hour + 59*time.Minute)
		return &t, nil
	}
	return nil, &ValidationError{Fields: []FieldError{{
		Field:   "DueDate",
		Message: "use YYYY-MM-DD HH:MM",
	}}}
}

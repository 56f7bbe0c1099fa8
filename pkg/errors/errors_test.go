package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeDuplicateStage, "stage %q already exists", "IF")

	if err.Code != ErrCodeDuplicateStage {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDuplicateStage)
	}

	if err.Message != `stage "IF" already exists` {
		t.Errorf("Message = %v, want %v", err.Message, `stage "IF" already exists`)
	}

	expected := `DUPLICATE_STAGE: stage "IF" already exists`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidConfig, cause, "load config")

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConfig)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "INVALID_CONFIG: load config: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidRoutingMode, "test"),
			code:     ErrCodeInvalidRoutingMode,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidRoutingMode, "test"),
			code:     ErrCodeDuplicateStage,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInvalidConfig, New(ErrCodeInvalidRoutingMode, "inner"), "outer"),
			code:     ErrCodeInvalidConfig,
			expected: true,
		},
		{
			name:     "std wrapped error",
			err:      errorsJoin(New(ErrCodeEmptyChain, "inner")),
			code:     ErrCodeEmptyChain,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func errorsJoin(err error) error {
	return errors.Join(errors.New("context"), err)
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeStageNotFound, "test"),
			expected: ErrCodeStageNotFound,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsValidation(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeInvalidRoutingMode, "x"), true},
		{New(ErrCodeInvalidColor, "x"), true},
		{New(ErrCodeInvalidFormat, "x"), true},
		{New(ErrCodeNotFound, "x"), false},
		{New(ErrCodeInternal, "x"), false},
		{errors.New("plain"), false},
	}

	for _, tt := range tests {
		if got := IsValidation(tt.err); got != tt.want {
			t.Errorf("IsValidation(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

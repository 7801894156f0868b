package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LogFilter supports activity history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "LOGIN", "EXPENSE_ADDED", ...
}

// Domain errors surfaced to handlers.
var (
	ErrAuthFailure     = errors.New("invalid email or password")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrInvalidToken    = errors.New("invalid token")
	ErrSessionNotFound = errors.New("session not found")
	ErrExpenseNotFound = errors.New("expense not found")
)

// ValidationError describes one or more rejected input fields.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Problems, "; ")
}

// validator collects problems so the caller sees all of them at once.
type validator struct {
	problems []string
}

func (v *validator) check(ok bool, format string, args ...any) {
	if !ok {
		v.problems = append(v.problems, fmt.Sprintf(format, args...))
	}
}

func (v *validator) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: v.problems}
}

package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Course
var (
	ErrEmptyCourseID       = errors.New("course ID cannot be empty")
	ErrEmptyCourseName     = errors.New("course name cannot be empty")
	ErrEmptyCourseLanguage = errors.New("course language cannot be empty")
)

// Course groups the items of a single language course. A course owns its
// items: deleting a course deletes every word, cloze sentence and character
// that belongs to it.
type Course struct {
	ID        uuid.UUID `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Language  string    `json:"language"   db:"language"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewCourse creates a new Course with a generated ID and fresh timestamps.
// Returns an error if validation fails.
func NewCourse(name, language string) (*Course, error) {
	now := time.Now().UTC()
	course := &Course{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Language:  strings.TrimSpace(language),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := course.Validate(); err != nil {
		return nil, err
	}

	return course, nil
}

// Validate checks if the Course has valid data.
func (c *Course) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCourseID
	}

	if c.Name == "" {
		return ErrEmptyCourseName
	}

	if c.Language == "" {
		return ErrEmptyCourseLanguage
	}

	return nil
}

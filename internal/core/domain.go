package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Direction = "income"
	Expense Direction = "expense"
)

// AllCategories is the sentinel category reference that matches every
// category. Real category IDs are autoincremented and start at 1.
const AllCategories int64 = 0

type (
	// Direction says whether a transaction adds to or subtracts from
	// the balance.
	Direction string

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID         int64
		Title      string
		Amount     Money
		OccurredAt time.Time
		CategoryID int64
		Direction  Direction
		PhotoPath  string // optional attachment, opaque to the engine
	}

	Category struct {
		ID   int64
		Name string
	}

	// Budget is a monthly spending limit for one category, or for all
	// categories when CategoryID is AllCategories. At most one budget
	// exists per (category, month, year); inserting a colliding key
	// replaces the prior value.
	Budget struct {
		ID         int64
		CategoryID int64
		Amount     Money
		Month      int // 1 = January, 12 = December
		Year       int
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidYear      = errors.New("invalid year")
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyName        = errors.New("empty category name")
	ErrInvalidBudget    = errors.New("invalid budget amount")
)

func (d Direction) Validate() error {
	switch d {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidDirection
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(t.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := t.Direction.Validate(); err != nil {
		return err
	}
	if t.OccurredAt.IsZero() {
		return errors.New("timestamp cannot be zero")
	}
	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	return nil
}

func (b Budget) Validate() error {
	if err := b.Amount.Validate(); err != nil {
		return ErrInvalidBudget
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if b.Year < 1000 || b.Year > 9999 {
		return ErrInvalidYear
	}
	return nil
}

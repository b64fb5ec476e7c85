package models

import (
	"time"

	"github.com/google/uuid"
)

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category classifies transactions
type Category struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	CreatedAt time.Time    `json:"created_at"`
}

type CategoryRequest struct {
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
}

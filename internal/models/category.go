package models

// Category classifies products. The name is the identifier: globally
// unique, immutable once created.
type Category struct {
	Name string `json:"name" gorm:"primaryKey;type:varchar(200)" validate:"required,max=200"`
}

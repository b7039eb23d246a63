package models

// Setting is the singleton site configuration row, seeded at startup.
type Setting struct {
	ID     uint `json:"id" db:"id" gorm:"primaryKey;autoIncrement;not null"`
	SignUp bool `json:"signUp" db:"sign_up" gorm:"not null;default:true"`
}

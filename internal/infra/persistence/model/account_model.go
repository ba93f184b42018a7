package model

import (
	"time"

	"campus/internal/domain/repository"
)

// AccountModel mirrors the 'accounts' table backing the local identity
// provider variant. Hosted-provider installs leave it empty.
type AccountModel struct {
	ID           string `gorm:"type:varchar(128);primary_key"`
	Email        string `gorm:"type:varchar(255);unique;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	FirstName    string `gorm:"type:varchar(100)"`
	LastName     string `gorm:"type:varchar(100)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain maps the persistence model to the repository's account type.
func (m *AccountModel) ToDomain() *repository.Account {
	return &repository.Account{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
	}
}

// FromAccountDomain maps an account to the persistence model.
func FromAccountDomain(account *repository.Account) *AccountModel {
	return &AccountModel{
		ID:           account.ID,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
	}
}

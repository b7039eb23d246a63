package database

import (
	"github.com/picboard/picboard-backend/models"
	"gorm.io/gorm"
)

type SettingRepo struct {
	db *gorm.DB
}

func NewSettingRepo(db *gorm.DB) *SettingRepo {
	return &SettingRepo{db}
}

// Seed makes sure the singleton settings row exists.
func (r *SettingRepo) Seed() error {
	var setting models.Setting
	return r.db.
		Attrs(models.Setting{SignUp: true}).
		FirstOrCreate(&setting).Error
}

func (r *SettingRepo) Get() (*models.Setting, error) {
	var setting models.Setting
	err := r.db.First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// ToggleSignUp flips the signup gate and returns the updated row.
func (r *SettingRepo) ToggleSignUp() (*models.Setting, error) {
	setting, err := r.Get()
	if err != nil {
		return nil, err
	}
	setting.SignUp = !setting.SignUp
	if err := r.db.Save(setting).Error; err != nil {
		return nil, err
	}
	return setting, nil
}

package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type User struct {
	BaseModel
	Name    string   `json:"name" gorm:"type:varchar(50);not null"`
	Folders []Folder `json:"-" gorm:"foreignKey:CreatedByID"`
	Files   []File   `json:"-" gorm:"foreignKey:CreatedByID"`
}

func (u *User) Validate() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Name,
			validation.Required.Error("name cannot be empty"),
			validation.Length(2, 50).Error("name must be between 2 and 50 characters"),
		),
	)
}

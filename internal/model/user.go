package model

import (
	"time"
)

type UserRole string

const (
	Agent UserRole = "agent"
	Coach UserRole = "coach"
	Admin UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('agent','coach','admin');default:'agent'" json:"role"`
	Location  string    `gorm:"size:100" json:"location"`   // 所属驻地，评分入库时随记录落库
	ReportsTo uint      `gorm:"index" json:"reportsTo"`     // 直属经理
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

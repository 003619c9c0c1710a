package model

import "time"

// MockCommand 针对命名空间与设备的自定义模拟命令
// 表名：mock_commands
// - Namespace: 命名空间名称（指向 simulate.yaml 中的 namespace，不强制外键）
// - DeviceName: 设备名称（SSH 登录用户名即设备名）
// - Command / Output: 模拟命令与回显，优先级高于内置生成器
// - Enabled: 是否启用
// 说明：为避免外键导致的迁移复杂度，此处只使用字符串关联

type MockCommand struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Namespace  string    `json:"namespace" gorm:"type:varchar(64);index;not null"`
	DeviceName string    `json:"device_name" gorm:"type:varchar(128);index;not null"`
	Command    string    `json:"command" gorm:"type:text;not null"`
	Output     string    `json:"output" gorm:"type:text;not null"`
	Enabled    bool      `json:"enabled" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (MockCommand) TableName() string { return "mock_commands" }

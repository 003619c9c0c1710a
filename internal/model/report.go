package model

import "time"

// Report 生成回显的归档记录
// 表名：reports
// 仅在请求方要求保存时写入，Path 为本地路径或对象存储 URI

type Report struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	DeviceIP  string    `json:"device_ip" gorm:"type:varchar(64);index;not null"`
	Command   string    `json:"command" gorm:"type:text;not null"`
	Backend   string    `json:"backend" gorm:"type:varchar(16);not null"`
	Path      string    `json:"path" gorm:"type:text;not null"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum" gorm:"type:varchar(64)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Report) TableName() string { return "reports" }

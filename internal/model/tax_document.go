package model

import (
	"time"
)

// TaxDocument 公司上传的税务资料，文件本体存 OSS
type TaxDocument struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CompanyID int64     `gorm:"not null;index" json:"companyId"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Category  string    `gorm:"size:30" json:"category,omitempty"` // invoice, statement, filing
	OSSKey    string    `gorm:"column:oss_key;size:255" json:"-"`
	URL       string    `gorm:"size:500" json:"url"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

func (TaxDocument) TableName() string {
	return "tax_documents"
}

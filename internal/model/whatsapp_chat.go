package model

// WhatsAppChat 通过 WhatsApp 向 Tuta 提问的记录
// swagger:model WhatsAppChat
type WhatsAppChat struct {
	UUIDBase
	UserID      string `gorm:"type:varchar(36);index" json:"userId,omitempty"`
	PhoneNumber string `gorm:"size:20;index" json:"phoneNumber"`
	Message     string `gorm:"type:text" json:"message"`
	Response    string `gorm:"type:text" json:"response"`
	AIModelUsed string `gorm:"size:100" json:"aiModelUsed"`
	LessonID    string `gorm:"type:varchar(36)" json:"lessonId,omitempty"`
}

func (WhatsAppChat) TableName() string {
	return "whatsapp_chats"
}

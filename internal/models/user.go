// Package models содержит доменные структуры панели администратора:
// пользователей, записи доступа к продуктам, продукты, страницы и категории.
// Все структуры являются проекцией данных удалённого бекенда —
// локальная копия никогда не считается источником истины.
package models

import "time"

// User представляет пользователя платформы, как его отдаёт админский API бекенда.
type User struct {
	ID             string          `json:"_id"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Country        string          `json:"country"`
	IsConfirmed    bool            `json:"isConfirmed"`
	CreatedAt      time.Time       `json:"createdAt"`
	ProductAccess  []ProductAccess `json:"productAccess"`
	AIInteractions []AIInteraction `json:"aiInteractions,omitempty"`
}

// ProductAccess описывает выданный пользователю доступ к продукту.
// EndDate может быть nil — такой доступ считается бессрочным и
// не подлежит сверке по времени.
type ProductAccess struct {
	ProductID   string     `json:"productId"`
	ProductName string     `json:"productName,omitempty"` // кэшированное имя продукта для отображения
	IsActive    bool       `json:"isActive"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	PromptLimit int        `json:"promptLimit,omitempty"`
	UsageCount  int        `json:"usageCount,omitempty"`
}

// Expired сообщает, истёк ли доступ к моменту now.
// Отсутствующая дата окончания означает бессрочный доступ.
func (pa ProductAccess) Expired(now time.Time) bool {
	return pa.EndDate != nil && !pa.EndDate.After(now)
}

// HasAccessTo сообщает, есть ли у пользователя запись доступа
// к продукту productID, независимо от её активности.
func (u *User) HasAccessTo(productID string) bool {
	for _, pa := range u.ProductAccess {
		if pa.ProductID == productID {
			return true
		}
	}
	return false
}

// AIInteraction — одна запись журнала обращений пользователя к ИИ.
type AIInteraction struct {
	ID        string    `json:"_id"`
	UserInput string    `json:"userInput"`
	AIOutput  string    `json:"aiOutput"`
	Timestamp time.Time `json:"timestamp"`
}

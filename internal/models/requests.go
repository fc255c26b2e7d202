package models

// Dummy-структуры используются для приёма данных из JSON-запросов
// до конвертации в доменные типы. Поля валидируются через validator.

// DummyLogin — запрос на вход оператора панели.
type DummyLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// DummyGrant — запрос на выдачу доступа к продукту.
type DummyGrant struct {
	ProductID string `json:"productId" validate:"required"`
}

// DummyProduct — запрос на создание или изменение продукта.
type DummyProduct struct {
	Name             string   `json:"name" validate:"required"`
	PromptLimit      int      `json:"promptLimit" validate:"gte=0"`
	AccessPeriodDays int      `json:"accessPeriodDays" validate:"required,gte=1,lte=365"`
	Pages            []string `json:"pages" validate:"required,min=1"`
	Categories       []string `json:"category" validate:"required,min=1"`
}

// DummyPage — запрос на создание или изменение страницы.
type DummyPage struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description"`
	Instructions string   `json:"instructions"`
	Categories   []string `json:"category" validate:"required,min=1"`
}

// DummyCategory — запрос на создание или изменение категории.
type DummyCategory struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// DummyBulkRemove — запрос на массовое удаление по списку идентификаторов.
type DummyBulkRemove struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

package models

import (
	"encoding/json"
	"errors"
)

// ErrUnexpectedShape возвращается, когда ответ бекенда не удаётся
// привести ни к одной из известных форм.
var ErrUnexpectedShape = errors.New("unexpected response shape")

// Ref — нормализованная ссылка на сущность каталога.
// Бекенд в одних ответах отдаёт голый идентификатор строкой,
// в других — объект с полем _id (результат populate в Mongo).
// Обе формы приводятся к Ref сразу на границе разбора JSON;
// дальше по коду живёт только идентификатор и, если было, имя.
type Ref struct {
	ID   string
	Name string
}

// UnmarshalJSON принимает либо строку-идентификатор, либо объект {_id, name}.
// Любая другая форма — ошибка разбора.
func (r *Ref) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		r.ID = id
		r.Name = ""
		return nil
	}
	var obj struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.ID == "" {
		return ErrUnexpectedShape
	}
	r.ID = obj.ID
	r.Name = obj.Name
	return nil
}

// MarshalJSON всегда сериализует ссылку в голый идентификатор —
// именно такую форму принимает бекенд при записи.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// RefIDs возвращает идентификаторы списка ссылок, сохраняя порядок.
func RefIDs(refs []Ref) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids
}

// Product — продукт: пакет доступа к набору страниц с лимитом запросов
// и сроком действия в днях.
type Product struct {
	ID               string `json:"_id"`
	Name             string `json:"name"`
	PromptLimit      int    `json:"promptLimit"`
	AccessPeriodDays int    `json:"accessPeriodDays"`
	Pages            []Ref  `json:"pages"`
	Categories       []Ref  `json:"category"`
}

// Page — статья с markdown-описанием и инструкциями для ИИ.
type Page struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Instructions string `json:"instructions"`
	Categories   []Ref  `json:"category"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

// Category — категория страниц.
type Category struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

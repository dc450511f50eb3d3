package model

import "fmt"

// Vehicle автомобиль из каталога, доступный для тест-драйва
type Vehicle struct {
	ID        string            `json:"id"`
	Make      string            `json:"make"`
	Model     string            `json:"model"`
	Year      int               `json:"year"`
	Type      string            `json:"type"`
	Price     int               `json:"price"` // в долларах
	Features  []string          `json:"features"`
	Specs     map[string]string `json:"specs,omitempty"`
	Available bool              `json:"available"`
}

// DisplayName имя для ответов клиенту
func (v Vehicle) DisplayName() string {
	return fmt.Sprintf("%s %s", v.Make, v.Model)
}

// VehicleFilter критерии поиска, пустые поля не учитываются
type VehicleFilter struct {
	Type     string
	Make     string
	Model    string
	MinPrice int
	MaxPrice int
}

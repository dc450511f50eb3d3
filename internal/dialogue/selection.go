package dialogue

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
)

// SelectionPolicy выбирает автомобиль из предложенных, когда клиент просто согласился.
// Кандидаты приходят в порядке каталога.
type SelectionPolicy func(candidates []model.Vehicle) (model.Vehicle, bool)

// FirstMatch первый кандидат в порядке каталога
func FirstMatch(candidates []model.Vehicle) (model.Vehicle, bool) {
	if len(candidates) == 0 {
		return model.Vehicle{}, false
	}
	return candidates[0], true
}

// HighestPrice самый дорогой, при равенстве - первый
func HighestPrice(candidates []model.Vehicle) (model.Vehicle, bool) {
	if len(candidates) == 0 {
		return model.Vehicle{}, false
	}
	best := candidates[0]
	for _, v := range candidates[1:] {
		if v.Price > best.Price {
			best = v
		}
	}
	return best, true
}

// LowestPrice самый дешёвый, при равенстве - первый
func LowestPrice(candidates []model.Vehicle) (model.Vehicle, bool) {
	if len(candidates) == 0 {
		return model.Vehicle{}, false
	}
	best := candidates[0]
	for _, v := range candidates[1:] {
		if v.Price < best.Price {
			best = v
		}
	}
	return best, true
}

// PolicyByName политика по имени из конфигурации
func PolicyByName(name string) (SelectionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "first":
		return FirstMatch, nil
	case "highest_price":
		return HighestPrice, nil
	case "lowest_price":
		return LowestPrice, nil
	default:
		return nil, fmt.Errorf("unknown selection policy %q", name)
	}
}

var ordinalPattern = regexp.MustCompile(`\b(first|second|third|1st|2nd|3rd|(?:option|number)\s*([1-3]))\b`)

// pickExplicit выбор, названный клиентом явно: модель или порядковый номер
func pickExplicit(utterance string, candidates []model.Vehicle) (model.Vehicle, bool) {
	lower := strings.ToLower(utterance)

	for _, v := range candidates {
		if strings.Contains(lower, strings.ToLower(v.Model)) {
			return v, true
		}
	}

	m := ordinalPattern.FindStringSubmatch(lower)
	if m == nil {
		return model.Vehicle{}, false
	}

	idx := -1
	switch {
	case m[1] == "first" || m[1] == "1st" || m[2] == "1":
		idx = 0
	case m[1] == "second" || m[1] == "2nd" || m[2] == "2":
		idx = 1
	case m[1] == "third" || m[1] == "3rd" || m[2] == "3":
		idx = 2
	}
	if idx < 0 || idx >= len(candidates) {
		return model.Vehicle{}, false
	}
	return candidates[idx], true
}

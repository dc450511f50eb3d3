package dialogue

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
)

// FormatPrice форматирует цену с разделителями тысяч: $32,000
func FormatPrice(price int) string {
	digits := strconv.Itoa(price)
	if price < 0 {
		digits = digits[1:]
	}

	var sb strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}

	if price < 0 {
		return "-$" + sb.String()
	}
	return "$" + sb.String()
}

// FormatDate форматирует YYYY-MM-DD с днём недели, иначе возвращает как есть
func FormatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2")
}

// FormatSlots первые limit слотов через запятую
func FormatSlots(slots []string, limit int) string {
	if limit > 0 && len(slots) > limit {
		return strings.Join(slots[:limit], ", ") + fmt.Sprintf(" and %d more", len(slots)-limit)
	}
	return strings.Join(slots, ", ")
}

// FormatVehicleOption строка списка предложений
func FormatVehicleOption(n int, v model.Vehicle) string {
	features := v.Features
	if len(features) > 3 {
		features = features[:3]
	}
	return fmt.Sprintf("%d. %s %s - %d\n   Features: %s\n   Price: %s\n",
		n, v.Make, v.Model, v.Year, strings.Join(features, ", "), FormatPrice(v.Price))
}

// FormatVehicleList краткий список: "- Toyota Camry (2024), $27,000"
func FormatVehicleList(vehicles []model.Vehicle) string {
	lines := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		lines = append(lines, fmt.Sprintf("- %s %s (%d), %s", v.Make, v.Model, v.Year, FormatPrice(v.Price)))
	}
	return strings.Join(lines, "\n")
}

// FormatVehicleDetails полное описание автомобиля
func FormatVehicleDetails(v model.Vehicle) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s (%d)\n", v.Make, v.Model, v.Year)
	fmt.Fprintf(&sb, "Type: %s\n", v.Type)
	fmt.Fprintf(&sb, "Price: %s\n", FormatPrice(v.Price))
	fmt.Fprintf(&sb, "Features: %s\n", strings.Join(v.Features, ", "))

	if len(v.Specs) > 0 {
		keys := make([]string, 0, len(v.Specs))
		for k := range v.Specs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		specs := make([]string, 0, len(keys))
		for _, k := range keys {
			specs = append(specs, fmt.Sprintf("%s: %s", strings.ReplaceAll(k, "_", " "), v.Specs[k]))
		}
		fmt.Fprintf(&sb, "Specifications: %s", strings.Join(specs, "; "))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// pluralType SUV -> SUVs
func pluralType(vehicleType string) string {
	if vehicleType == "" {
		return "vehicles"
	}
	return vehicleType + "s"
}

package intent

import (
	"regexp"
	"strings"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
)

var (
	bookingPattern      = regexp.MustCompile(`\bbook\b|\bbooking\b|\bschedul|\bappointment|\btest[\s-]*drive`)
	confirmationPattern = regexp.MustCompile(`\b(yes|yeah|yep|sure|okay|ok|proceed|confirm|confirmed)\b`)
	cancellationPattern = regexp.MustCompile(`\bcancel|\bno thanks\b|\bnever\s*mind\b|^\s*(no|nope)\b`)

	vehicleTypePattern = regexp.MustCompile(`\b(suv|sedan|truck|coupe|hatchback)s?\b`)
	isoDatePattern     = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	meridiemPattern    = regexp.MustCompile(`\b\d{1,2}(?::\d{2})?\s*(?:(?:am|pm)\b|a\.m\.|p\.m\.)`)
	clockPattern       = regexp.MustCompile(`\b(?:[01]?\d|2[0-3]):[0-5]\d\b`)
	phonePattern       = regexp.MustCompile(`\+?\(?\d[\d\s().-]{5,}\d`)
	namePattern        = regexp.MustCompile(`(?i)\bmy name is\s+([a-z][a-z'-]*(?:\s+[a-z][a-z'-]*)?)`)
)

// Keyword детерминированный классификатор по ключевым словам.
// Тотальная функция: на любой ввод возвращает намерение.
type Keyword struct{}

func NewKeyword() *Keyword {
	return &Keyword{}
}

// Classify определяет намерение. Более поздние правила перекрывают ранние:
// бронирование < подтверждение < отмена.
func (k *Keyword) Classify(utterance string) model.Intent {
	lower := strings.ToLower(utterance)

	result := model.Intent{Kind: model.IntentGeneralInquiry}

	if bookingPattern.MatchString(lower) {
		result.Kind = model.IntentTestDriveBooking
	}
	if confirmationPattern.MatchString(lower) {
		result.Kind = model.IntentConfirmation
	}
	if cancellationPattern.MatchString(lower) {
		result.Kind = model.IntentCancellation
	}

	if m := vehicleTypePattern.FindStringSubmatch(lower); m != nil {
		result.VehicleType = strings.ToUpper(m[1])
	}

	switch {
	case strings.Contains(lower, "tomorrow"):
		result.Date = "tomorrow"
	case strings.Contains(lower, "today"):
		result.Date = "today"
	default:
		result.Date = isoDatePattern.FindString(lower)
	}

	if m := meridiemPattern.FindString(lower); m != "" {
		result.Time = m
	} else {
		result.Time = clockPattern.FindString(lower)
	}

	result.CustomerPhone = extractPhone(lower)

	if m := namePattern.FindStringSubmatch(utterance); m != nil {
		name := strings.TrimSpace(m[1])
		if strings.HasSuffix(strings.ToLower(name), " and") {
			name = name[:len(name)-len(" and")]
		}
		result.CustomerName = name
	}

	return result
}

// extractPhone ищет номер из 7+ цифр, даты и время не считаются
func extractPhone(lower string) string {
	text := isoDatePattern.ReplaceAllString(lower, " ")
	text = meridiemPattern.ReplaceAllString(text, " ")
	text = clockPattern.ReplaceAllString(text, " ")

	for _, candidate := range phonePattern.FindAllString(text, -1) {
		digits := 0
		for _, r := range candidate {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 7 {
			return strings.TrimSpace(candidate)
		}
	}
	return ""
}

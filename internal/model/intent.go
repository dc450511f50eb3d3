package model

type IntentKind string

const (
	IntentTestDriveBooking   IntentKind = "test_drive_booking"
	IntentInformationRequest IntentKind = "information_request"
	IntentConfirmation       IntentKind = "confirmation"
	IntentCancellation       IntentKind = "cancellation"
	IntentGeneralInquiry     IntentKind = "general_inquiry"
)

// Valid известен ли тип намерения
func (k IntentKind) Valid() bool {
	switch k {
	case IntentTestDriveBooking, IntentInformationRequest, IntentConfirmation,
		IntentCancellation, IntentGeneralInquiry:
		return true
	}
	return false
}

// Intent результат классификации реплики
type Intent struct {
	Kind          IntentKind `json:"intent"`
	VehicleType   string     `json:"vehicle_type,omitempty"`
	Model         string     `json:"model,omitempty"`
	Date          string     `json:"date,omitempty"`
	Time          string     `json:"time,omitempty"`
	CustomerName  string     `json:"customer_name,omitempty"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
}

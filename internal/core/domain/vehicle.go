package domain

// OwnerData identifies the registered owner of a vehicle.
type OwnerData struct {
	Name             string `json:"name"`
	FatherName       string `json:"father_name"`
	PresentAddress   string `json:"present_address"`
	PermanentAddress string `json:"permanent_address"`
	Serial           int    `json:"serial"`
}

// VehicleData holds the technical description of the vehicle.
type VehicleData struct {
	ManufacturedDate    string `json:"manufactured_date"`
	CategoryDescription string `json:"category_description"`
	ChassisNumber       string `json:"chassis_number"`
	EngineNumber        string `json:"engine_number"`
	MakerDescription    string `json:"maker_description"`
	MakerModel          string `json:"maker_model"`
	BodyType            string `json:"body_type"`
	FuelType            string `json:"fuel_type"`
	Color               string `json:"color"`
	CubicCapacity       string `json:"cubic_capacity"`
	UnladenWeight       string `json:"unladen_weight"`
	NumberOfCylinders   string `json:"number_of_cylinders"`
	SeatingCapacity     string `json:"seating_capacity"`
	Wheelbase           string `json:"wheelbase"`
}

// InsuranceData holds the active insurance policy details.
type InsuranceData struct {
	ExpiryDate   string `json:"expiry_date"`
	Company      string `json:"company"`
	PolicyNumber string `json:"policy_number"`
}

// VehicleRecord is the normalised registration record returned by a lookup,
// independent of the upstream provider's field layout.
type VehicleRecord struct {
	IssueDate    string        `json:"issue_date"`
	ExpiryDate   string        `json:"expiry_date"`
	RegisteredAt string        `json:"registered_at"`
	NormsType    string        `json:"norms_type"`
	Financier    string        `json:"financier"`
	Financed     bool          `json:"financed"`
	Owner        OwnerData     `json:"owner_data"`
	Vehicle      VehicleData   `json:"vehicle_data"`
	Insurance    InsuranceData `json:"insurance_data"`
	TaxEndDate   string        `json:"tax_end_date"`
	Status       string        `json:"status"`
	StatusAsOn   string        `json:"status_as_on"`
}

package domain

// StockItem is a medicine listing entry with its available quantity.
type StockItem struct {
	MedicineID           string          `json:"medicineId"`
	MedicineName         string          `json:"medicineName"`
	Quantity             int             `json:"quantity"`
	Category             string          `json:"category"`
	DosageForm           string          `json:"dosageForm"`
	Manufacturer         string          `json:"manufacturer"`
	Classification       string          `json:"classification"`
	RequiresPrescription bool            `json:"requiresPrescription"`
	Pharmacy             PharmacySummary `json:"pharmacy"`
}

// Pharmacy is a managed pharmacy record.
type Pharmacy struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	OwnerUserID string `json:"ownerUserId"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Employee is a staff record attached to a pharmacy.
type Employee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	PharmacyID string `json:"pharmacyId"`
}

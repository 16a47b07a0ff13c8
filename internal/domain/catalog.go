package domain

type Branch struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"isActive"`
}

func (b Branch) RecordID() string { return b.ID }

type Medicine struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	GenericName string  `json:"genericName,omitempty"`
	Category    string  `json:"category,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	Price       float64 `json:"price"`
}

func (m Medicine) RecordID() string { return m.ID }

type InventoryItem struct {
	ID           string `json:"id"`
	BranchID     string `json:"branchId"`
	MedicineID   string `json:"medicineId"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorderLevel"`
	BatchNo      string `json:"batchNo,omitempty"`
	ExpiryDate   string `json:"expiryDate,omitempty"`
}

func (i InventoryItem) RecordID() string { return i.ID }

// LowStock reports whether the item is at or below its reorder level.
func (i InventoryItem) LowStock() bool {
	return i.Quantity <= i.ReorderLevel
}

type InventoryView struct {
	InventoryItem
	Medicine *Medicine `json:"medicine,omitempty"`
}

type BillStatus string

const (
	BillUnpaid  BillStatus = "UNPAID"
	BillPartial BillStatus = "PARTIAL"
	BillPaid    BillStatus = "PAID"
)

type Bill struct {
	ID            string     `json:"id"`
	BillNo        string     `json:"billNo"`
	PatientID     string     `json:"patientId"`
	AppointmentID string     `json:"appointmentId,omitempty"`
	Amount        float64    `json:"amount"`
	Paid          float64    `json:"paid"`
	Status        BillStatus `json:"status"`
	IssuedAt      string     `json:"issuedAt"`
}

func (b Bill) RecordID() string { return b.ID }

type Room struct {
	ID       string `json:"id"`
	BranchID string `json:"branchId"`
	RoomNo   string `json:"roomNo"`
	Type     string `json:"type"`
	Floor    int    `json:"floor"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
}

func (r Room) RecordID() string { return r.ID }

type LabTestType struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category,omitempty"`
	Price           float64 `json:"price"`
	TurnaroundHours int     `json:"turnaroundHours"`
}

func (l LabTestType) RecordID() string { return l.ID }

package models

// Supplier, Item and Employee are master data owned elsewhere; this
// service only reads them for lookups and the daily-view join.

type Supplier struct {
	ID           string `gorm:"primaryKey" json:"id"`
	SupplierName string `json:"supplierName"`
}

type Item struct {
	ID       string `gorm:"primaryKey" json:"id"`
	ItemDesc string `json:"itemDesc"`
}

type Employee struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Name string `gorm:"index" json:"name"`
}

// NameAndID is the shape the selection forms consume.
type NameAndID struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

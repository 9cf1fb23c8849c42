package models

import "errors"

// ErrUserNotFound is returned by snapshot sources when no records exist for a user.
var ErrUserNotFound = errors.New("user not found")

// User is the read snapshot of one owner's records.
type User struct {
	Email         string        `bson:"email" json:"email"`
	Firstname     string        `bson:"firstname" json:"firstname"`
	Lastname      string        `bson:"lastname" json:"lastname"`
	Fields        []Field       `bson:"fields" json:"fields"`
	OtherExpenses []Expense     `bson:"otherExpenses" json:"otherExpenses"`
	OtherProfits  []OtherProfit `bson:"otherProfits" json:"otherProfits"`

	// Running totals maintained by the write path. Analytics never reads them.
	TotalExpenses Numeric `bson:"totalExpenses" json:"totalExpenses"`
	TotalProfits  Numeric `bson:"totalProfits" json:"totalProfits"`
}

// Field is a tracked parcel of land, identified by its location name.
type Field struct {
	Location   string  `bson:"location" json:"location"`
	Size       Numeric `bson:"size" json:"size"`
	OliveTrees Numeric `bson:"oliveNo" json:"oliveNo"`
	Cubics     Numeric `bson:"cubics" json:"cubics"`
	Price      Numeric `bson:"price" json:"price"`

	Expenses        []Expense    `bson:"expenses" json:"expenses"`
	SackProductions []Production `bson:"sacksProduction" json:"sacksProduction"`
	OilProductions  []Production `bson:"oilProduction" json:"oilProduction"`
	SackSales       []SackSale   `bson:"sackSales" json:"sackSales"`
	OilSales        []OilSale    `bson:"oilSales" json:"oilSales"`

	AvailableSacks Numeric `bson:"availableSacks" json:"availableSacks"`
	AvailableOil   Numeric `bson:"availableOil" json:"availableOil"`
	TotalExpenses  Numeric `bson:"totalExpenses" json:"totalExpenses"`
	TotalProfits   Numeric `bson:"totalProfits" json:"totalProfits"`
}

// Expense captures a single cost entry, either on a field or unattached.
type Expense struct {
	Task  string  `bson:"task" json:"task"`
	Date  Date    `bson:"date" json:"date"`
	Cost  Numeric `bson:"cost" json:"cost"`
	Notes string  `bson:"notes" json:"notes"`
}

// Production is one harvest ledger entry (sacks or oil kilograms).
type Production struct {
	Quantity Numeric `bson:"quantity" json:"quantity"`
	Date     Date    `bson:"date" json:"date"`
}

// OilSale captures oil sold by the kilogram.
type OilSale struct {
	KilogramsSold    Numeric `bson:"oilSold" json:"oilSold"`
	PricePerKilogram Numeric `bson:"pricePerKilo" json:"pricePerKilo"`
	Date             Date    `bson:"date" json:"date"`
}

// SackSale captures sacks sold at a per-sack price.
type SackSale struct {
	SacksSold    Numeric `bson:"sacksSold" json:"sacksSold"`
	PricePerSack Numeric `bson:"price" json:"price"`
	Date         Date    `bson:"date" json:"date"`
}

// OtherProfit is income not tied to a field.
type OtherProfit struct {
	Amount Numeric `bson:"profit" json:"profit"`
	Date   Date    `bson:"date" json:"date"`
	Notes  string  `bson:"notes" json:"notes"`
}

package models

import "time"

// SeasonReport is the per-user season digest stored in MongoDB.
type SeasonReport struct {
	ID                    string    `bson:"_id" json:"id"`
	Email                 string    `bson:"email" json:"email"`
	Season                string    `bson:"season" json:"season"`
	TotalExpenses         Numeric   `bson:"total_expenses" json:"total_expenses"`
	TotalProfits          Numeric   `bson:"total_profits" json:"total_profits"`
	NetProfit             Numeric   `bson:"net_profit" json:"net_profit"`
	FieldWithMostExpenses string    `bson:"field_with_most_expenses" json:"field_with_most_expenses"`
	FieldWithMostProfits  string    `bson:"field_with_most_profits" json:"field_with_most_profits"`
	CreatedAt             time.Time `bson:"created_at" json:"created_at"`
}

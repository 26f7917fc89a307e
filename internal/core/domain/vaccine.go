package domain

import "time"

// Vaccine is a catalog entry offered by a vaccination center.
type Vaccine struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Manufacturer string    `json:"manufacturer" bson:"manufacturer"`
	Disease      string    `json:"disease" bson:"disease"`
	PriceVnd     int64     `json:"priceVnd" bson:"price_vnd"`
	Doses        int       `json:"doses" bson:"doses"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty"`
	CenterName   string    `json:"centerName,omitempty" bson:"center_name,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

package models

import "time"

// Product categories. Kept as strings on the wire.
const (
	CategoryVegetables = "vegetables"
	CategoryFruits     = "fruits"
	CategorySpices     = "spices"
	CategoryGrains     = "grains"
	CategoryPulses     = "pulses"
	CategoryDairy      = "dairy"
)

var ProductCategories = []string{
	CategoryVegetables,
	CategoryFruits,
	CategorySpices,
	CategoryGrains,
	CategoryPulses,
	CategoryDairy,
}

func ValidCategory(c string) bool {
	for _, v := range ProductCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Product is a listed crop or good.
//
// InStock and Quantity are stored independently: sellers toggle InStock
// manually and the two are allowed to disagree.
type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	Unit        string    `json:"unit" bson:"unit"`
	Category    string    `json:"category" bson:"category"`
	Organic     bool      `json:"organic" bson:"organic"`
	InStock     bool      `json:"inStock" bson:"inStock"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	Image       string    `json:"image" bson:"image"`
	FarmerID    string    `json:"farmerId" bson:"farmerId"`
	Farmer      *Farmer   `json:"farmer,omitempty" bson:"-"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Farmer is the display slice of a User embedded in product responses.
type Farmer struct {
	ID       string `json:"id" bson:"_id"`
	Name     string `json:"name" bson:"name"`
	Location string `json:"location" bson:"location"`
	Image    string `json:"image" bson:"image"`
}

// ProductUpdate carries the mutable fields for a partial update. Pointers
// distinguish "absent" from zero values.
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Organic     *bool    `json:"organic,omitempty"`
	InStock     *bool    `json:"inStock,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	Image       *string  `json:"image,omitempty"`
}

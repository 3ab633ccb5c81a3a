package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a purchasable house plan. Plans submitted by professionals
// carry the author and go through review before they are listed.
type Product struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name         string              `bson:"name" json:"name"`
	ProductNo    string              `bson:"productNo,omitempty" json:"productNo,omitempty"`
	Description  string              `bson:"description" json:"description"`
	Category     string              `bson:"category" json:"category"`
	PlanType     string              `bson:"planType,omitempty" json:"planType,omitempty"`
	PropertyType string              `bson:"propertyType,omitempty" json:"propertyType,omitempty"`
	Country      []string            `bson:"country,omitempty" json:"country,omitempty"`
	Direction    string              `bson:"direction,omitempty" json:"direction,omitempty"`
	Plot         Plot                `bson:"plot" json:"plot"`
	Rooms        Rooms               `bson:"rooms" json:"rooms"`
	Price        float64             `bson:"price" json:"price"`
	SalePrice    float64             `bson:"salePrice,omitempty" json:"salePrice,omitempty"`
	Images       []string            `bson:"images" json:"images"`
	PlanFiles    []string            `bson:"planFiles" json:"-"`
	Author       *primitive.ObjectID `bson:"author,omitempty" json:"author,omitempty"`
	Status       ApprovalStatus      `bson:"status" json:"status"`
	ReviewNote   string              `bson:"reviewNote,omitempty" json:"reviewNote,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type Plot struct {
	Width  float64 `bson:"width" json:"width"`
	Length float64 `bson:"length" json:"length"`
	Area   float64 `bson:"area" json:"area"`
}

type Rooms struct {
	Bedrooms  int `bson:"bedrooms" json:"bedrooms"`
	Bathrooms int `bson:"bathrooms" json:"bathrooms"`
	Floors    int `bson:"floors" json:"floors"`
}

// HasPlanFile reports whether the product has at least one downloadable file.
func (p *Product) HasPlanFile() bool {
	return p != nil && len(p.PlanFiles) > 0 && p.PlanFiles[0] != ""
}

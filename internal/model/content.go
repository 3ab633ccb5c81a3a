package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InquiryStatus string

const (
	InquiryNew       InquiryStatus = "new"
	InquiryContacted InquiryStatus = "contacted"
	InquiryClosed    InquiryStatus = "closed"
)

func (s InquiryStatus) Valid() bool {
	return s == InquiryNew || s == InquiryContacted || s == InquiryClosed
}

type Inquiry struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name      string              `bson:"name" json:"name"`
	Email     string              `bson:"email" json:"email"`
	Phone     string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Message   string              `bson:"message" json:"message"`
	Product   *primitive.ObjectID `bson:"product,omitempty" json:"product,omitempty"`
	User      *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	Status    InquiryStatus       `bson:"status" json:"status"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

type BlogPost struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Slug       string             `bson:"slug" json:"slug"`
	Content    string             `bson:"content" json:"content"`
	Excerpt    string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	CoverImage string             `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	Tags       []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Author     primitive.ObjectID `bson:"author" json:"author"`
	Published  bool               `bson:"published" json:"published"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type GalleryItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Category  string             `bson:"category,omitempty" json:"category,omitempty"`
	ImageURL  string             `bson:"imageUrl" json:"imageUrl"`
	ImageKey  string             `bson:"imageKey" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

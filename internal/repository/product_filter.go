package repository

import (
	"regexp"
	"strings"

	"plan-marketplace/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// ProductQuery carries the optional listing parameters. Zero values mean
// "no constraint".
type ProductQuery struct {
	Search       string
	Category     string
	Country      string
	Direction    string
	PropertyType string
	MinBudget    *float64
	MaxBudget    *float64
	MinArea      *float64
	MaxArea      *float64
	Author       *primitive.ObjectID
	Status       model.ApprovalStatus
	Sort         string
	Pagination
}

// Older plan documents stored their category under different keys.
var legacyCategoryFields = []string{"category", "planCategory", "planType", "subCategory"}

var searchFields = []string{"name", "description", "productNo", "category", "planType"}

// categoryBuckets maps a storefront bucket to the spellings found in the
// legacy category fields.
var categoryBuckets = map[string]string{
	"residential": `residential|house|villa|bungalow|duplex`,
	"commercial":  `commercial|office|shop|retail|showroom`,
	"apartment":   `apartment|flat|multi[- ]?family`,
	"farmhouse":   `farm ?house`,
	"interior":    `interior`,
	"elevation":   `elevation|3d`,
}

// BuildProductFilter assembles the Mongo filter for a listing request.
// Every present parameter adds one clause; clauses are ANDed.
func BuildProductFilter(q ProductQuery) bson.M {
	var clauses []bson.M

	if q.Status != "" {
		clauses = append(clauses, bson.M{"status": q.Status})
	}
	if q.Author != nil {
		clauses = append(clauses, bson.M{"author": *q.Author})
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		clauses = append(clauses, anyFieldMatches(searchFields, regexp.QuoteMeta(s)))
	}
	if c := strings.TrimSpace(q.Category); c != "" {
		clauses = append(clauses, anyFieldMatches(legacyCategoryFields, categoryPattern(c)))
	}
	if r := rangeClause("price", q.MinBudget, q.MaxBudget); r != nil {
		clauses = append(clauses, r)
	}
	if r := rangeClause("plot.area", q.MinArea, q.MaxArea); r != nil {
		clauses = append(clauses, r)
	}
	if q.Country != "" {
		clauses = append(clauses, bson.M{"country": q.Country})
	}
	if q.Direction != "" {
		clauses = append(clauses, bson.M{"direction": q.Direction})
	}
	if q.PropertyType != "" {
		clauses = append(clauses, bson.M{"propertyType": q.PropertyType})
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0]
	}
	return bson.M{"$and": clauses}
}

// ProductSort returns the sort document for a sort key; unknown keys
// fall back to newest first.
func ProductSort(key string) bson.D {
	switch key {
	case SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: -1}}
	case SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: -1}}
	}
	return bson.D{{Key: "_id", Value: -1}}
}

func categoryPattern(category string) string {
	if pattern, ok := categoryBuckets[strings.ToLower(category)]; ok {
		return pattern
	}
	return "^" + regexp.QuoteMeta(category) + "$"
}

func anyFieldMatches(fields []string, pattern string) bson.M {
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: primitive.Regex{Pattern: pattern, Options: "i"}})
	}
	return bson.M{"$or": or}
}

func rangeClause(field string, min, max *float64) bson.M {
	if min == nil && max == nil {
		return nil
	}
	bounds := bson.M{}
	if min != nil {
		bounds["$gte"] = *min
	}
	if max != nil {
		bounds["$lte"] = *max
	}
	return bson.M{field: bounds}
}

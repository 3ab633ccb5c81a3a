package repository

import (
	"testing"

	"plan-marketplace/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ptr(f float64) *float64 { return &f }

func TestBuildProductFilter_Empty(t *testing.T) {
	assert.Equal(t, bson.M{}, BuildProductFilter(ProductQuery{}))
}

func TestBuildProductFilter_SingleClause(t *testing.T) {
	filter := BuildProductFilter(ProductQuery{Status: model.StatusApproved})
	assert.Equal(t, bson.M{"status": model.StatusApproved}, filter)
}

func TestBuildProductFilter_CombinesClauses(t *testing.T) {
	author := primitive.NewObjectID()
	filter := BuildProductFilter(ProductQuery{
		Status:    model.StatusApproved,
		Author:    &author,
		MinBudget: ptr(1000),
		MaxArea:   ptr(2400),
		Country:   "India",
	})

	and, ok := filter["$and"].([]bson.M)
	require.True(t, ok)
	assert.Contains(t, and, bson.M{"status": model.StatusApproved})
	assert.Contains(t, and, bson.M{"author": author})
	assert.Contains(t, and, bson.M{"price": bson.M{"$gte": 1000.0}})
	assert.Contains(t, and, bson.M{"plot.area": bson.M{"$lte": 2400.0}})
	assert.Contains(t, and, bson.M{"country": "India"})
}

func TestBuildProductFilter_SearchIsEscaped(t *testing.T) {
	filter := BuildProductFilter(ProductQuery{Search: "3bhk (east)"})

	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, len(searchFields))
	assert.Equal(t, bson.M{"name": primitive.Regex{Pattern: `3bhk \(east\)`, Options: "i"}}, or[0])
}

func TestBuildProductFilter_CategoryBucket(t *testing.T) {
	filter := BuildProductFilter(ProductQuery{Category: "Residential"})

	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, len(legacyCategoryFields))
	for i, field := range legacyCategoryFields {
		assert.Equal(t, bson.M{field: primitive.Regex{Pattern: categoryBuckets["residential"], Options: "i"}}, or[i])
	}
}

func TestBuildProductFilter_UnknownCategoryMatchesExactly(t *testing.T) {
	filter := BuildProductFilter(ProductQuery{Category: "Row House"})

	or := filter["$or"].(bson.A)
	assert.Equal(t, bson.M{"category": primitive.Regex{Pattern: `^Row House$`, Options: "i"}}, or[0])
}

func TestProductSort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: -1}}, ProductSort(SortPriceAsc))
	assert.Equal(t, bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: -1}}, ProductSort(SortPriceDesc))
	assert.Equal(t, bson.D{{Key: "_id", Value: -1}}, ProductSort(SortNewest))
	assert.Equal(t, bson.D{{Key: "_id", Value: -1}}, ProductSort("bogus"))
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name  string
		in    Pagination
		want  Pagination
		skip  int64
		pages int
	}{
		{"defaults", Pagination{}, Pagination{Page: 1, Limit: DefaultPageSize}, 0, 3},
		{"third page", Pagination{Page: 3, Limit: 10}, Pagination{Page: 3, Limit: 10}, 20, 3},
		{"limit clamped", Pagination{Page: 1, Limit: 1000}, Pagination{Page: 1, Limit: MaxPageSize}, 0, 1},
		{"negative page", Pagination{Page: -2, Limit: 5}, Pagination{Page: 1, Limit: 5}, 0, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
			assert.Equal(t, tt.skip, tt.in.Skip())
			assert.Equal(t, tt.pages, tt.in.Pages(30))
		})
	}

	assert.Zero(t, Pagination{}.Pages(0))
}

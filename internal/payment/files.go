package payment

import (
	"plan-marketplace/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FilesFor lists the download entitlement of a paid order: one entry per
// order line whose product is known and has a plan file. Lines whose
// product is gone or has no file are skipped.
func FilesFor(items []model.OrderItem, products []*model.Product) []model.DownloadableFile {
	byID := make(map[primitive.ObjectID]*model.Product, len(products))
	for _, p := range products {
		if p != nil {
			byID[p.ID] = p
		}
	}

	files := make([]model.DownloadableFile, 0, len(items))
	for _, item := range items {
		p, ok := byID[item.Product]
		if !ok || !p.HasPlanFile() {
			continue
		}
		files = append(files, model.DownloadableFile{
			ProductName: p.Name,
			FileURL:     p.PlanFiles[0],
		})
	}
	return files
}

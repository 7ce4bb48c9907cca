package productivity

import "strings"

// RawProduct is a product entry as delivered by the external job source.
type RawProduct struct {
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalValue  float64 `json:"totalValue"`
}

// RawJob is an upstream job before import.
type RawJob struct {
	ExternalID string
	Title      string
	ClientName string
	Products   []RawProduct
}

type AreaSummary struct {
	Items         []LineItem
	AreaM2        float64
	TotalItems    int
	TotalQuantity float64
}

// AreaAggregator derives dimensions, family and areas for every product of a
// job. It has no side effects; the same input always yields the same summary.
type AreaAggregator struct {
	taxonomy Taxonomy
}

func NewAreaAggregator(taxonomy Taxonomy) AreaAggregator {
	return AreaAggregator{taxonomy: taxonomy}
}

func (a AreaAggregator) Aggregate(products []RawProduct) AreaSummary {
	summary := AreaSummary{Items: make([]LineItem, 0, len(products))}
	for i, p := range products {
		item := a.lineItem(i, p)
		if item.TotalAreaM2 != nil {
			summary.AreaM2 += *item.TotalAreaM2
		}
		summary.TotalQuantity += item.Quantity
		summary.Items = append(summary.Items, item)
	}
	summary.AreaM2 = Round2(summary.AreaM2)
	summary.TotalItems = len(summary.Items)
	return summary
}

func (a AreaAggregator) lineItem(index int, p RawProduct) LineItem {
	dims := ExtractDimensions(p.Description).MergeMissing(ExtractDimensions(p.Name))
	class := a.taxonomy.Classify(p.Name)

	quantity := p.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	item := LineItem{
		SourceIndex:              index,
		Name:                     strings.TrimSpace(p.Name),
		RawDescription:           p.Description,
		Quantity:                 quantity,
		WidthM:                   dims.WidthM,
		HeightM:                  dims.HeightM,
		Copies:                   dims.Copies,
		FamilyName:               class.FamilyName,
		ClassificationConfidence: class.Confidence,
		UnitPrice:                p.UnitPrice,
		TotalValue:               p.TotalValue,
	}
	if dims.WidthM != nil && dims.HeightM != nil {
		unitArea := Round2(*dims.WidthM * *dims.HeightM)
		total := Round2(*dims.WidthM * *dims.HeightM * quantity * float64(dims.Copies))
		item.UnitAreaM2 = &unitArea
		item.TotalAreaM2 = &total
	}
	return item
}

package schema

import "github.com/de-tools/sales-atlas/pkg/models/domain"

// Canonical roles shared by the built-in mappings.
const (
	RoleDate      = "date"
	RoleProduct   = "product"
	RoleSKU       = "sku"
	RoleWarehouse = "feeder_wh"
	RoleCity      = "city"
	RoleCampaign  = "campaign"

	MetricRevenue  = "revenue"
	MetricQuantity = "quantity"
	MetricSpend    = "spend"
	MetricAdSales  = "ad_sales"
)

func dateField(synonyms ...string) domain.FieldSpec {
	return domain.FieldSpec{Role: RoleDate, Kind: domain.FieldKindDate, Display: "Date", Synonyms: synonyms}
}

func dimension(role, display string, synonyms ...string) domain.FieldSpec {
	return domain.FieldSpec{Role: role, Kind: domain.FieldKindDimension, Display: display, Synonyms: synonyms}
}

func metric(role, display string, synonyms ...string) domain.FieldSpec {
	return domain.FieldSpec{Role: role, Kind: domain.FieldKindMetric, Display: display, Synonyms: synonyms}
}

// DefaultMappings returns the column tables of the channels the reports read today.
func DefaultMappings() []domain.SourceMapping {
	return []domain.SourceMapping{
		{
			SourceType: "blinkit_sales",
			Channel:    "Blinkit",
			Fields: []domain.FieldSpec{
				dateField("order_date", "order date", "date"),
				dimension(RoleWarehouse, "Feeder WH", "feeder_wh", "feeder warehouse", "warehouse"),
				dimension(RoleSKU, "SKU", "sku", "sku id", "item id"),
				dimension(RoleProduct, "Product", "product", "product name", "item_name"),
				dimension(RoleCity, "City", "city", "customer city"),
				metric(MetricQuantity, "Units", "quantity", "qty", "units sold"),
				metric(MetricRevenue, "Net Rev", "net_revenue", "net revenue", "total_gross_bill_amount", "gmv", "revenue"),
			},
		},
		{
			SourceType: "blinkit_ads",
			Channel:    "Blinkit",
			Fields: []domain.FieldSpec{
				dateField("date", "metrics_date"),
				dimension(RoleProduct, "Product", "product_name", "product name", "product"),
				dimension(RoleCampaign, "Campaign", "campaign_name", "campaign name"),
				metric(MetricSpend, "Ad Spend", "estimated_budget_consumed", "estimated budget consumed", "ad_spend", "spend"),
				metric(MetricAdSales, "Ad Sales", "direct_sales", "direct sales"),
			},
			Markers: []string{"CAMPAIGN_NAME", "campaign id"},
		},
		{
			SourceType: "swiggy_sales",
			Channel:    "Swiggy",
			Fields: []domain.FieldSpec{
				dateField("order_date", "ordered_date", "date", "created_at"),
				dimension(RoleProduct, "Product", "product_name", "item_name", "product", "item", "sku"),
				dimension(RoleCity, "City", "city", "area_name"),
				metric(MetricQuantity, "Units", "units_sold", "quantity", "qty"),
				metric(MetricRevenue, "Gross Sales", "gmv", "net_revenue", "item_total", "total_bill_amount", "gross_sales", "revenue"),
			},
		},
		{
			SourceType: "swiggy_ads",
			Channel:    "Swiggy",
			Fields: []domain.FieldSpec{
				dateField("date", "metrics_date", "created_at"),
				dimension(RoleProduct, "Product", "product_name", "product", "item_name"),
				dimension(RoleCampaign, "Campaign", "campaign_name", "campaign name"),
				metric(MetricSpend, "Ad Spend", "estimated_budget_consumed", "ad_spend", "total_budget_burnt", "spend"),
				metric(MetricAdSales, "Ad Sales", "direct_sales", "total_direct_gmv_7_days", "ad_revenue", "sales"),
			},
			Markers: []string{"CAMPAIGN_NAME"},
		},
		{
			SourceType: "amazon_sales",
			Channel:    "Amazon",
			Fields: []domain.FieldSpec{
				dateField("date"),
				dimension(RoleProduct, "Product", "product", "title", "(parent) asin", "parent_asin"),
				metric(MetricQuantity, "Units", "units_sold", "units_ordered", "units ordered"),
				metric(MetricRevenue, "Revenue", "net_revenue", "ordered_product_sales", "ordered product sales"),
			},
		},
		{
			SourceType: "amazon_ads",
			Channel:    "Amazon",
			Fields: []domain.FieldSpec{
				dateField("date"),
				dimension(RoleProduct, "Product", "product", "advertised product"),
				metric(MetricSpend, "Ad Spend", "spend_inr", "spend"),
			},
		},
		{
			SourceType: "flipkart_sales",
			Channel:    "Flipkart",
			Fields: []domain.FieldSpec{
				dateField("order date", "date"),
				dimension(RoleSKU, "SKU", "sku id", "sku"),
				dimension(RoleProduct, "Product", "product"),
				metric(MetricQuantity, "Units", "final sale units", "units_sold"),
				metric(MetricRevenue, "Net Rev", "net revenue", "net_revenue", "gmv", "gross_revenue"),
			},
		},
		{
			SourceType: "shopify_sales",
			Channel:    "Shopify",
			Fields: []domain.FieldSpec{
				dateField("order date", "order_date", "day", "date"),
				dimension(RoleProduct, "Product", "product title at time of sale", "product_title_at_time", "product title", "product"),
				metric(MetricQuantity, "Units", "units sold", "units_sold", "quantity_ordered", "net items sold"),
				metric(MetricRevenue, "Revenue", "total_sales", "total sales", "gross sales", "gross_sales"),
			},
		},
	}
}

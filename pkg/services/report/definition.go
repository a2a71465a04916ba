package report

import (
	"fmt"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/comparison"
	"github.com/de-tools/sales-atlas/pkg/services/schema"
	"github.com/spf13/viper"
)

// Definition is a named comparison report. Sources are listed in label
// precedence order.
type Definition struct {
	Name          string              `mapstructure:"name"`
	Title         string              `mapstructure:"title"`
	Sources       []string            `mapstructure:"sources"`
	Dimensions    []string            `mapstructure:"dimensions"`
	Periods       []domain.PeriodSpec `mapstructure:"periods"`
	Current       string              `mapstructure:"current"`
	Baseline      string              `mapstructure:"baseline"`
	RankingMetric string              `mapstructure:"ranking_metric"`
	RankingPeriod string              `mapstructure:"ranking_period"`
	Metrics       []string            `mapstructure:"metrics"`
	GrowthMetrics []string            `mapstructure:"growth_metrics"`
	Ratios        []domain.RatioSpec  `mapstructure:"ratios"`
	FoldKeys      bool                `mapstructure:"fold_keys"`
	Share         bool                `mapstructure:"share"`
}

func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("report name cannot be empty")
	}
	if len(d.Sources) == 0 {
		return fmt.Errorf("report %q has no sources", d.Name)
	}
	return nil
}

// Spec turns the definition into an engine request anchored at anchor.
func (d Definition) Spec(anchor time.Time) comparison.Spec {
	title := d.Title
	if title == "" {
		title = d.Name
	}
	return comparison.Spec{
		Title:         title,
		Dimensions:    d.Dimensions,
		Periods:       d.Periods,
		Anchor:        anchor,
		Current:       d.Current,
		Baseline:      d.Baseline,
		RankingMetric: d.RankingMetric,
		RankingPeriod: d.RankingPeriod,
		Metrics:       d.Metrics,
		GrowthMetrics: d.GrowthMetrics,
		Ratios:        d.Ratios,
		FoldKeys:      d.FoldKeys,
		Share:         d.Share,
	}
}

func adSpend(name, title, ads, sales string) Definition {
	return Definition{
		Name:          name,
		Title:         title,
		Sources:       []string{ads, sales},
		Dimensions:    []string{schema.RoleProduct},
		Periods:       []domain.PeriodSpec{domain.PeriodD1, domain.PeriodCurrent},
		Current:       domain.PeriodCurrent.Name,
		Baseline:      domain.PeriodD1.Name,
		RankingMetric: schema.MetricRevenue,
		Metrics:       []string{schema.MetricRevenue, schema.MetricSpend, schema.MetricAdSales},
		GrowthMetrics: []string{schema.MetricRevenue, schema.MetricSpend},
		Ratios: []domain.RatioSpec{
			{Name: "roas", Display: "ROAS", Numerator: schema.MetricRevenue, Denominator: schema.MetricSpend},
			{Name: "direct_roas", Display: "Direct ROAS", Numerator: schema.MetricAdSales, Denominator: schema.MetricSpend},
		},
		FoldKeys: true,
	}
}

// DefaultDefinitions returns the reports available without a reports file.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Name:          "blinkit_citywise",
			Title:         "Blinkit Warehouse x SKU",
			Sources:       []string{"blinkit_sales"},
			Dimensions:    []string{schema.RoleWarehouse, schema.RoleSKU},
			Periods:       []domain.PeriodSpec{domain.PeriodD7, domain.PeriodD1, domain.PeriodCurrent},
			Current:       domain.PeriodCurrent.Name,
			Baseline:      domain.PeriodD7.Name,
			RankingMetric: schema.MetricQuantity,
			Metrics:       []string{schema.MetricQuantity, schema.MetricRevenue},
			GrowthMetrics: []string{schema.MetricRevenue},
			Share:         true,
		},
		adSpend("blinkit_ad_spend", "Blinkit Ad Spend vs Sales", "blinkit_ads", "blinkit_sales"),
		adSpend("swiggy_ad_spend", "Swiggy Ad Spend vs Sales", "swiggy_ads", "swiggy_sales"),
		{
			Name:          "channel_overview",
			Title:         "Channel Overview",
			Sources:       []string{"blinkit_sales", "swiggy_sales", "amazon_sales", "flipkart_sales", "shopify_sales"},
			Dimensions:    []string{domain.ChannelRole, schema.RoleProduct},
			Periods:       []domain.PeriodSpec{domain.PeriodD7, domain.PeriodD1, domain.PeriodCurrent},
			Current:       domain.PeriodCurrent.Name,
			Baseline:      domain.PeriodD1.Name,
			RankingMetric: schema.MetricRevenue,
			Metrics:       []string{schema.MetricRevenue, schema.MetricQuantity},
			GrowthMetrics: []string{schema.MetricRevenue},
			FoldKeys:      true,
		},
	}
}

type definitionsFile struct {
	Reports []Definition `mapstructure:"reports"`
}

// LoadDefinitions reads report definitions from path. File entries replace the
// defaults of the same name.
func LoadDefinitions(path string) ([]Definition, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read reports file: %w", err)
	}

	var file definitionsFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to parse reports file: %w", err)
	}

	byName := make(map[string]int)
	defs := DefaultDefinitions()
	for i, d := range defs {
		byName[d.Name] = i
	}
	for _, d := range file.Reports {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if i, ok := byName[d.Name]; ok {
			defs[i] = d
			continue
		}
		byName[d.Name] = len(defs)
		defs = append(defs, d)
	}
	return defs, nil
}

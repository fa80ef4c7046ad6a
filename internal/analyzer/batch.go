// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyzer

import (
	"context"
	"fmt"
	"sort"

	"github.com/pdiddy/rentscope/pkg/types"
)

// Batch analyzes the addresses strictly in order and returns comparison
// rows ranked by gross yield weighted by data quality. A failed address
// is reported to the progress writer and skipped; an empty input yields
// an empty slice.
func (a *Analyzer) Batch(ctx context.Context, addresses []string) ([]types.BatchEntry, error) {
	entries := make([]types.BatchEntry, 0, len(addresses))

	for i, addr := range addresses {
		select {
		case <-ctx.Done():
			return entries, ctx.Err()
		default:
		}

		fmt.Fprintf(a.w, "processing %d/%d: %s\n", i+1, len(addresses), addr)

		analysis, err := a.Analyze(ctx, addr, AnalyzeOptions{})
		if err != nil {
			fmt.Fprintf(a.w, "failed  %s: %v\n", addr, err)
			continue
		}

		quality := analysis.DataQuality.OverallScore
		entries = append(entries, types.BatchEntry{
			Address:          addr,
			Neighborhood:     analysis.Location.Neighborhood,
			Bedrooms:         analysis.Property.Bedrooms,
			PredictedRent:    analysis.Revenue.PredictedMonthlyRent,
			GrossYield:       analysis.Financial.GrossRentalYield,
			MonthlyCashFlow:  analysis.Financial.MonthlyCashFlow,
			Recommendation:   analysis.Recommendation.Recommendation,
			OverallRisk:      string(analysis.Risk.OverallRisk),
			DataQualityScore: quality,
			WeightedScore:    analysis.Financial.GrossRentalYield * float64(quality) / 100,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].WeightedScore > entries[j].WeightedScore
	})

	fmt.Fprintf(a.w, "batch complete: %d of %d addresses analyzed\n", len(entries), len(addresses))
	return entries, nil
}

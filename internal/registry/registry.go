// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry resolves street addresses against NYC Department of
// Finance assessment and sales records. Resolution tries an exact match
// on the standardized address first, then a fuzzy search by street
// number validated with a similarity gate against the original input.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/rentscope/internal/address"
	"github.com/pdiddy/rentscope/internal/httputil"
	"github.com/pdiddy/rentscope/pkg/types"
)

// Dataset endpoints. Declared as vars so tests can substitute httptest
// servers.
var (
	nycAssessmentBase = "https://data.cityofnewyork.us/resource/8y4t-faws.json"
	nycSalesBase      = "https://data.cityofnewyork.us/resource/w2pb-icbu.json"
)

// similarityThreshold gates fuzzy candidates: anything below 0.75
// similarity to the input address is rejected rather than risk analyzing
// the wrong building.
const similarityThreshold = 0.75

const defaultMaxCandidates = 20

// Resolver looks up property records in the city registry.
type Resolver struct {
	Client        *http.Client
	AppToken      string
	Limiter       *httputil.Limiter
	MinDelay      time.Duration
	MaxCandidates int
}

// NewResolver returns a Resolver with defaults applied.
func NewResolver(client *http.Client, appToken string, limiter *httputil.Limiter, cfg types.RegistryConfig) *Resolver {
	minDelay := cfg.MinDelay
	if minDelay <= 0 {
		minDelay = time.Second
	}
	maxCandidates := cfg.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}
	return &Resolver{
		Client:        client,
		AppToken:      appToken,
		Limiter:       limiter,
		MinDelay:      minDelay,
		MaxCandidates: maxCandidates,
	}
}

type assessmentRow struct {
	Address       string `json:"address"`
	BuildingClass string `json:"bldgcl"`
	UnitsRes      string `json:"unitsres"`
	BuildingArea  string `json:"bldgarea"`
	YearBuilt     string `json:"yearbuilt"`
	AssessedTotal string `json:"avtot"`
}

type saleRow struct {
	SalePrice string `json:"sale_price"`
	SaleDate  string `json:"sale_date"`
}

// Lookup resolves addr to a registry property record. The second return
// is false when no record matched; lookup failures are treated the same
// way so the caller can fall through to estimation.
func (r *Resolver) Lookup(ctx context.Context, addr string) (*types.PropertyRecord, bool) {
	r.Limiter.Wait("nyc_property", r.MinDelay)

	standardized := address.Standardize(addr)

	if rec := r.exactMatch(ctx, standardized); rec != nil {
		return rec, true
	}

	candidates, err := r.fuzzySearch(ctx, addr)
	if err != nil || len(candidates) == 0 {
		return nil, false
	}

	best := bestMatch(addr, candidates)
	if best == nil {
		return nil, false
	}

	sales, _ := r.recentSales(ctx, best.Address)
	return buildRecord(*best, sales), true
}

func (r *Resolver) exactMatch(ctx context.Context, standardized string) *types.PropertyRecord {
	params := url.Values{
		"$where": {fmt.Sprintf("upper(address) = '%s'", escapeSoQL(standardized))},
		"$limit": {"1"},
	}

	var rows []assessmentRow
	if err := r.get(ctx, nycAssessmentBase, params, &rows); err != nil || len(rows) == 0 {
		return nil
	}

	sales, _ := r.recentSales(ctx, standardized)
	return buildRecord(rows[0], sales)
}

func (r *Resolver) fuzzySearch(ctx context.Context, addr string) ([]assessmentRow, error) {
	number := address.StreetNumber(addr)
	if number == "" {
		return nil, nil
	}

	params := url.Values{
		"$where": {fmt.Sprintf("address LIKE '%s%%'", number)},
		"$limit": {strconv.Itoa(r.MaxCandidates)},
		"$order": {"bldgarea DESC"},
	}

	var rows []assessmentRow
	if err := r.get(ctx, nycAssessmentBase, params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// bestMatch picks the candidate most similar to the input address, or
// nil when none clears the similarity gate. Similarity is scored against
// the original input rather than its standardized form, so the gate sees
// the address the user actually typed.
func bestMatch(input string, candidates []assessmentRow) *assessmentRow {
	var best *assessmentRow
	bestScore := 0.0

	for i := range candidates {
		if candidates[i].Address == "" {
			continue
		}
		score := address.Similarity(input, candidates[i].Address)
		if score > bestScore && score >= similarityThreshold {
			bestScore = score
			best = &candidates[i]
		}
	}
	return best
}

func (r *Resolver) recentSales(ctx context.Context, searchAddr string) ([]saleRow, error) {
	params := url.Values{
		"$where": {fmt.Sprintf("upper(address) LIKE upper('%%%s%%')", escapeSoQL(searchAddr))},
		"$limit": {"5"},
		"$order": {"sale_date DESC"},
	}

	var rows []saleRow
	if err := r.get(ctx, nycSalesBase, params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Resolver) get(ctx context.Context, base string, params url.Values, out interface{}) error {
	if r.AppToken != "" {
		params.Set("$app_token", r.AppToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, r.Client, req, 0)
	if err != nil {
		return fmt.Errorf("registry API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry API returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing registry response: %w", err)
	}
	return nil
}

// escapeSoQL doubles single quotes for safe embedding in a SoQL string
// literal.
func escapeSoQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// buildRecord derives a property record from an assessment row and any
// recent sales. Derivations follow DOF conventions: building class maps
// to ownership type, average unit size to a bedroom count, and an
// assessed value stands in when no credible sale exists.
func buildRecord(assessment assessmentRow, sales []saleRow) *types.PropertyRecord {
	propertyType := propertyTypeFromClass(assessment.BuildingClass)

	totalUnits := atoiDefault(assessment.UnitsRes, 1)
	if totalUnits <= 0 {
		totalUnits = 1
	}
	buildingArea := atoiDefault(assessment.BuildingArea, 0)
	yearBuilt := atoiDefault(assessment.YearBuilt, 1980)
	if yearBuilt == 0 {
		yearBuilt = 1980
	}

	avgUnitSize := 800.0
	if buildingArea > 0 {
		avgUnitSize = float64(buildingArea) / float64(totalUnits)
	}

	var bedrooms int
	var bathrooms float64
	switch {
	case avgUnitSize < 600:
		bedrooms, bathrooms = 1, 1.0
	case avgUnitSize < 900:
		bedrooms, bathrooms = 2, 1.5
	case avgUnitSize < 1400:
		bedrooms, bathrooms = 3, 2.0
	default:
		bedrooms, bathrooms = 4, 2.5
	}

	lastSalePrice := 800000.0
	lastSaleDate := "2020-01-01"
	for _, sale := range sales {
		price, err := strconv.ParseFloat(sale.SalePrice, 64)
		if err == nil && price > 100000 {
			lastSalePrice = price
			if sale.SaleDate != "" {
				lastSaleDate = sale.SaleDate
			}
		}
		break
	}

	// No credible sale on file: back into market value from the assessed
	// total, which runs at roughly half of market.
	if lastSalePrice == 800000.0 {
		if assessed, err := strconv.ParseFloat(assessment.AssessedTotal, 64); err == nil && assessed > 0 {
			lastSalePrice = assessed / 0.5
		}
	}

	sqft := int(avgUnitSize)
	if sqft < 400 {
		sqft = 400
	}
	if yearBuilt < 1900 {
		yearBuilt = 1900
	}
	if lastSalePrice < 300000 {
		lastSalePrice = 300000
	}

	return &types.PropertyRecord{
		Address:       assessment.Address,
		PropertyType:  propertyType,
		Bedrooms:      bedrooms,
		Bathrooms:     bathrooms,
		Sqft:          sqft,
		YearBuilt:     yearBuilt,
		LastSalePrice: lastSalePrice,
		LastSaleDate:  lastSaleDate,
		Source:        types.SourceRegistry,
		Quality:       types.QualityHigh,
	}
}

// propertyTypeFromClass maps a DOF building class to an ownership type.
func propertyTypeFromClass(class string) string {
	if class == "" {
		class = "R4"
	}
	switch {
	case strings.HasPrefix(class, "R"):
		switch class {
		case "R4", "R6", "R7", "R8", "R9":
			return "Condo"
		default:
			return "Co-op"
		}
	case strings.HasPrefix(class, "C"):
		return "Co-op"
	default:
		return "Condo"
	}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return int(v)
}

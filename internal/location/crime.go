// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package location

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/rentscope/internal/geo"
	"github.com/pdiddy/rentscope/internal/httputil"
	"github.com/pdiddy/rentscope/pkg/types"
)

// nycCrimeBase is the NYPD complaint dataset endpoint. Declared as a var
// so tests can substitute an httptest server.
var nycCrimeBase = "https://data.cityofnewyork.us/resource/5uac-w243.json"

// crimeLookbackDays limits incidents to the trailing two years.
const crimeLookbackDays = 730

// Safety score bounds. A block with no reported incidents scores 95; the
// floor is 25 no matter how heavy the incident load.
const (
	minSafetyScore = 25.0
	maxSafetyScore = 95.0
)

// crimeWeights grades offense severity by NYPD classification.
var crimeWeights = map[string]float64{
	"MURDER & NON-NEGL. MANSLAUGHTER": 15.0,
	"RAPE":                            12.0,
	"ROBBERY":                         8.0,
	"FELONY ASSAULT":                  7.0,
	"BURGLARY":                        5.0,
	"GRAND LARCENY":                   4.0,
	"GRAND LARCENY OF MOTOR VEHICLE":  4.0,
	"PETIT LARCENY":                   2.0,
	"ASSAULT 3 & RELATED OFFENSES":    3.0,
	"CRIMINAL MISCHIEF & RELATED OF":  1.5,
	"HARRASSMENT 2":                   1.0,
	"MISCELLANEOUS PENAL LAW":         0.5,
	"OFFENSES AGAINST PUBLIC ADMINI":  0.5,
	"THEFT-FRAUD":                     2.5,
	"SEX CRIMES":                      8.0,
	"DANGEROUS WEAPONS":               6.0,
	"DRUG/NARCOTIC VIOLATIONS":        2.0,
}

// CrimeCollector queries NYPD complaint data and turns incidents into a
// 0-100 safety score (higher is safer).
type CrimeCollector struct {
	Client   *http.Client
	AppToken string
	Limiter  *httputil.Limiter
	MinDelay time.Duration

	// now is swappable for tests of temporal weighting.
	now func() time.Time
}

// NewCrimeCollector returns a collector with a real clock.
func NewCrimeCollector(client *http.Client, appToken string, limiter *httputil.Limiter, minDelay time.Duration) *CrimeCollector {
	if minDelay <= 0 {
		minDelay = time.Second
	}
	return &CrimeCollector{
		Client:   client,
		AppToken: appToken,
		Limiter:  limiter,
		MinDelay: minDelay,
		now:      time.Now,
	}
}

type crimeRow struct {
	OffenseDesc string `json:"ofns_desc"`
	LawCategory string `json:"law_cat_cd"`
	Date        string `json:"cmplnt_fr_dt"`
}

// Collect fetches incidents within radiusMiles of the coordinates and
// scores them. On any fetch failure it falls back to a distance-based
// estimate drawn from rng; the second return reports whether live data
// produced the score.
func (c *CrimeCollector) Collect(ctx context.Context, lat, lng, radiusMiles float64, rng *rand.Rand) (float64, bool) {
	if radiusMiles <= 0 {
		radiusMiles = 0.5
	}

	incidents, err := c.fetch(ctx, lat, lng, radiusMiles)
	if err != nil {
		return EstimateCrimeScore(lat, lng, rng), false
	}
	return c.Score(incidents), true
}

func (c *CrimeCollector) fetch(ctx context.Context, lat, lng, radiusMiles float64) ([]types.CrimeIncident, error) {
	c.Limiter.Wait("nyc_crime", c.MinDelay)

	latOff, lngOff := geo.BoundingOffsets(lat, radiusMiles)
	startDate := c.now().AddDate(0, 0, -crimeLookbackDays).Format("2006-01-02")

	where := fmt.Sprintf(
		"latitude BETWEEN %f AND %f AND longitude BETWEEN %f AND %f AND cmplnt_fr_dt >= '%s' AND latitude IS NOT NULL AND longitude IS NOT NULL",
		lat-latOff, lat+latOff, lng-lngOff, lng+lngOff, startDate)

	params := url.Values{
		"$where":  {where},
		"$select": {"ofns_desc, law_cat_cd, cmplnt_fr_dt"},
		"$limit":  {"50000"},
	}
	if c.AppToken != "" {
		params.Set("$app_token", c.AppToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nycCrimeBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("crime API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crime API returned HTTP %d", resp.StatusCode)
	}

	var rows []crimeRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("parsing crime response: %w", err)
	}

	incidents := make([]types.CrimeIncident, 0, len(rows))
	for _, row := range rows {
		inc := types.CrimeIncident{
			OffenseDescription: row.OffenseDesc,
			LawCategory:        row.LawCategory,
		}
		if len(row.Date) >= 10 {
			if t, err := time.Parse("2006-01-02", row.Date[:10]); err == nil {
				inc.Date = t
			}
		}
		incidents = append(incidents, inc)
	}
	return incidents, nil
}

// Score turns a set of incidents into a safety score. Severity weights
// are scaled up for felonies and recent incidents, then the weighted sum
// is mapped through a piecewise curve and clamped to [25, 95].
func (c *CrimeCollector) Score(incidents []types.CrimeIncident) float64 {
	if len(incidents) == 0 {
		return maxSafetyScore
	}

	now := c.now()
	var weighted float64
	felonies := 0
	recent := 0

	for _, inc := range incidents {
		weight, ok := crimeWeights[strings.ToUpper(inc.OffenseDescription)]
		if !ok {
			weight = 1.0
		}

		if inc.LawCategory == "FELONY" {
			weight *= 1.5
			felonies++
		}

		if !inc.Date.IsZero() {
			daysAgo := int(now.Sub(inc.Date).Hours() / 24)
			switch {
			case daysAgo <= 90:
				weight *= 1.5
				recent++
			case daysAgo <= 365:
				weight *= 1.2
			default:
				weight *= 0.8
			}
		}

		weighted += weight
	}

	var score float64
	switch {
	case weighted == 0:
		score = 95.0
	case weighted < 5:
		score = 90.0 - weighted
	case weighted < 15:
		score = 85.0 - (weighted-5)*1.5
	case weighted < 30:
		score = 70.0 - (weighted-15)*1.2
	case weighted < 50:
		score = 52.0 - (weighted-30)*0.8
	default:
		score = 35.0 - (weighted-50)*0.3
		if score < minSafetyScore {
			score = minSafetyScore
		}
	}

	if recent > 5 {
		score *= 0.9
	}
	if felonies > 3 {
		score *= 0.85
	}

	if score < minSafetyScore {
		score = minSafetyScore
	}
	if score > maxSafetyScore {
		score = maxSafetyScore
	}
	return round1(score)
}

// EstimateCrimeScore approximates safety from distance to the Manhattan
// core when incident data is unavailable.
func EstimateCrimeScore(lat, lng float64, rng *rand.Rand) float64 {
	d := geo.DistanceToManhattan(lat, lng)
	switch {
	case d <= 2:
		return uniform(rng, 70, 85)
	case d <= 5:
		return uniform(rng, 75, 90)
	case d <= 10:
		return uniform(rng, 65, 80)
	default:
		return uniform(rng, 60, 75)
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

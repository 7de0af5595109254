package dataset

import (
	"math"
	"sort"

	"github.com/skloese/claimfreq/pkg/log"
)

type termKey struct {
	client int
	year   int
}

// Assemble aggregates claims per (client, year), left-joins the aggregates
// onto the policy terms and fills terms without claims with zero count and
// amount. Terms with any missing field are dropped; that is a data-quality
// filter, not an error, and the dropped count is logged. Exposure is set to
// the constant 1.0 full policy year.
func Assemble(policies []Policy, claims []Claim) []Term {
	type aggregate struct {
		count  float64
		amount float64
	}
	agg := make(map[termKey]aggregate, len(claims))
	for _, c := range claims {
		k := termKey{client: c.ClientID, year: c.Year}
		a := agg[k]
		a.count++
		a.amount += c.Amount
		agg[k] = a
	}

	terms := make([]Term, 0, len(policies))
	dropped := 0
	for _, p := range policies {
		if incomplete(p) {
			dropped++
			continue
		}
		a := agg[termKey{client: p.ClientID, year: p.Year}]
		terms = append(terms, Term{
			Policy:      p,
			ClaimCount:  a.count,
			ClaimAmount: a.amount,
			Exposure:    1.0,
		})
	}

	sort.SliceStable(terms, func(i, j int) bool {
		if terms[i].ClientID != terms[j].ClientID {
			return terms[i].ClientID < terms[j].ClientID
		}
		return terms[i].Year < terms[j].Year
	})

	log.Stage("assemble").Info().
		Int(log.RowsKey, len(terms)).
		Int(log.DroppedKey, dropped).
		Msg("assembled policy terms")
	return terms
}

func incomplete(p Policy) bool {
	for _, f := range NumericFields() {
		v, _ := p.Numeric(f)
		if math.IsNaN(v) {
			return true
		}
	}
	for _, f := range CategoricalFields() {
		v, _ := p.Categorical(f)
		if v == "" {
			return true
		}
	}
	return false
}

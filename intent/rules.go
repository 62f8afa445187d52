// Package intent provides the heuristic scoring of outbound message text.
// It is an explicit, versioned rule table rather than NLP: three disjoint
// keyword families, evaluated by decreasing priority, highest match wins.
package intent

import "courier-lab/domain"

// Family names a keyword group of the rule table.
type Family string

const (
	FamilyPrice    Family = "price"
	FamilyPurchase Family = "purchase"
	FamilyPayment  Family = "payment"
)

// Rule maps one keyword family to its score delta and optional stage
// proposal. Keywords are matched on normalized runes (see normalize.go),
// so multi-word phrases and accented forms both work.
type Rule struct {
	Family   Family
	Keywords []string
	Delta    int
	Stage    *domain.Stage
	Priority int
}

// RuleSet is versioned so the table can be swapped without touching the
// stage machine or the scorer.
type RuleSet struct {
	Version int
	Rules   []Rule
}

func stagePtr(s domain.Stage) *domain.Stage { return &s }

// DefaultRules is ruleset v1.
func DefaultRules() RuleSet {
	return RuleSet{
		Version: 1,
		Rules: []Rule{
			{
				Family:   FamilyPayment,
				Priority: 3,
				Delta:    30,
				Stage:    stagePtr(domain.StageClosing),
				Keywords: []string{
					"pagar", "pago", "transferencia", "deposito",
					"tarjeta", "factura", "payment", "invoice",
					"wire transfer",
				},
			},
			{
				Family:   FamilyPurchase,
				Priority: 2,
				Delta:    20,
				Stage:    stagePtr(domain.StageQualified),
				Keywords: []string{
					"comprar", "pedido", "me interesa", "lo quiero",
					"buy", "purchase", "interested",
				},
			},
			{
				Family:   FamilyPrice,
				Priority: 1,
				Delta:    10,
				Keywords: []string{
					"precio", "cuanto cuesta", "cotizacion", "tarifa",
					"price", "quote", "how much",
				},
			},
		},
	}
}

package usecase

import (
	"fmt"
	"log"

	"github.com/prezzoscout/backend/internal/domain"
)

// AggregateResult is the validated offer set plus its summary statistics.
type AggregateResult struct {
	Offers       []domain.Offer
	BestPrice    float64
	AveragePrice float64
}

// OfferAggregator validates raw model offers and computes price statistics.
type OfferAggregator struct {
	stores *StoreDirectory
}

// NewOfferAggregator creates an aggregator resolving links through stores.
func NewOfferAggregator(stores *StoreDirectory) *OfferAggregator {
	return &OfferAggregator{stores: stores}
}

// Aggregate normalizes every raw offer, silently dropping those with
// invalid prices, and resolves a purchase link for each survivor. Offers
// keep the order the model returned them in. If nothing survives it fails
// with ErrNoOffersFound; no partial result is ever produced.
func (a *OfferAggregator) Aggregate(raw []domain.RawOffer, key SearchKey, sources []domain.GroundingSource) (*AggregateResult, error) {
	var accepted []domain.Offer

	for _, offer := range raw {
		price, err := NormalizePrice(offer.Price)
		if err != nil {
			log.Printf("[AGGREGATE] dropping offer from %q: %v", offer.Store, err)
			continue
		}

		accepted = append(accepted, domain.Offer{
			Store:       offer.Store,
			Price:       price,
			Currency:    "EUR",
			Link:        a.stores.ResolveLink(offer.Store, key, sources),
			Description: offer.Description,
		})
	}

	if len(accepted) == 0 {
		return nil, fmt.Errorf("%w: %d raw offers rejected", domain.ErrNoOffersFound, len(raw))
	}

	best := accepted[0].Price
	sum := 0.0
	for _, o := range accepted {
		if o.Price < best {
			best = o.Price
		}
		sum += o.Price
	}

	return &AggregateResult{
		Offers:       accepted,
		BestPrice:    best,
		AveragePrice: sum / float64(len(accepted)),
	}, nil
}

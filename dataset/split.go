package dataset

import (
	"math/rand"
	"sort"

	"github.com/skloese/claimfreq/pkg/errors"
	"github.com/skloese/claimfreq/pkg/log"
)

// SplitByClient partitions terms into train and test sets by distinct client
// identifier, so every term of a given client lands entirely in one
// partition. fraction is the share of distinct clients assigned to train;
// partition sizes are therefore only approximately that share by row count.
// The shuffle is seeded for reproducibility.
func SplitByClient(terms []Term, fraction float64, seed int64) (train, test []Term, err error) {
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, errors.NewValueError("SplitByClient", "fraction must be in (0, 1)")
	}
	if len(terms) == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, "SplitByClient")
	}

	seen := make(map[int]struct{})
	clients := make([]int, 0)
	for _, t := range terms {
		if _, ok := seen[t.ClientID]; !ok {
			seen[t.ClientID] = struct{}{}
			clients = append(clients, t.ClientID)
		}
	}
	// Deterministic order before the seeded shuffle, independent of the
	// incoming row order.
	sort.Ints(clients)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(clients), func(i, j int) {
		clients[i], clients[j] = clients[j], clients[i]
	})

	cut := int(float64(len(clients)) * fraction)
	inTrain := make(map[int]bool, cut)
	for _, c := range clients[:cut] {
		inTrain[c] = true
	}

	for _, t := range terms {
		if inTrain[t.ClientID] {
			train = append(train, t)
		} else {
			test = append(test, t)
		}
	}

	log.Stage("split").Info().
		Int64(log.SeedKey, seed).
		Int(log.ClientsKey, len(clients)).
		Int("train.rows", len(train)).
		Int("test.rows", len(test)).
		Msg("split terms by client")
	return train, test, nil
}

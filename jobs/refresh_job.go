package jobs

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/dalewoodman1994/100-percent/services"
)

// RefreshCountries returns the job that reloads the country cache on a
// schedule. Transient provider failures are retried with exponential
// backoff inside one run; if the whole window fails the cache keeps
// serving the previous set.
func RefreshCountries(cache *services.CountryCache, log *zap.Logger) func() {
	return func() {
		log.Info("Running job: RefreshCountries")

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		policy := backoff.NewExponentialBackOff()
		policy.InitialInterval = 2 * time.Second
		policy.MaxInterval = 30 * time.Second
		policy.MaxElapsedTime = 2 * time.Minute

		err := backoff.Retry(func() error {
			return cache.Reload(ctx)
		}, backoff.WithContext(policy, ctx))
		if err != nil {
			log.Error("country refresh gave up, previous data stays live", zap.Error(err))
		}
	}
}

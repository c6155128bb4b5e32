package health

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/config"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/balance"
)

const componentName = "storefront-checkout"

// Options toggles the external checks. The stripe check is skipped when no API key is configured.
type Options struct {
	Version     string
	StripeCheck func(ctx context.Context) error
}

func stripeBalanceCheck(ctx context.Context) error {
	params := &stripe.BalanceParams{
		Params: stripe.Params{
			Context: ctx,
		},
	}

	if _, err := balance.Get(params); err != nil {
		return fmt.Errorf("failed to connect to stripe: %w", err)
	}

	return nil
}

func NewHealthHandler(cfg *config.Config, opts Options) (*health.Health, error) {
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}

	checks := []health.Config{
		{
			Name:      "database",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: postgres.New(postgres.Config{
				DSN: cfg.Database.GetDSN(),
			}),
		},
		{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		},
	}

	if cfg.Stripe.APIKey != "" {
		check := opts.StripeCheck
		if check == nil {
			check = stripeBalanceCheck
		}

		// non-critical
		checks = append(checks, health.Config{
			Name:      "stripe",
			Timeout:   5 * time.Second,
			SkipOnErr: true,
			Check:     check,
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    componentName,
			Version: opts.Version,
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

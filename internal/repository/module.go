package repository

import (
	"github.com/WellsMediaGroupInc/cashier-braintree/internal/app/service/billing"

	"go.uber.org/fx"
)

// Module exposes the gorm store, both as the concrete type (admin
// listing) and as billing.Store.
var Module = fx.Options(
	fx.Provide(New),
	fx.Provide(func(s *Store) billing.Store { return s }),
)

var _ billing.Store = (*Store)(nil)
var _ billing.Store = (*MemoryStore)(nil)

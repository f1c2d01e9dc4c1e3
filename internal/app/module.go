package app

import (
	"time"

	"github.com/WellsMediaGroupInc/cashier-braintree/internal/app/api/server"
	"github.com/WellsMediaGroupInc/cashier-braintree/internal/app/service/billing"
	"github.com/WellsMediaGroupInc/cashier-braintree/internal/app/service/reconciler"
	"github.com/WellsMediaGroupInc/cashier-braintree/internal/app/service/webhooklog"
	"github.com/WellsMediaGroupInc/cashier-braintree/internal/platform/braintree"
	"github.com/WellsMediaGroupInc/cashier-braintree/internal/platform/db"
	"github.com/WellsMediaGroupInc/cashier-braintree/internal/repository"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/config"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/logger"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	braintree.Module,
	repository.Module,
	billing.Module,
	webhooklog.Module,
	reconciler.Module,
	server.Module,
)

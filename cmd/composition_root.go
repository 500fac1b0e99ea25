package cmd

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"dispatch/internal/adapters/out/kafka"
	"dispatch/internal/adapters/out/otpmem"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/push"
	"dispatch/internal/adapters/out/sms"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into application handlers. All shared
// infrastructure (database, broker, gateways, otp store) is created once
// here; Create* methods hand out handlers bound to it.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	publisher   ports.OrderEventPublisher
	smsGateway  ports.SMSGateway
	pushGateway ports.PushGateway
	otpStore    ports.OTPStore

	conflictPolicy        commands.ConflictPolicy
	notificationRetention time.Duration

	logger *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	var publisher ports.OrderEventPublisher
	if configs.KafkaHost != "" {
		kafkaPublisher, err := kafka.NewPublisher(
			[]string{configs.KafkaHost},
			configs.KafkaOrderStatusTopic,
			configs.KafkaVerificationTopic,
			logger,
		)
		if err != nil {
			return nil, err
		}
		publisher = kafkaPublisher
	} else {
		publisher = noopPublisher{logger: logger.With("component", "noop-publisher")}
	}

	smsGateway, err := sms.NewTwilioGateway(
		configs.TwilioAccountSID,
		configs.TwilioAuthToken,
		configs.TwilioFromNumber,
		configs.SMSDryRun == "true",
		logger,
	)
	if err != nil {
		return nil, err
	}

	conflictPolicy := commands.ConflictPolicy(configs.EditConflictPolicy)
	if configs.EditConflictPolicy == "" {
		conflictPolicy = commands.ConflictPolicyReject
	}

	retention := commands.DefaultNotificationRetention
	if configs.NotificationRetentionDays != "" {
		days, parseErr := strconv.Atoi(configs.NotificationRetentionDays)
		if parseErr != nil {
			return nil, parseErr
		}
		retention = time.Duration(days) * 24 * time.Hour
	}

	return &CompositionRoot{
		gormDB:                gormDB,
		uowFactory:            *postgres.NewGormUnitOfWorkFactory(gormDB),
		publisher:             publisher,
		smsGateway:            smsGateway,
		pushGateway:           push.NewLoggingGateway(logger),
		otpStore:              otpmem.NewStore(),
		conflictPolicy:        conflictPolicy,
		notificationRetention: retention,
		logger:                logger,
	}, nil
}

// NotificationRetention returns the configured retention for read
// notifications.
func (c *CompositionRoot) NotificationRetention() time.Duration {
	return c.notificationRetention
}

func (c *CompositionRoot) CreateAdvanceOrderStatusCommandHandler() commands.AdvanceOrderStatusCommandHandler {
	var f commands.AssignmentUoWFactory = FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAdvanceOrderStatusCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateAssignOrderCommandHandler() commands.AssignOrderCommandHandler {
	var f commands.AssignmentUoWFactory = FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignOrderCommandHandler(f, c.createNotifier(), c.logger)
}

func (c *CompositionRoot) CreateProposeOrderEditCommandHandler() (commands.ProposeOrderEditCommandHandler, error) {
	var f commands.VerificationUoWFactory = FuncVerificationUoWFactory(func() commands.VerificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewProposeOrderEditCommandHandler(f, c.createNotifier(), c.conflictPolicy, c.logger)
}

func (c *CompositionRoot) CreateDecideVerificationCommandHandler(
	subscribers []commands.VerificationDecidedSubscriber,
) commands.DecideVerificationCommandHandler {
	var f commands.VerificationUoWFactory = FuncVerificationUoWFactory(func() commands.VerificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDecideVerificationCommandHandler(f, c.publisher, c.createNotifier(), subscribers, c.logger)
}

func (c *CompositionRoot) CreateExpireVerificationsCommandHandler() commands.ExpireVerificationsCommandHandler {
	var f commands.VerificationUoWFactory = FuncVerificationUoWFactory(func() commands.VerificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewExpireVerificationsCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateDispatchNotificationCommandHandler() commands.DispatchNotificationCommandHandler {
	var f commands.NotificationUoWFactory = FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchNotificationCommandHandler(f, c.smsGateway, c.pushGateway, 0, c.logger)
}

func (c *CompositionRoot) CreateMarkNotificationReadCommandHandler() commands.MarkNotificationReadCommandHandler {
	var f commands.NotificationUoWFactory = FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkNotificationReadCommandHandler(f)
}

func (c *CompositionRoot) CreatePurgeNotificationsCommandHandler() commands.PurgeNotificationsCommandHandler {
	var f commands.NotificationUoWFactory = FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPurgeNotificationsCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateUpdateRiderLocationCommandHandler() commands.UpdateRiderLocationCommandHandler {
	var f commands.RiderUoWFactory = FuncRiderUoWFactory(func() commands.RiderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateRiderLocationCommandHandler(f)
}

func (c *CompositionRoot) CreateRequestOTPCommandHandler() commands.RequestOTPCommandHandler {
	return commands.NewRequestOTPCommandHandler(c.otpStore, c.smsGateway, c.logger)
}

func (c *CompositionRoot) CreateVerifyOTPCommandHandler() commands.VerifyOTPCommandHandler {
	return commands.NewVerifyOTPCommandHandler(c.otpStore)
}

func (c *CompositionRoot) CreateGetNearestRidersQueryHandler() queries.GetNearestRidersQueryHandler {
	return queries.NewGetNearestRidersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPendingVerificationsQueryHandler() queries.GetPendingVerificationsQueryHandler {
	return queries.NewGetPendingVerificationsQueryHandler(c.gormDB)
}

// createNotifier returns the dispatch handler behind the Notifier
// interface used by the assignment and verification handlers.
func (c *CompositionRoot) createNotifier() commands.Notifier {
	return c.CreateDispatchNotificationCommandHandler()
}

type FuncRiderUoWFactory func() commands.RiderUoW

func (f FuncRiderUoWFactory) Create() commands.RiderUoW {
	return f()
}

type FuncAssignmentUoWFactory func() commands.AssignmentUoW

func (f FuncAssignmentUoWFactory) Create() commands.AssignmentUoW {
	return f()
}

type FuncVerificationUoWFactory func() commands.VerificationUoW

func (f FuncVerificationUoWFactory) Create() commands.VerificationUoW {
	return f()
}

type FuncNotificationUoWFactory func() commands.NotificationUoW

func (f FuncNotificationUoWFactory) Create() commands.NotificationUoW {
	return f()
}

// noopPublisher stands in for the broker when no Kafka host is configured,
// typically in local development. Events are logged and dropped.
type noopPublisher struct {
	logger *slog.Logger
}

func (p noopPublisher) PublishOrderStatusChanged(ctx context.Context, event ports.OrderStatusChangedEvent) error {
	p.logger.InfoContext(ctx, "order status event dropped, no broker configured",
		"order_id", event.OrderID.String(), "to_status", event.ToStatus.String())
	return nil
}

func (p noopPublisher) PublishVerificationDecided(ctx context.Context, event ports.VerificationDecidedEvent) error {
	p.logger.InfoContext(ctx, "verification event dropped, no broker configured",
		"request_id", event.RequestID.String(), "status", string(event.Status))
	return nil
}

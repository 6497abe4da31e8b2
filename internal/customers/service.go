package customers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Publisher delivers audit notifications. Implementations must not block on
// downstream consumers; the service ignores their failures.
type Publisher interface {
	Publish(ctx context.Context, message string) error
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the clock used for date-of-birth checks and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for datastore and publish failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service orchestrates validation, persistence and audit publishing. Every
// outcome is resolved into a response envelope; no error escapes.
type Service struct {
	repo      Repository
	publisher Publisher
	now       func() time.Time
	logger    *slog.Logger
}

func NewService(repo Repository, publisher Publisher, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save validates the request, persists a new aggregate and publishes an audit
// notification for it.
func (s *Service) Save(ctx context.Context, req SaveCustomerRequest) SaveCustomerResponse {
	if violations := ValidateStruct(req); len(violations) > 0 {
		return saveFailure(invalid(violations))
	}
	if InvalidSex(req.Details.Sex) {
		return saveFailure(failure(CodeInvalidSex))
	}
	now := s.now()
	if InvalidDOB(req.Details.DOB, now) {
		return saveFailure(failure(CodeInvalidDOB))
	}
	if InvalidContractType(req.ContractType) {
		return saveFailure(failure(CodeInvalidContract))
	}

	dob, _ := ParseDOB(req.Details.DOB)
	customer := &Customer{
		Name:         req.Name,
		AccountType:  req.AccountType,
		ContractType: req.ContractType,
		Details: &CustomerDetails{
			Sex:         Sex(req.Details.Sex),
			DOB:         dob,
			NativePlace: req.Details.NativePlace,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	saved, err := s.repo.Save(ctx, customer)
	if err != nil {
		s.logger.Error("save customer failed", slog.Any("error", err))
		return saveFailure(failure(err.Error()))
	}
	id := customer.ID
	if saved != nil {
		id = saved.ID
	}

	s.notify(ctx, savedMessage(id, customer))
	return saveSuccess(id, customer.Name)
}

// GetCustomer returns the projection of one customer.
func (s *Service) GetCustomer(ctx context.Context, req GetCustomerRequest) GetCustomerResponse {
	if violations := ValidateStruct(req); len(violations) > 0 {
		return getFailure(invalid(violations))
	}
	customer, err := s.find(ctx, req.ID)
	if err != nil {
		return getFailure(s.lookupFailure(err, "get customer", req.ID))
	}
	return getSuccess(project(customer))
}

// GetAllCustomers returns every customer in store order.
func (s *Service) GetAllCustomers(ctx context.Context) GetAllCustomerResponse {
	list, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("list customers failed", slog.Any("error", err))
		return getAllFailure(failure(err.Error()))
	}
	if len(list) == 0 {
		return getAllFailure(failure(CodeNoRecordFound))
	}
	views := make([]CustomerView, 0, len(list))
	for i := range list {
		views = append(views, project(&list[i]))
	}
	return getAllSuccess(views)
}

// UpdateCustomer overwrites the mutable fields of an existing customer. The
// sex, dob and contract business rules are not re-applied here; dob only has
// to parse.
func (s *Service) UpdateCustomer(ctx context.Context, req UpdateCustomerRequest) UpdateCustomerResponse {
	if violations := ValidateStruct(req); len(violations) > 0 {
		return updateFailure(invalid(violations))
	}
	customer, err := s.find(ctx, req.ID)
	if err != nil {
		return updateFailure(s.lookupFailure(err, "update customer", req.ID))
	}
	dob, err := ParseDOB(req.Details.DOB)
	if err != nil {
		return updateFailure(failure(CodeInvalidDOB))
	}

	customer.Name = req.Name
	customer.AccountType = req.AccountType
	customer.ContractType = req.ContractType
	if customer.Details == nil {
		customer.Details = &CustomerDetails{}
	}
	customer.Details.Sex = Sex(req.Details.Sex)
	customer.Details.DOB = dob
	customer.Details.NativePlace = req.Details.NativePlace
	customer.UpdatedAt = s.now()

	saved, err := s.repo.Save(ctx, customer)
	if err != nil {
		return updateFailure(s.lookupFailure(err, "update customer", req.ID))
	}
	id := customer.ID
	if saved != nil && saved.ID != 0 {
		id = saved.ID
	}
	return updateSuccess(id, customer.Name)
}

// DeleteCustomer removes an existing customer and reports what was deleted.
func (s *Service) DeleteCustomer(ctx context.Context, req DeleteCustomerRequest) DeleteCustomerResponse {
	if violations := ValidateStruct(req); len(violations) > 0 {
		return deleteFailure(invalid(violations))
	}
	customer, err := s.find(ctx, req.ID)
	if err != nil {
		return deleteFailure(s.lookupFailure(err, "delete customer", req.ID))
	}
	id, name := customer.ID, customer.Name
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		s.logger.Error("delete customer failed", slog.Any("error", err), slog.Int64("id", id))
		return deleteFailure(failure(err.Error()))
	}
	return deleteSuccess(id, name)
}

func (s *Service) find(ctx context.Context, id int64) (*Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrNotFound
	}
	return customer, nil
}

func (s *Service) lookupFailure(err error, op string, id int64) Envelope {
	if errors.Is(err, ErrNotFound) {
		return failure(CodeNoRecordFound)
	}
	s.logger.Error(op+" failed", slog.Any("error", err), slog.Int64("id", id))
	return failure(err.Error())
}

func (s *Service) notify(ctx context.Context, message string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), message); err != nil {
		s.logger.Warn("audit publish failed", slog.Any("error", err))
	}
}

func savedMessage(id int64, c *Customer) string {
	return fmt.Sprintf("customer saved: id=%d name=%s contract=%s", id, c.Name, c.ContractType)
}

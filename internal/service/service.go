package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/engine"
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/store"
)

// Provider resolves metamodels and models by id. The schema/model layer
// owns these structures; the service only reads them.
type Provider interface {
	MetamodelByID(ctx context.Context, id string) (*metamodel.Metamodel, error)
	ModelByID(ctx context.Context, id string) (*metamodel.Model, error)
}

// Service ties the validation engine to a provider and a constraint store.
// Each Service owns its own validation session, so independent instances
// never share registration state.
type Service struct {
	provider Provider
	store    *store.Store
	val      *engine.Validator
	log      *slog.Logger
	newID    func() string
}

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator overrides constraint id generation. Tests use this to
// get deterministic ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// New creates a service over the given provider and constraint store.
func New(provider Provider, st *store.Store, log *slog.Logger, opts ...Option) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		provider: provider,
		store:    st,
		val:      engine.NewValidator(log),
		log:      log,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterMetamodel builds type descriptors for every class of the
// metamodel. Registration is idempotent per metamodel id; structural
// problems (unknown superclass, unresolved reference target) propagate
// as RegistrationErrors.
func (s *Service) RegisterMetamodel(mm *metamodel.Metamodel) error {
	if err := s.val.Registry().Register(mm); err != nil {
		return err
	}
	s.log.Info("metamodel registered", "metamodel", mm.ID, "classes", len(mm.Classes))
	return nil
}

// metamodelByID resolves a metamodel through the provider, mapping a nil
// result to a RegistrationError.
func (s *Service) metamodelByID(ctx context.Context, id string) (*metamodel.Metamodel, error) {
	mm, err := s.provider.MetamodelByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mm == nil {
		return nil, &engine.RegistrationError{
			Code:        engine.ErrCodeMetamodelNotFound,
			Message:     "metamodel not found",
			MetamodelID: id,
		}
	}
	return mm, nil
}

// modelByID resolves a model through the provider, mapping a nil result to
// a RegistrationError.
func (s *Service) modelByID(ctx context.Context, id string) (*metamodel.Model, error) {
	model, err := s.provider.ModelByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, &engine.RegistrationError{
			Code:    engine.ErrCodeModelNotFound,
			Message: "model not found: " + id,
		}
	}
	return model, nil
}

package editsessions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-configurator/internal/configurator"
	product "github.com/angelmondragon/storefront-configurator/internal/products"
	"github.com/angelmondragon/storefront-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-configurator/pkg/errors"
	"github.com/angelmondragon/storefront-configurator/pkg/logger"
	"github.com/angelmondragon/storefront-configurator/pkg/metrics"
)

// Service runs edit sessions on top of the configurator engine.
type Service interface {
	Open(ctx context.Context, input OpenInput) (*View, error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	Apply(ctx context.Context, id uuid.UUID, raw []byte) (*CommandResult, error)
	PreviewValueRemoval(ctx context.Context, id uuid.UUID, axisIndex, valueIndex int) (*configurator.ValueRemoval, error)
	Submit(ctx context.Context, id uuid.UUID) (*SubmitResult, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

// OpenInput selects how a session starts: seeded from a stored product when ProductID is
// set, otherwise empty with the given shape (simple by default).
type OpenInput struct {
	ProductID *uuid.UUID
	Shape     *enums.ProductShape
}

// CommandResult reports whether the command changed the aggregate.
type CommandResult struct {
	Op      string `json:"op"`
	Applied bool   `json:"applied"`
	Session *View  `json:"session"`
}

// SubmitResult is returned once the aggregate has been persisted and the session closed.
type SubmitResult struct {
	Submission configurator.Submission `json:"submission"`
	Product    *product.ProductDTO     `json:"product"`
}

type service struct {
	store   Store
	catalog product.Service
	metrics *metrics.ConfiguratorMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService constructs the edit session service. A nil metrics recorder disables metrics.
func NewService(store Store, catalog product.Service, m *metrics.ConfiguratorMetrics, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		store:   store,
		catalog: catalog,
		metrics: m,
		logg:    logg,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Open(ctx context.Context, input OpenInput) (*View, error) {
	now := s.now()
	session := &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.ProductID != nil {
		loaded, err := s.catalog.LoadProduct(ctx, *input.ProductID)
		if err != nil {
			return nil, err
		}
		sourceID := *input.ProductID
		session.SourceProductID = &sourceID
		session.Product = loaded.Product
		session.DroppedVariants = loaded.DroppedVariants
		if input.Shape != nil {
			session.Product.SetShape(*input.Shape)
		}
	} else {
		shape := enums.ProductShapeSimple
		if input.Shape != nil {
			shape = *input.Shape
		}
		if !shape.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product shape").
				WithDetails(map[string]string{"shape": "must be a valid product shape"})
		}
		session.Product = configurator.NewProduct(shape)
	}

	if err := s.store.Create(ctx, session); err != nil {
		return nil, err
	}

	ctx = s.logg.WithSessionID(ctx, session.ID.String())
	ctx = s.logg.WithProductID(ctx, session.Product.ID.String())
	if session.DroppedVariants > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "dropped_variants", session.DroppedVariants), "stored variants no longer matched their axes")
	}
	s.logg.Info(s.logg.WithField(ctx, "shape", session.Product.Shape.String()), "edit session opened")
	s.metrics.IncSession(metrics.SessionOpened)
	return NewView(session), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewView(session), nil
}

func (s *service) Apply(ctx context.Context, id uuid.UUID, raw []byte) (*CommandResult, error) {
	cmd, err := DecodeCommand(raw)
	if err != nil {
		s.metrics.IncCommand("", metrics.OutcomeError)
		return nil, err
	}
	op := cmd.Op()

	session, err := s.load(ctx, id)
	if err != nil {
		s.metrics.IncCommand(op, metrics.OutcomeError)
		return nil, err
	}

	ed := &editor{product: &session.Product, prices: s.catalog}
	applied, err := ed.apply(ctx, cmd)
	if err != nil {
		s.metrics.IncCommand(op, metrics.OutcomeError)
		return nil, err
	}

	if !applied {
		s.metrics.IncCommand(op, metrics.OutcomeRejected)
		return &CommandResult{Op: op, Applied: false, Session: NewView(session)}, nil
	}

	session.Version++
	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, session); err != nil {
		s.metrics.IncCommand(op, metrics.OutcomeError)
		return nil, err
	}

	s.metrics.IncCommand(op, metrics.OutcomeApplied)
	if ed.removedVariants > 0 {
		s.metrics.AddRemovedVariants(ed.removedVariants)
		ctx = s.logg.WithSessionID(ctx, id.String())
		s.logg.Info(s.logg.WithField(ctx, "removed_variants", ed.removedVariants), "option value removed")
	}
	return &CommandResult{Op: op, Applied: true, Session: NewView(session)}, nil
}

func (s *service) PreviewValueRemoval(ctx context.Context, id uuid.UUID, axisIndex, valueIndex int) (*configurator.ValueRemoval, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	plan, ok := session.Product.Variable.PrepareValueRemoval(axisIndex, valueIndex)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "option value not found").
			WithDetails(map[string]int{"axis_index": axisIndex, "value_index": valueIndex})
	}
	return &plan, nil
}

func (s *service) Submit(ctx context.Context, id uuid.UUID) (*SubmitResult, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(session.Product.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product title is required").
			WithDetails(map[string]string{"title": "is required"})
	}

	ctx = s.logg.WithSessionID(ctx, id.String())
	ctx = s.logg.WithProductID(ctx, session.Product.ID.String())

	submission := configurator.BuildSubmission(session.Product)
	started := time.Now()
	saved, err := s.catalog.SaveSubmission(ctx, submission)
	if err != nil {
		s.logg.Error(ctx, "persist submission failed", err)
		return nil, err
	}
	s.metrics.ObserveSubmit(submission.Shape.String(), time.Since(started))

	if err := s.store.Delete(ctx, id); err != nil && !pkgerrors.Is(err, pkgerrors.CodeSessionExpired) {
		// the product is saved; a leftover session simply expires
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "delete submitted session failed")
	}

	s.metrics.IncSession(metrics.SessionSubmitted)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"shape":     submission.Shape.String(),
		"price":     submission.Price.String(),
		"orderable": submission.Orderable,
	}), "edit session submitted")
	return &SubmitResult{Submission: submission, Product: saved}, nil
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeSessionExpired) {
			s.metrics.IncSession(metrics.SessionExpired)
		}
		return err
	}
	s.metrics.IncSession(metrics.SessionCancelled)
	s.logg.Info(s.logg.WithSessionID(ctx, id.String()), "edit session cancelled")
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeSessionExpired) {
			s.metrics.IncSession(metrics.SessionExpired)
		}
		return nil, err
	}
	return session, nil
}

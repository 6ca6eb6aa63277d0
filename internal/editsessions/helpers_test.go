package editsessions

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-configurator/internal/configurator"
	product "github.com/angelmondragon/storefront-configurator/internal/products"
	pkgerrors "github.com/angelmondragon/storefront-configurator/pkg/errors"
	"github.com/angelmondragon/storefront-configurator/pkg/logger"
	"github.com/angelmondragon/storefront-configurator/pkg/metrics"
	"github.com/angelmondragon/storefront-configurator/pkg/redis"
)

const testTTL = 30 * time.Minute

type fakeCatalog struct {
	products map[uuid.UUID]*product.LoadedProduct
	prices   map[uuid.UUID]decimal.Decimal
	saved    []configurator.Submission
	saveErr  error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: map[uuid.UUID]*product.LoadedProduct{},
		prices:   map[uuid.UUID]decimal.Decimal{},
	}
}

func (f *fakeCatalog) LoadProduct(_ context.Context, id uuid.UUID) (*product.LoadedProduct, error) {
	loaded, ok := f.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &product.LoadedProduct{Product: loaded.Product.Clone(), DroppedVariants: loaded.DroppedVariants}, nil
}

func (f *fakeCatalog) ReferencePrices(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := map[uuid.UUID]decimal.Decimal{}
	for _, id := range ids {
		if price, ok := f.prices[id]; ok {
			out[id] = price
		}
	}
	return out, nil
}

func (f *fakeCatalog) SaveSubmission(_ context.Context, sub configurator.Submission) (*product.ProductDTO, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, sub)
	return &product.ProductDTO{ID: sub.ID, Title: sub.Title, Shape: sub.Shape.String(), Price: sub.Price, Created: true}, nil
}

type testEnv struct {
	svc     Service
	store   *RedisStore
	catalog *fakeCatalog
	mr      *miniredis.Miniredis
	reg     *prometheus.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewFromClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })

	store, err := NewRedisStore(client, testTTL)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	catalog := newFakeCatalog()
	logg := logger.New(logger.Options{ServiceName: "editsessions-test", Output: io.Discard})
	svc, err := NewService(store, catalog, metrics.NewConfiguratorMetrics(reg), logg)
	require.NoError(t, err)

	return &testEnv{svc: svc, store: store, catalog: catalog, mr: mr, reg: reg}
}

func (e *testEnv) apply(t *testing.T, id uuid.UUID, body string) *CommandResult {
	t.Helper()
	res, err := e.svc.Apply(context.Background(), id, []byte(body))
	require.NoError(t, err)
	return res
}

func (e *testEnv) counter(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	mfs, err := e.reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m.GetLabel(), labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func labelsMatch(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if value, ok := want[pair.GetName()]; ok && value == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

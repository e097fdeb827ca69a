package abtest

import (
	"context"
	"errors"
	"testing"

	"shopRadar/domain"

	"github.com/go-playground/validator/v10"
)

type fakeABTestRepo struct {
	tests  map[uint64]domain.ABTest
	nextID uint64
}

func newFakeABTestRepo() *fakeABTestRepo {
	return &fakeABTestRepo{tests: map[uint64]domain.ABTest{}}
}

func (f *fakeABTestRepo) Create(_ context.Context, test *domain.ABTest) error {
	f.nextID++
	test.ID = f.nextID
	f.tests[test.ID] = *test
	return nil
}

func (f *fakeABTestRepo) FindByID(_ context.Context, id uint64) (domain.ABTest, error) {
	t, ok := f.tests[id]
	if !ok {
		return domain.ABTest{}, errors.New("test not found")
	}
	return t, nil
}

func (f *fakeABTestRepo) FindByOwner(_ context.Context, _ uint64) ([]domain.ABTest, error) {
	var out []domain.ABTest
	for _, t := range f.tests {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeABTestRepo) FindActiveByProduct(_ context.Context, productID uint64) (*domain.ABTest, error) {
	for _, t := range f.tests {
		if t.ProductID == productID && t.IsActive {
			running := t
			return &running, nil
		}
	}
	return nil, nil
}

func (f *fakeABTestRepo) Update(_ context.Context, test *domain.ABTest) error {
	f.tests[test.ID] = *test
	return nil
}

type fakeProductRepo struct {
	products map[uint64]domain.Product
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uint64) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, errors.New("product not found")
	}
	return p, nil
}

func newService(tests *fakeABTestRepo) *abTestService {
	products := &fakeProductRepo{products: map[uint64]domain.Product{
		10: {ID: 10, OwnerID: 7, Name: "ceramic mug", Price: 19.90},
	}}
	return NewABTestService(tests, products, validator.New())
}

func priceTest() *domain.ABTest {
	return &domain.ABTest{
		ProductID:    10,
		Name:         "mug price drop",
		Variable:     domain.TestVariablePrice,
		ControlValue: "19.90",
		VariantValue: "14.90",
	}
}

func TestCreateStartsActiveTest(t *testing.T) {
	repo := newFakeABTestRepo()
	svc := newService(repo)

	created, err := svc.Create(context.Background(), 7, priceTest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created.IsActive {
		t.Error("new test must start active")
	}
	if created.StartDate.IsZero() {
		t.Error("start date must be set")
	}
	if created.EndDate != nil {
		t.Error("end date must be nil while running")
	}
}

func TestCreateRejections(t *testing.T) {
	repo := newFakeABTestRepo()
	svc := newService(repo)

	cases := []struct {
		name   string
		mutate func(*domain.ABTest)
	}{
		{"missing name", func(tt *domain.ABTest) { tt.Name = "" }},
		{"bad variable", func(tt *domain.ABTest) { tt.Variable = "COLOR" }},
		{"missing variant value", func(tt *domain.ABTest) { tt.VariantValue = "" }},
		{"unknown product", func(tt *domain.ABTest) { tt.ProductID = 999 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			test := priceTest()
			tc.mutate(test)
			if _, err := svc.Create(context.Background(), 7, test); err == nil {
				t.Fatal("expected rejection")
			}
		})
	}

	// product owned by someone else
	if _, err := svc.Create(context.Background(), 99, priceTest()); err == nil {
		t.Error("expected rejection for foreign product")
	}
}

func TestCreateRejectsSecondActiveTest(t *testing.T) {
	repo := newFakeABTestRepo()
	svc := newService(repo)

	if _, err := svc.Create(context.Background(), 7, priceTest()); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), 7, priceTest()); err == nil {
		t.Fatal("expected rejection while a test is running")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	repo := newFakeABTestRepo()
	svc := newService(repo)

	created, err := svc.Create(context.Background(), 7, priceTest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stopped, err := svc.Stop(context.Background(), 7, created.ID)
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if stopped.IsActive {
		t.Error("stopped test must be inactive")
	}
	if stopped.EndDate == nil {
		t.Error("end date must be set")
	}

	// stopping again is a no-op, and frees the product for a new test
	if _, err := svc.Stop(context.Background(), 7, created.ID); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if _, err := svc.Create(context.Background(), 7, priceTest()); err != nil {
		t.Errorf("new test after stop: %v", err)
	}

	// foreign owner cannot stop it
	if _, err := svc.Stop(context.Background(), 99, created.ID); err == nil {
		t.Error("expected rejection for foreign owner")
	}
}

package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-admin/pkg/e"
)

func TestNewCategoryActive(t *testing.T) {
	clock := newStepClock()

	c := NewCategory("Movies", "Films", true, WithClock(clock))

	if c.ID().IsZero() {
		t.Fatal("expected generated id")
	}
	if c.Name() != "Movies" || c.Description() != "Films" {
		t.Errorf("unexpected name/description: %q/%q", c.Name(), c.Description())
	}
	if !c.IsActive() {
		t.Error("expected active category")
	}
	if c.DeletedAt() != nil {
		t.Errorf("expected nil deletedAt, got %v", c.DeletedAt())
	}
	if c.CreatedAt().IsZero() || !c.CreatedAt().Equal(c.UpdatedAt()) {
		t.Errorf("expected createdAt == updatedAt, got %v and %v", c.CreatedAt(), c.UpdatedAt())
	}
}

func TestNewCategoryInactive(t *testing.T) {
	c := NewCategory("Series", "TV", false, WithClock(newStepClock()))

	if c.IsActive() {
		t.Error("expected inactive category")
	}
	if c.DeletedAt() == nil {
		t.Fatal("expected deletedAt to be set")
	}
	if !c.DeletedAt().Equal(c.CreatedAt()) {
		t.Errorf("expected deletedAt %v to equal createdAt %v", c.DeletedAt(), c.CreatedAt())
	}
}

func TestDeactivateIsIdempotent(t *testing.T) {
	c := NewCategory("Movies", "", true, WithClock(newStepClock()))

	c.Deactivate()
	first := *c.DeletedAt()
	updatedAfterFirst := c.UpdatedAt()

	c.Deactivate()

	if c.IsActive() {
		t.Error("expected inactive category")
	}
	if !c.DeletedAt().Equal(first) {
		t.Errorf("expected deletedAt to stay %v, got %v", first, c.DeletedAt())
	}
	if !c.UpdatedAt().After(updatedAfterFirst) {
		t.Errorf("expected updatedAt to advance past %v, got %v", updatedAfterFirst, c.UpdatedAt())
	}
}

func TestActivateClearsDeletedAt(t *testing.T) {
	c := NewCategory("Series", "TV", false, WithClock(newStepClock()))
	before := c.UpdatedAt()

	c.Activate()

	if !c.IsActive() || c.DeletedAt() != nil {
		t.Errorf("expected active with nil deletedAt, got active=%v deletedAt=%v", c.IsActive(), c.DeletedAt())
	}
	if !c.UpdatedAt().After(before) {
		t.Errorf("expected updatedAt after %v, got %v", before, c.UpdatedAt())
	}
}

func TestActivateDeactivateRoundTrip(t *testing.T) {
	c := NewCategory("Movies", "Films", false, WithClock(newStepClock()))

	c.Activate().Deactivate().Activate()

	if !c.IsActive() {
		t.Error("expected active category")
	}
	if c.DeletedAt() != nil {
		t.Errorf("expected nil deletedAt, got %v", c.DeletedAt())
	}
}

func TestUpdateActivatesInactiveCategory(t *testing.T) {
	c := NewCategory("Series", "TV", false, WithClock(newStepClock()))
	createdAt := c.CreatedAt()
	before := c.UpdatedAt()

	c.Update("Shows", "Television", true)

	if c.Name() != "Shows" || c.Description() != "Television" {
		t.Errorf("unexpected name/description: %q/%q", c.Name(), c.Description())
	}
	if !c.IsActive() || c.DeletedAt() != nil {
		t.Errorf("expected active with nil deletedAt, got active=%v deletedAt=%v", c.IsActive(), c.DeletedAt())
	}
	if !c.UpdatedAt().After(before) {
		t.Errorf("expected updatedAt after %v, got %v", before, c.UpdatedAt())
	}
	if !c.CreatedAt().Equal(createdAt) {
		t.Errorf("expected createdAt to stay %v, got %v", createdAt, c.CreatedAt())
	}
}

func TestUpdateDeactivates(t *testing.T) {
	clock := newStepClock()
	c := NewCategory("Movies", "Films", true, WithClock(clock))

	c.Update("Movies", "Films", false)

	if c.IsActive() {
		t.Error("expected inactive category")
	}
	if c.DeletedAt() == nil {
		t.Fatal("expected deletedAt to be set")
	}
	// Update читает часы один раз: deletedAt и updatedAt совпадают.
	if !c.DeletedAt().Equal(c.UpdatedAt()) {
		t.Errorf("expected deletedAt %v to equal updatedAt %v", c.DeletedAt(), c.UpdatedAt())
	}
	if !c.UpdatedAt().Equal(clock.now) {
		t.Errorf("expected a single clock read, updatedAt %v, clock %v", c.UpdatedAt(), clock.now)
	}
}

func TestUpdateKeepsExistingDeletedAt(t *testing.T) {
	c := NewCategory("Series", "TV", false, WithClock(newStepClock()))
	deletedAt := *c.DeletedAt()

	c.Update("Series", "Television", false)

	if !c.DeletedAt().Equal(deletedAt) {
		t.Errorf("expected deletedAt to stay %v, got %v", deletedAt, c.DeletedAt())
	}
}

func TestReconstituteCategory(t *testing.T) {
	id, _ := CategoryIDFrom("7d5b3c1e-0000-4000-8000-000000000001")
	createdAt := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	updatedAt := createdAt.Add(time.Hour)

	tests := []struct {
		name      string
		id        CategoryID
		createdAt time.Time
		updatedAt time.Time
		deletedAt *time.Time
		wantErr   string
	}{
		{name: "nil deletedAt", id: id, createdAt: createdAt, updatedAt: updatedAt},
		{name: "with deletedAt", id: id, createdAt: createdAt, updatedAt: updatedAt, deletedAt: &updatedAt},
		{name: "zero createdAt", id: id, updatedAt: updatedAt, wantErr: "'createdAt' should not be null"},
		{name: "zero updatedAt", id: id, createdAt: createdAt, wantErr: "'updatedAt' should not be null"},
		{name: "zero id", createdAt: createdAt, updatedAt: updatedAt, wantErr: "'id' should not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ReconstituteCategory(tt.id, "Movies", "Films", tt.deletedAt == nil, tt.createdAt, tt.updatedAt, tt.deletedAt)
			if tt.wantErr != "" {
				if !errors.Is(err, e.ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected %q in %q", tt.wantErr, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.ID() != tt.id || !c.CreatedAt().Equal(tt.createdAt) || !c.UpdatedAt().Equal(tt.updatedAt) {
				t.Errorf("unexpected reconstituted state: %+v", c)
			}
			if (c.DeletedAt() == nil) != (tt.deletedAt == nil) {
				t.Errorf("expected deletedAt %v, got %v", tt.deletedAt, c.DeletedAt())
			}
		})
	}
}

func TestCopyOfIsIndependent(t *testing.T) {
	original := NewCategory("Series", "TV", false, WithClock(newStepClock()))
	deletedAt := *original.DeletedAt()
	updatedAt := original.UpdatedAt()

	cp := CopyOf(original)
	cp.Update("Shows", "Television", true)

	if !cp.Equals(original) {
		t.Error("expected copy to keep identity")
	}
	if original.Name() != "Series" || original.Description() != "TV" || original.IsActive() {
		t.Errorf("original was mutated: %q %q %v", original.Name(), original.Description(), original.IsActive())
	}
	if original.DeletedAt() == nil || !original.DeletedAt().Equal(deletedAt) {
		t.Errorf("expected original deletedAt %v, got %v", deletedAt, original.DeletedAt())
	}
	if !original.UpdatedAt().Equal(updatedAt) {
		t.Errorf("expected original updatedAt %v, got %v", updatedAt, original.UpdatedAt())
	}
}

func TestDeletedAtAccessorReturnsCopy(t *testing.T) {
	c := NewCategory("Series", "TV", false, WithClock(newStepClock()))
	want := *c.DeletedAt()

	got := c.DeletedAt()
	*got = got.Add(time.Hour)

	if !c.DeletedAt().Equal(want) {
		t.Errorf("expected accessor to protect state, got %v", c.DeletedAt())
	}
}

func TestCategoryEquals(t *testing.T) {
	a := NewCategory("Movies", "", true)
	b := NewCategory("Movies", "", true)

	if a.Equals(b) {
		t.Error("expected categories with different ids to differ")
	}
	if !a.Equals(CopyOf(a)) {
		t.Error("expected copy to be equal by identity")
	}
}

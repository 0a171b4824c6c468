package entity_test

import (
	"testing"

	"ticketing-service/internal/module/event/models/entity"

	"github.com/stretchr/testify/assert"
)

func TestCapacityLedger(t *testing.T) {
	t.Run("reserve and release keep counters paired", func(t *testing.T) {
		ledger := entity.CapacityLedger{MaximumOccupancy: 10}

		assert.True(t, ledger.CanReserve(4))
		ledger.Reserve(4)
		assert.Equal(t, 4, ledger.Consumed)
		assert.Equal(t, 4, ledger.Unscanned)
		assert.Equal(t, 6, ledger.Available())

		ledger.Release(2)
		assert.Equal(t, 2, ledger.Consumed)
		assert.Equal(t, 2, ledger.Unscanned)
	})

	t.Run("cannot reserve past the ceiling", func(t *testing.T) {
		ledger := entity.CapacityLedger{MaximumOccupancy: 5, Consumed: 4, Unscanned: 4}

		assert.True(t, ledger.CanReserve(1))
		assert.False(t, ledger.CanReserve(2))
		assert.False(t, ledger.CanReserve(0))
	})

	t.Run("mark scanned clamps at zero", func(t *testing.T) {
		ledger := entity.CapacityLedger{MaximumOccupancy: 5, Consumed: 1, Unscanned: 1}

		ledger.MarkScanned()
		assert.Equal(t, 0, ledger.Unscanned)
		ledger.MarkScanned()
		assert.Equal(t, 0, ledger.Unscanned)
	})

	t.Run("release never goes negative", func(t *testing.T) {
		ledger := entity.CapacityLedger{MaximumOccupancy: 5, Consumed: 1, Unscanned: 0}

		ledger.Release(3)
		assert.Equal(t, 0, ledger.Consumed)
		assert.Equal(t, 0, ledger.Unscanned)
	})

	t.Run("valid rejects drifted counters", func(t *testing.T) {
		assert.True(t, (&entity.CapacityLedger{MaximumOccupancy: 10, Consumed: 10, Unscanned: 3}).Valid())
		assert.False(t, (&entity.CapacityLedger{MaximumOccupancy: 10, Consumed: 11, Unscanned: 3}).Valid())
		assert.False(t, (&entity.CapacityLedger{MaximumOccupancy: 10, Consumed: 5, Unscanned: 6}).Valid())
	})
}

func TestEventAcceptsRegistration(t *testing.T) {
	cases := []struct {
		status  string
		accepts bool
	}{
		{entity.StatusUpcoming, true},
		{entity.StatusOngoing, true},
		{entity.StatusCompleted, false},
		{entity.StatusCancelled, false},
		{entity.StatusPostponed, false},
	}

	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			event := entity.Event{Status: tc.status}
			assert.Equal(t, tc.accepts, event.AcceptsRegistration())
		})
	}
}

package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/textilua/promoshop/internal/domain"
)

func TestOrdersXLSX(t *testing.T) {
	orders := []domain.Order{
		{
			ID:           uuid.New(),
			Status:       domain.OrderStatusPending,
			ProductTitle: "Футболка Classic",
			Color:        "Синій",
			Qty:          50,
			Method:       "print",
			Placement:    "chest",
			PrintSize:    "medium",
			UnitPrice:    360,
			Total:        16200,
			CreatedAt:    time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC),
		},
		{ID: uuid.New(), Status: domain.OrderStatusDone, ProductTitle: "Кепка Snapback", Qty: 1, Total: 260},
	}

	data, err := OrdersXLSX(orders)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Футболка Classic", rows[1][3])
	assert.Equal(t, "2026-08-30 14:05", rows[1][1])
	assert.Equal(t, "done", rows[2][2])
}

func TestOrdersXLSXEmpty(t *testing.T) {
	data, err := OrdersXLSX(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

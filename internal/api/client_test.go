package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/rfidash/internal/model"
	"github.com/erazemk/rfidash/internal/reader"
	"github.com/erazemk/rfidash/internal/rfidapi"
)

// The dashboard client against the stand-in.
func TestClientAgainstStandin(t *testing.T) {
	server := setupTestServer(t)
	client := rfidapi.New(server.URL + "/")
	ctx := context.Background()

	h, err := client.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)

	item := model.Item{
		SKU: "Steel beam", Lot: "L7", UID: "U-100", ReceivedBy: "AB", Date: "22125",
		Status: model.StatusActive, Price: model.NewPrice(decimal.RequireFromString("120.5")),
	}
	res, err := client.AddItem(ctx, item)
	require.NoError(t, err)
	assert.Equal(t, "Item added", res.Message)
	require.NotNil(t, res.Data)
	assert.Equal(t, "U-100", res.Data.UID)

	_, err = client.AddItem(ctx, item)
	assert.True(t, rfidapi.IsStatus(err, http.StatusBadRequest), "got %v", err)
	assert.EqualError(t, err, "Item already exists")

	bad := item
	bad.UID = "U-101"
	bad.Date = "abc"
	_, err = client.AddItem(ctx, bad)
	assert.True(t, rfidapi.IsStatus(err, http.StatusUnprocessableEntity), "got %v", err)

	got, err := client.Item(ctx, "U-100")
	require.NoError(t, err)
	require.NotNil(t, got.Price)
	assert.Equal(t, "120.50", got.Price.String())

	_, err = client.Item(ctx, "missing")
	assert.ErrorIs(t, err, rfidapi.ErrNotFound)

	_, err = client.ExitItem(ctx, "U-100")
	require.NoError(t, err)
	items, err := client.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.StatusExited, items[0].Status)

	// Re-entry is a read-modify-write with status active.
	got.Status = model.StatusActive
	_, err = client.UpdateItem(ctx, got.UID, got)
	require.NoError(t, err)
	got, err = client.Item(ctx, "U-100")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)

	_, err = client.DeleteItem(ctx, "U-100")
	require.NoError(t, err)
	_, err = client.DeleteItem(ctx, "U-100")
	assert.True(t, rfidapi.IsStatus(err, http.StatusNotFound), "got %v", err)
}

func TestReaderControllerAgainstStandin(t *testing.T) {
	server := setupTestServer(t)
	ctrl := reader.New(rfidapi.New(server.URL))
	ctx := context.Background()

	_, err := ctrl.StartReading(ctx, reader.ModeEntries)
	require.NoError(t, err)
	assert.True(t, server.reader.Reading())
	_, err = ctrl.StopReading(ctx)
	require.NoError(t, err)

	msg, err := ctrl.WriteTag(ctx, "5A6B3DC22125")
	require.NoError(t, err)
	assert.Equal(t, "Data written to RFID tag", msg)
	assert.Equal(t, reader.StatusIdle, ctrl.State().Status)
}

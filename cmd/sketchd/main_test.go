package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/sketchpad/internal/config"
	"github.com/inamate/sketchpad/internal/shape"
	"github.com/inamate/sketchpad/internal/sketch"
	"github.com/inamate/sketchpad/internal/store"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	st, err := openStore(ctx, &config.Config{StoreDriver: config.DriverNone})
	require.NoError(t, err)
	assert.IsType(t, &store.Memory{}, st)

	st, err = openStore(ctx, &config.Config{
		StoreDriver: config.DriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "sketch.db"),
	})
	require.NoError(t, err)
	assert.IsType(t, &store.SQLite{}, st)
	require.NoError(t, st.Close())
}

func TestManagerOptions(t *testing.T) {
	m := sketch.NewManager(managerOptions(&config.Config{
		StrokeColor: 0xff00ff00,
		StrokeWidth: 3,
		TextSize:    12,
	})...)

	m.Start(0, 0)
	m.SelectTool(7)
	m.Start(5, 5)

	shapes := m.Shapes()
	require.Len(t, shapes, 2)
	line := shapes[0].Style()
	assert.Equal(t, shape.Color(0xff00ff00), line.StrokeColor)
	assert.Equal(t, 3.0, line.StrokeWidth)
	text := shapes[1].Style()
	assert.Equal(t, shape.Color(0xff00ff00), text.FillColor)
	assert.Equal(t, 12.0, text.FontSize)
}

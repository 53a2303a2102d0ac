package commands

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jakechorley/relief-camps/internal/config"
	"github.com/jakechorley/relief-camps/pkg/campdesk"
	"github.com/jakechorley/relief-camps/pkg/core/services"
	"github.com/jakechorley/relief-camps/pkg/db"
)

func newTestApp(t *testing.T) (*AppContext, *bytes.Buffer) {
	t.Helper()

	store := db.NewMemoryDB()
	require.NoError(t, store.SeedCamps(context.Background(), db.DefaultCamps(time.Now())))

	out := &bytes.Buffer{}
	app := &AppContext{
		Env:      "test",
		Cfg:      &config.Config{Backend: config.BackendMemory},
		Database: store,
		Logger:   zap.NewNop(),
		Ctx:      context.Background(),
		Out:      out,
		Sessions: NewSessionKeeper("test", false),
	}
	app.Desk = campdesk.New(store, app.Logger, campdesk.Options{
		Auth: services.AuthOptions{BcryptCost: bcrypt.MinCost},
	})
	return app, out
}

package server

import (
	"context"
	"testing"
	"time"

	"EconDash/internal/domain/models"
	"EconDash/internal/handler/web"
	"EconDash/internal/service/ratelimit"
	"EconDash/internal/usecase"
	"EconDash/pkg/config"
	xhttp "EconDash/pkg/http"
	applogger "EconDash/pkg/logger"
	"EconDash/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeCounter struct{ closed int }

func (c *closeCounter) Publish(context.Context, *models.SettlementEvent) error { return nil }
func (c *closeCounter) Close() error                                          { c.closed++; return nil }

type blockingClient struct{}

func (blockingClient) Fetch(ctx context.Context, _ models.ForecastRequest) (models.Prediction, error) {
	<-ctx.Done()
	return models.Prediction{}, ctx.Err()
}

func TestRunContextShutsDown(t *testing.T) {
	cfg, err := config.Parse([]byte("forecast:\n  base_url: http://127.0.0.1:1\ndashboard:\n  sweep_interval: 5ms\n"))
	require.NoError(t, err)

	l := applogger.Nop()
	v := usecase.NewInputValidator(nil, 0)
	reg := usecase.NewSessionRegistry(func(id string) *usecase.Controller {
		return usecase.NewController(id, v, blockingClient{})
	}, time.Minute, nil, l)
	hub := web.NewStateHub(l)
	h := web.NewDashboardHandler(l, reg, ratelimit.New(1, 60), hub, metrics.NewWithRegisterer(nil))
	srv := xhttp.NewServer(h, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0), xhttp.WithLogger(l))
	pub := &closeCounter{}

	task := reg.Get("s1").Submit(context.Background(), "France", "2")

	app := New(cfg, l, srv, reg, hub, pub, ratelimit.New(1, 60))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, app.RunContext(ctx))

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("in-flight call was not cancelled")
	}
	assert.Equal(t, 1, pub.closed)
	assert.Equal(t, 0, reg.Len())
}

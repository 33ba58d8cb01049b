package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayline/wayline/internal/api/models"
	"github.com/wayline/wayline/internal/notify"
	"github.com/wayline/wayline/internal/route"
)

// stubPusher records pushes and optionally fails them.
type stubPusher struct {
	err      error
	to       string
	messages []string
}

func (p *stubPusher) Push(_ context.Context, to, message string) error {
	if p.err != nil {
		return p.err
	}
	p.to = to
	p.messages = append(p.messages, message)
	return nil
}

func seedRoute(t *testing.T, repo *route.InMemoryRepository) *route.Route {
	t.Helper()
	ctx := context.Background()

	r := &route.Route{
		ID:        "rt_test1",
		Name:      "路線 2026/8/31 10:00:00",
		Distance:  "12.5 公里",
		Duration:  "25 分鐘",
		MapsURL:   "https://www.google.com/maps/dir/a/b/",
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.CreateRoute(ctx, r))

	stops := []route.Stop{
		{ID: "stp_a", RouteID: r.ID, Address: "台北車站", IsStart: true},
		{ID: "stp_b", RouteID: r.ID, Address: "中正紀念堂", Sequence: 1},
		{ID: "stp_c", RouteID: r.ID, Address: "台北101", IsEnd: true, Sequence: 2},
	}
	for i := range stops {
		require.NoError(t, repo.CreateStop(ctx, &stops[i]))
	}
	return r
}

func newTestNotifier(t *testing.T, pusher notify.Pusher) (*notify.Service, *route.InMemoryRepository) {
	t.Helper()

	repo := route.NewInMemoryRepository()
	recipients := notify.NewInMemoryRecipientRepository([]notify.Recipient{
		{ID: "rcp_test", Name: "測試收件人", LineUserID: "U1234567890"},
	})

	svc := notify.NewService(notify.ServiceConfig{
		Routes:     repo,
		Recipients: recipients,
		Pusher:     pusher,
		Logger:     zerolog.Nop(),
	})
	return svc, repo
}

func TestSend_DefaultMessageAndFlagFlip(t *testing.T) {
	pusher := &stubPusher{}
	svc, repo := newTestNotifier(t, pusher)
	ctx := context.Background()
	seedRoute(t, repo)

	result, err := svc.Send(ctx, &models.NotificationRequest{
		RouteID:     "rt_test1",
		RecipientID: "rcp_test",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	assert.Equal(t, "U1234567890", pusher.to)
	require.Len(t, pusher.messages, 1)
	assert.Equal(t,
		"🚗 路徑規劃結果\n\n"+
			"從: 台北車站\n"+
			"到: 台北101\n"+
			"總距離: 12.5 公里\n"+
			"預估時間: 25 分鐘\n"+
			"地址數量: 3 個地點\n\n"+
			"Google Maps 路線連結:\nhttps://www.google.com/maps/dir/a/b/",
		pusher.messages[0])

	got, err := repo.GetRoute(ctx, "rt_test1")
	require.NoError(t, err)
	assert.True(t, got.NotificationSent)
}

func TestSend_CustomMessageOverridesDefault(t *testing.T) {
	pusher := &stubPusher{}
	svc, repo := newTestNotifier(t, pusher)
	seedRoute(t, repo)

	_, err := svc.Send(context.Background(), &models.NotificationRequest{
		RouteID:     "rt_test1",
		RecipientID: "rcp_test",
		Message:     "今天的配送路線出來了",
	})
	require.NoError(t, err)
	require.Len(t, pusher.messages, 1)
	assert.Equal(t, "今天的配送路線出來了", pusher.messages[0])
}

func TestSend_PushFailureLeavesFlagUntouched(t *testing.T) {
	pusher := &stubPusher{err: errors.New("line rejected the push")}
	svc, repo := newTestNotifier(t, pusher)
	ctx := context.Background()
	seedRoute(t, repo)

	_, err := svc.Send(ctx, &models.NotificationRequest{
		RouteID:     "rt_test1",
		RecipientID: "rcp_test",
	})
	assert.ErrorIs(t, err, notify.ErrPushFailed)

	got, err := repo.GetRoute(ctx, "rt_test1")
	require.NoError(t, err)
	assert.False(t, got.NotificationSent)
}

func TestSend_RouteNotFound(t *testing.T) {
	svc, _ := newTestNotifier(t, &stubPusher{})

	_, err := svc.Send(context.Background(), &models.NotificationRequest{
		RouteID:     "rt_missing",
		RecipientID: "rcp_test",
	})
	assert.ErrorIs(t, err, route.ErrRouteNotFound)
}

func TestSend_RecipientNotFound(t *testing.T) {
	svc, repo := newTestNotifier(t, &stubPusher{})
	seedRoute(t, repo)

	_, err := svc.Send(context.Background(), &models.NotificationRequest{
		RouteID:     "rt_test1",
		RecipientID: "rcp_missing",
	})
	assert.ErrorIs(t, err, notify.ErrRecipientNotFound)
}

func TestSend_ValidatesInput(t *testing.T) {
	svc, _ := newTestNotifier(t, &stubPusher{})

	_, err := svc.Send(context.Background(), &models.NotificationRequest{})

	var validationErr *route.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Errors, 2)
	assert.Equal(t, "routeId", validationErr.Errors[0].Field)
	assert.Equal(t, "recipientId", validationErr.Errors[1].Field)
}

func TestListRecipients(t *testing.T) {
	svc, _ := newTestNotifier(t, &stubPusher{})

	list, err := svc.ListRecipients(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "rcp_test", list.Items[0].ID)
	assert.Equal(t, "測試收件人", list.Items[0].Name)
}

func TestDefaultMessage_FallbackLabelsWithoutStops(t *testing.T) {
	r := &route.Route{
		Distance: "8 公里",
		Duration: "15 分鐘",
		MapsURL:  "https://www.google.com/maps/dir/",
	}

	msg := notify.DefaultMessage(r, nil)
	assert.Contains(t, msg, "從: 起點\n")
	assert.Contains(t, msg, "到: 終點\n")
	assert.Contains(t, msg, "地址數量: 0 個地點")
}

package http

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	v1 "github.com/wrale/webos-remote/api/types/v1"
	"github.com/wrale/webos-remote/internal/tvremoted/link"
	"github.com/wrale/webos-remote/internal/tvremoted/remote"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Connect() {
	m.Called()
}

func (m *mockService) Status() link.Status {
	return m.Called().Get(0).(link.Status)
}

func (m *mockService) Volume(ctx context.Context, a remote.VolumeAction) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockService) Channel(ctx context.Context, a remote.ChannelAction) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockService) Power(ctx context.Context, a remote.PowerAction) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockService) Navigate(ctx context.Context, a remote.NavigateAction) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockService) LaunchApp(ctx context.Context, a remote.AppAction) (string, error) {
	args := m.Called(ctx, a)
	return args.String(0), args.Error(1)
}

func (m *mockService) SwitchInput(ctx context.Context, a remote.InputAction) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockService) ShowMessage(ctx context.Context, a remote.MessageAction) (int, error) {
	args := m.Called(ctx, a)
	return args.Int(0), args.Error(1)
}

func (m *mockService) MessageMute(ctx context.Context, mm remote.MessageMute) remote.MessageMuteResult {
	return m.Called(ctx, mm).Get(0).(remote.MessageMuteResult)
}

func (m *mockService) Combo(ctx context.Context, steps []remote.Step) []v1.ComboResult {
	return m.Called(ctx, steps).Get(0).([]v1.ComboResult)
}

func (m *mockService) StandardPlan(custom *v1.CustomMessages) *remote.Plan {
	return m.Called(custom).Get(0).(*remote.Plan)
}

func (m *mockService) FastPlan() *remote.Plan {
	return m.Called().Get(0).(*remote.Plan)
}

func (m *mockService) SchedulePlan(p *remote.Plan) {
	m.Called(p)
}

func (m *mockService) CancelShutdown(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockService) ListApps(ctx context.Context) (json.RawMessage, error) {
	return m.raw(m.Called(ctx))
}

func (m *mockService) ListInputs(ctx context.Context) (json.RawMessage, error) {
	return m.raw(m.Called(ctx))
}

func (m *mockService) SystemInfo(ctx context.Context) (json.RawMessage, error) {
	return m.raw(m.Called(ctx))
}

func (m *mockService) raw(args mock.Arguments) (json.RawMessage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

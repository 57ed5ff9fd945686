package tests

import (
	"context"
	"testing"

	"stockpos/internal/apierror"
	"stockpos/internal/dto"
	"stockpos/internal/model"
	"stockpos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubReportWriter records the shift it was asked to render.
type stubReportWriter struct {
	written []*model.Shift
	path    string
}

func (w *stubReportWriter) WriteShiftReport(shift *model.Shift) (string, error) {
	w.written = append(w.written, shift)
	return w.path, nil
}

type shiftEnv struct {
	shifts  *stubShiftRepo
	notes   *stubNotificationRepo
	reports *stubReportWriter
	svc     service.ShiftService
}

func newShiftEnv() *shiftEnv {
	env := &shiftEnv{
		shifts:  newStubShiftRepo(),
		notes:   newStubNotificationRepo(),
		reports: &stubReportWriter{path: "/tmp/shift-report.pdf"},
	}
	notifier := service.NewNotifier(env.notes, nil)
	env.svc = service.NewShiftService(env.shifts, notifier, env.reports)
	return env
}

func TestOpenShift(t *testing.T) {
	env := newShiftEnv()
	tenant, user := uuid.New(), uuid.New()

	resp, err := env.svc.Open(context.Background(), tenant, user, dto.OpenShiftRequest{
		StartFloat: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	assert.Equal(t, model.ShiftStatusOpen, resp.Status)
	assert.Equal(t, "500", resp.StartFloat.String())
	assert.Equal(t, user.String(), resp.OpenedBy)
}

func TestSecondOpenReturnsRunningShift(t *testing.T) {
	env := newShiftEnv()
	tenant, user := uuid.New(), uuid.New()

	first, err := env.svc.Open(context.Background(), tenant, user, dto.OpenShiftRequest{
		StartFloat: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	second, err := env.svc.Open(context.Background(), tenant, user, dto.OpenShiftRequest{
		StartFloat: decimal.NewFromInt(9999), // ignored
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "500", second.StartFloat.String())
	assert.Len(t, env.shifts.shifts, 1)
}

func TestOpenShiftsAreTenantScoped(t *testing.T) {
	env := newShiftEnv()
	user := uuid.New()

	a, err := env.svc.Open(context.Background(), uuid.New(), user, dto.OpenShiftRequest{})
	require.NoError(t, err)
	b, err := env.svc.Open(context.Background(), uuid.New(), user, dto.OpenShiftRequest{})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestGetShiftByID(t *testing.T) {
	env := newShiftEnv()
	tenant, user := uuid.New(), uuid.New()

	opened, err := env.svc.Open(context.Background(), tenant, user, dto.OpenShiftRequest{
		StartFloat: decimal.NewFromInt(250),
	})
	require.NoError(t, err)

	resp, err := env.svc.Get(context.Background(), tenant, uuid.MustParse(opened.ID))
	require.NoError(t, err)
	assert.Equal(t, opened.ID, resp.ID)
	assert.Equal(t, "250", resp.StartFloat.String())

	_, err = env.svc.Get(context.Background(), uuid.New(), uuid.MustParse(opened.ID))
	require.Error(t, err)
	assert.Equal(t, apierror.KindAccessDenied, apierror.KindOf(err))

	_, err = env.svc.Get(context.Background(), tenant, uuid.New())
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestCloseShiftComputesDifference(t *testing.T) {
	env := newShiftEnv()
	tenant, user := uuid.New(), uuid.New()

	opened, err := env.svc.Open(context.Background(), tenant, user, dto.OpenShiftRequest{
		StartFloat: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	// Simulate drawer traffic the way sale processing would.
	shift := env.shifts.shifts[uuid.MustParse(opened.ID)]
	shift.CashSales = decimal.NewFromInt(800)
	shift.CashRefunds = decimal.NewFromInt(150)

	closer := uuid.New()
	resp, err := env.svc.Close(context.Background(), tenant, closer, dto.CloseShiftRequest{
		ActualCash: decimal.NewFromInt(1600),
	})
	require.NoError(t, err)

	assert.Equal(t, model.ShiftStatusClosed, resp.Status)
	require.NotNil(t, resp.ExpectedCash)
	assert.Equal(t, "1650", resp.ExpectedCash.String())
	require.NotNil(t, resp.Difference)
	assert.Equal(t, "-50", resp.Difference.String()) // shortfall is negative
	require.NotNil(t, resp.ClosedBy)
	assert.Equal(t, closer.String(), *resp.ClosedBy)
	require.NotNil(t, resp.EndTime)

	assert.Len(t, env.notes.byCategory(model.NotifyShift), 1)
}

func TestCloseWithoutOpenShift(t *testing.T) {
	env := newShiftEnv()

	_, err := env.svc.Close(context.Background(), uuid.New(), uuid.New(), dto.CloseShiftRequest{
		ActualCash: decimal.NewFromInt(100),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindNoActiveShift, apierror.KindOf(err))
}

func TestCurrentWithoutOpenShift(t *testing.T) {
	env := newShiftEnv()

	_, err := env.svc.Current(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apierror.KindNoActiveShift, apierror.KindOf(err))
}

func TestReportRequiresClosedShift(t *testing.T) {
	env := newShiftEnv()
	tenant, user := uuid.New(), uuid.New()

	opened, err := env.svc.Open(context.Background(), tenant, user, dto.OpenShiftRequest{})
	require.NoError(t, err)

	_, err = env.svc.Report(context.Background(), tenant, uuid.MustParse(opened.ID))
	require.Error(t, err)
	assert.Equal(t, apierror.KindPreconditionFailed, apierror.KindOf(err))
	assert.Empty(t, env.reports.written)
}

func TestReportRendersClosedShift(t *testing.T) {
	env := newShiftEnv()
	tenant, user := uuid.New(), uuid.New()

	opened, err := env.svc.Open(context.Background(), tenant, user, dto.OpenShiftRequest{
		StartFloat: decimal.NewFromInt(300),
	})
	require.NoError(t, err)
	_, err = env.svc.Close(context.Background(), tenant, user, dto.CloseShiftRequest{
		ActualCash: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	path, err := env.svc.Report(context.Background(), tenant, uuid.MustParse(opened.ID))
	require.NoError(t, err)

	assert.Equal(t, env.reports.path, path)
	require.Len(t, env.reports.written, 1)
	assert.Equal(t, opened.ID, env.reports.written[0].ID.String())
}

func TestReportWrongTenant(t *testing.T) {
	env := newShiftEnv()
	tenant, user := uuid.New(), uuid.New()

	opened, err := env.svc.Open(context.Background(), tenant, user, dto.OpenShiftRequest{})
	require.NoError(t, err)

	_, err = env.svc.Report(context.Background(), uuid.New(), uuid.MustParse(opened.ID))
	require.Error(t, err)
	assert.Equal(t, apierror.KindAccessDenied, apierror.KindOf(err))
}

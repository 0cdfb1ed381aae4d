package impl

import (
	"context"
	"testing"

	domainerrors "riskctl/internal/domain/errors"
	"riskctl/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCancelService(store *memoryStore, clock *fakeClock) usecase.CancelUsecase {
	return NewCancelService(CancelServiceParams{
		TxManager: &memoryTxManager{store: store},
		Clock:     clock,
		Logger:    discardLogger(),
	})
}

func TestCancel_MarksOrderCanceled(t *testing.T) {
	store := newMemoryStore()
	report := newTestReportService(store, &fakeClock{now: 1000})
	svc := newTestCancelService(store, &fakeClock{now: 1100})

	ctx := context.Background()

	_, err := report.Report(ctx, &usecase.ReportInput{
		App: "app1", OrderNo: "O1", RefundAmount: "10.00", RefundTime: 900, Phone: "555",
	})
	require.NoError(t, err)
	_, err = report.Report(ctx, &usecase.ReportInput{
		App: "app1", OrderNo: "O2", RefundAmount: "5.00", RefundTime: 910, Phone: "555",
	})
	require.NoError(t, err)

	out, err := svc.Cancel(ctx, &usecase.CancelInput{App: "app1", OrderNo: "O2"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.RemainingRefundCount)

	canceled, err := (&fakeOrderRepo{store: store}).FindByAppOrderNo(ctx, "app1", "O2")
	require.NoError(t, err)
	assert.True(t, canceled.IsCanceled())
	assert.Equal(t, int64(1100), canceled.CanceledAt)
}

func TestCancel_UnknownOrder(t *testing.T) {
	store := newMemoryStore()
	svc := newTestCancelService(store, &fakeClock{now: 1100})

	_, err := svc.Cancel(context.Background(), &usecase.CancelInput{App: "app1", OrderNo: "missing"})
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, domainerrors.CodeOrderNotFound, appErr.Code())
}

func TestCancel_AlreadyCanceledOrder(t *testing.T) {
	store := newMemoryStore()
	report := newTestReportService(store, &fakeClock{now: 1000})
	svc := newTestCancelService(store, &fakeClock{now: 1100})

	ctx := context.Background()

	_, err := report.Report(ctx, &usecase.ReportInput{
		App: "app1", OrderNo: "O1", RefundAmount: "10.00", RefundTime: 900, Phone: "555",
	})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, &usecase.CancelInput{App: "app1", OrderNo: "O1"})
	require.NoError(t, err)

	// The transition is one way: a second cancel is a business-rule
	// violation, not a no-op, and the order stays canceled.
	_, err = svc.Cancel(ctx, &usecase.CancelInput{App: "app1", OrderNo: "O1"})
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, domainerrors.CodeOrderCanceled, appErr.Code())

	order, err := (&fakeOrderRepo{store: store}).FindByAppOrderNo(ctx, "app1", "O1")
	require.NoError(t, err)
	assert.True(t, order.IsCanceled())
	assert.Equal(t, int64(1100), order.CanceledAt)
}

func TestCancel_DoesNotAffectSiblingOrders(t *testing.T) {
	store := newMemoryStore()
	report := newTestReportService(store, &fakeClock{now: 1000})
	svc := newTestCancelService(store, &fakeClock{now: 1100})

	ctx := context.Background()

	_, err := report.Report(ctx, &usecase.ReportInput{
		App: "app1", OrderNo: "O1", RefundAmount: "10.00", RefundTime: 900, Phone: "555",
	})
	require.NoError(t, err)
	_, err = report.Report(ctx, &usecase.ReportInput{
		App: "app2", OrderNo: "O2", RefundAmount: "5.00", RefundTime: 910, Phone: "555",
	})
	require.NoError(t, err)

	out, err := svc.Cancel(ctx, &usecase.CancelInput{App: "app1", OrderNo: "O1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.RemainingRefundCount)

	sibling, err := (&fakeOrderRepo{store: store}).FindByAppOrderNo(ctx, "app2", "O2")
	require.NoError(t, err)
	assert.True(t, sibling.IsValid())
}

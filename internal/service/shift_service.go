package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stockpos/internal/apierror"
	"stockpos/internal/dto"
	"stockpos/internal/model"
	"stockpos/internal/repository"
)

type ShiftService interface {
	// Open starts a shift, or returns the already-open one unchanged.
	Open(ctx context.Context, tenantID, userID uuid.UUID, req dto.OpenShiftRequest) (*dto.ShiftResponse, error)
	Close(ctx context.Context, tenantID, userID uuid.UUID, req dto.CloseShiftRequest) (*dto.ShiftResponse, error)
	Current(ctx context.Context, tenantID uuid.UUID) (*dto.ShiftResponse, error)
	Get(ctx context.Context, tenantID, shiftID uuid.UUID) (*dto.ShiftResponse, error)
	History(ctx context.Context, tenantID uuid.UUID, page, limit int) (*dto.ShiftListResponse, error)
	// Report renders the closing report PDF and returns its path.
	Report(ctx context.Context, tenantID, shiftID uuid.UUID) (string, error)
}

// ShiftReportWriter renders a closing report for a finished shift.
type ShiftReportWriter interface {
	WriteShiftReport(shift *model.Shift) (string, error)
}

type shiftService struct {
	shifts   repository.ShiftRepository
	notifier Notifier
	reports  ShiftReportWriter // nil disables PDF generation
}

func NewShiftService(shifts repository.ShiftRepository, notifier Notifier, reports ShiftReportWriter) ShiftService {
	return &shiftService{shifts: shifts, notifier: notifier, reports: reports}
}

func (s *shiftService) Open(ctx context.Context, tenantID, userID uuid.UUID, req dto.OpenShiftRequest) (*dto.ShiftResponse, error) {
	existing, err := s.shifts.FindOpen(ctx, tenantID)
	if err == nil {
		// Second open is a no-op: the running shift keeps its float and totals.
		return shiftToResponse(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("looking up open shift: %w", err)
	}

	shift := &model.Shift{
		ID:         uuid.New(),
		TenantID:   tenantID,
		OpenedBy:   userID,
		Status:     model.ShiftStatusOpen,
		StartFloat: req.StartFloat,
		StartTime:  time.Now().UTC(),
	}
	if err := s.shifts.Create(ctx, shift); err != nil {
		return nil, fmt.Errorf("opening shift: %w", err)
	}
	return shiftToResponse(shift), nil
}

// Close settles the open shift: expected cash is startFloat + cashSales −
// cashRefunds, and the difference against the counted amount is recorded
// as-is, shortfalls negative.
func (s *shiftService) Close(ctx context.Context, tenantID, userID uuid.UUID, req dto.CloseShiftRequest) (*dto.ShiftResponse, error) {
	shift, err := s.shifts.FindOpen(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NoActiveShift()
		}
		return nil, fmt.Errorf("looking up open shift: %w", err)
	}

	expected := shift.StartFloat.Add(shift.CashSales).Sub(shift.CashRefunds)
	actual := req.ActualCash
	difference := actual.Sub(expected)
	now := time.Now().UTC()

	shift.Status = model.ShiftStatusClosed
	shift.ClosedBy = &userID
	shift.ExpectedCash = &expected
	shift.ActualCash = &actual
	shift.Difference = &difference
	shift.Notes = req.Notes
	shift.EndTime = &now

	err = runTx(ctx, s.shifts.DB(), func(tx *gorm.DB) error {
		if err := s.shifts.Save(ctx, shift); err != nil {
			return fmt.Errorf("closing shift: %w", err)
		}
		msg := fmt.Sprintf("Shift closed: expected %s, counted %s, difference %s",
			expected.StringFixed(2), actual.StringFixed(2), difference.StringFixed(2))
		return s.notifier.NotifyTx(tx, tenantID, model.NotifyShift, msg, &shift.ID)
	})
	if err != nil {
		return nil, err
	}
	return shiftToResponse(shift), nil
}

func (s *shiftService) Current(ctx context.Context, tenantID uuid.UUID) (*dto.ShiftResponse, error) {
	shift, err := s.shifts.FindOpen(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NoActiveShift()
		}
		return nil, fmt.Errorf("looking up open shift: %w", err)
	}
	return shiftToResponse(shift), nil
}

func (s *shiftService) Get(ctx context.Context, tenantID, shiftID uuid.UUID) (*dto.ShiftResponse, error) {
	shift, err := s.shifts.FindByID(ctx, shiftID)
	if err != nil {
		return nil, apierror.NotFoundf("shift %s not found", shiftID)
	}
	if shift.TenantID != tenantID {
		return nil, apierror.AccessDenied()
	}
	return shiftToResponse(shift), nil
}

func (s *shiftService) History(ctx context.Context, tenantID uuid.UUID, page, limit int) (*dto.ShiftListResponse, error) {
	shifts, total, err := s.shifts.List(ctx, tenantID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("listing shifts: %w", err)
	}
	resp := &dto.ShiftListResponse{
		Data:  make([]dto.ShiftResponse, 0, len(shifts)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i := range shifts {
		resp.Data = append(resp.Data, *shiftToResponse(&shifts[i]))
	}
	return resp, nil
}

func (s *shiftService) Report(ctx context.Context, tenantID, shiftID uuid.UUID) (string, error) {
	shift, err := s.shifts.FindByID(ctx, shiftID)
	if err != nil {
		return "", apierror.NotFoundf("shift %s not found", shiftID)
	}
	if shift.TenantID != tenantID {
		return "", apierror.AccessDenied()
	}
	if shift.Status != model.ShiftStatusClosed {
		return "", apierror.PreconditionFailedf("shift %s is still open", shiftID)
	}
	if s.reports == nil {
		return "", apierror.PreconditionFailedf("report generation is not configured")
	}
	return s.reports.WriteShiftReport(shift)
}

func shiftToResponse(shift *model.Shift) *dto.ShiftResponse {
	resp := &dto.ShiftResponse{
		ID:           shift.ID.String(),
		OpenedBy:     shift.OpenedBy.String(),
		Status:       shift.Status,
		StartFloat:   shift.StartFloat,
		CashSales:    shift.CashSales,
		CashRefunds:  shift.CashRefunds,
		ExpectedCash: shift.ExpectedCash,
		ActualCash:   shift.ActualCash,
		Difference:   shift.Difference,
		Notes:        shift.Notes,
		StartTime:    shift.StartTime.Format(timeFormat),
	}
	if shift.ClosedBy != nil {
		c := shift.ClosedBy.String()
		resp.ClosedBy = &c
	}
	if shift.EndTime != nil {
		e := shift.EndTime.Format(timeFormat)
		resp.EndTime = &e
	}
	return resp
}

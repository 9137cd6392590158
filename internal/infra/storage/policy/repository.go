package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const tablePolicies = "policy_settings"

// settingColumns колонки переопределяемых полей в порядке upsert
var settingColumns = []string{
	"buffer_minutes",
	"slot_interval_minutes",
	"min_notice_minutes",
	"max_advance_days",
	"cancellation_cutoff_hours",
	"allow_client_cancel",
	"allow_client_reschedule",
	"auto_confirm_staff",
	"enforce_open_hours",
	"deposit_required",
	"deposit_amount",
	"no_show_fee_enabled",
	"no_show_fee_amount",
	"queue_mode_enabled",
	"queue_dispatch_mode",
	"queue_grace_minutes",
	"queue_pre_call_threshold",
	"queue_assignment_mode",
	"queue_no_show_on_grace_expiry",
	"check_in_early_minutes",
	"queue_timezone",
	"waitlist_enabled",
}

// Repository репозиторий настроек политики планирования
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек политики
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetPolicySettings получает строку настроек ровно для этого уровня:
// teamMemberID == nil - настройки аккаунта, иначе - переопределения сотрудника
func (r *Repository) GetPolicySettings(ctx context.Context, accountID int64, teamMemberID *int64) (*domain.PolicySettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := append([]string{"id", "account_id", "team_member_id"}, settingColumns...)
	columns = append(columns, "created_at", "updated_at")

	selectBuilder := psqlbuilder.Select(columns...).
		From(tablePolicies).
		Where(squirrel.Eq{"account_id": accountID})

	// Фильтрация по team_member_id (NULL или конкретное значение)
	if teamMemberID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"team_member_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"team_member_id": *teamMemberID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetPolicySettings - build select query: %v", ErrBuildQuery, err)
	}

	var (
		s                  domain.PolicySettings
		deposit, noShowFee decimal.NullDecimal
	)
	dest := []interface{}{&s.ID, &s.AccountID, &s.TeamMemberID}
	dest = append(dest, settingTargets(&s, &deposit, &noShowFee)...)
	dest = append(dest, &s.CreatedAt, &s.UpdatedAt)

	err = executor.QueryRowContext(ctx, query, args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: account=%d", ErrPolicyNotFound, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPolicySettings - scan settings: %w", ErrScanRow, err)
	}

	if deposit.Valid {
		s.DepositAmount = &deposit.Decimal
	}
	if noShowFee.Valid {
		s.NoShowFeeAmount = &noShowFee.Decimal
	}

	return &s, nil
}

// UpsertPolicySettings создает или заменяет строку настроек уровня.
// Конфликт определяется уникальным индексом (account_id, COALESCE(team_member_id, 0)).
func (r *Repository) UpsertPolicySettings(ctx context.Context, settings *domain.PolicySettings) (*domain.PolicySettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	values := []interface{}{settings.AccountID, settings.TeamMemberID}
	values = append(values, settingValues(settings)...)

	updates := make([]string, 0, len(settingColumns)+1)
	for _, c := range settingColumns {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	updates = append(updates, "updated_at = NOW()")

	query, args, err := psqlbuilder.Insert(tablePolicies).
		Columns(append([]string{"account_id", "team_member_id"}, settingColumns...)...).
		Values(values...).
		Suffix("ON CONFLICT (account_id, COALESCE(team_member_id, 0)) DO UPDATE SET " + strings.Join(updates, ", ")).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertPolicySettings - build upsert query: %v", ErrBuildQuery, err)
	}

	stored := *settings
	err = executor.QueryRowContext(ctx, query, args...).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertPolicySettings - execute upsert: %w", ErrExecQuery, err)
	}

	return &stored, nil
}

func settingTargets(s *domain.PolicySettings, deposit, noShowFee *decimal.NullDecimal) []interface{} {
	return []interface{}{
		&s.BufferMinutes,
		&s.SlotIntervalMinutes,
		&s.MinNoticeMinutes,
		&s.MaxAdvanceDays,
		&s.CancellationCutoffHours,
		&s.AllowClientCancel,
		&s.AllowClientReschedule,
		&s.AutoConfirmStaff,
		&s.EnforceOpenHours,
		&s.DepositRequired,
		deposit,
		&s.NoShowFeeEnabled,
		noShowFee,
		&s.QueueModeEnabled,
		&s.QueueDispatchMode,
		&s.QueueGraceMinutes,
		&s.QueuePreCallThreshold,
		&s.QueueAssignmentMode,
		&s.QueueNoShowOnGraceExpiry,
		&s.CheckInEarlyMinutes,
		&s.QueueTimezone,
		&s.WaitlistEnabled,
	}
}

func settingValues(s *domain.PolicySettings) []interface{} {
	return []interface{}{
		s.BufferMinutes,
		s.SlotIntervalMinutes,
		s.MinNoticeMinutes,
		s.MaxAdvanceDays,
		s.CancellationCutoffHours,
		s.AllowClientCancel,
		s.AllowClientReschedule,
		s.AutoConfirmStaff,
		s.EnforceOpenHours,
		s.DepositRequired,
		nullDecimal(s.DepositAmount),
		s.NoShowFeeEnabled,
		nullDecimal(s.NoShowFeeAmount),
		s.QueueModeEnabled,
		s.QueueDispatchMode,
		s.QueueGraceMinutes,
		s.QueuePreCallThreshold,
		s.QueueAssignmentMode,
		s.QueueNoShowOnGraceExpiry,
		s.CheckInEarlyMinutes,
		s.QueueTimezone,
		s.WaitlistEnabled,
	}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

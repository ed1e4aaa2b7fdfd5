package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/voyaiger/voyaiger-server/internal/api"
	"github.com/voyaiger/voyaiger-server/internal/types"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository is the storage contract for saved itineraries and their invites.
type Repository interface {
	SaveItinerary(ctx context.Context, req types.SaveItineraryRequest) (*types.SavedItinerary, error)
	GetItinerary(ctx context.Context, id uuid.UUID) (*types.SavedItinerary, error)
	ListItineraries(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]types.SavedItinerary, int, error)
	UpdateItinerary(ctx context.Context, id uuid.UUID, req types.UpdateItineraryRequest) (*types.SavedItinerary, error)

	CreateInvite(ctx context.Context, itineraryID uuid.UUID, email string) (*types.Invite, error)
	ListInvites(ctx context.Context, itineraryID uuid.UUID) ([]types.Invite, error)
	GetInvite(ctx context.Context, id uuid.UUID) (*types.Invite, error)
	RespondInvite(ctx context.Context, id uuid.UUID, status types.InviteStatus) (*types.Invite, error)
}

// DB is the pool surface the repository uses. *pgxpool.Pool satisfies it in
// production, pgxmock in tests. Every statement here is a single round trip,
// so no transaction methods are needed.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	logger *slog.Logger
	db     DB
}

func NewRepository(db DB, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresRepository) SaveItinerary(ctx context.Context, req types.SaveItineraryRequest) (*types.SavedItinerary, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "SaveItinerary", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "itineraries"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "SaveItinerary"), slog.String("userID", req.UserID.String()))

	query := `
        INSERT INTO itineraries (user_id, city, start_date, end_date, total_budget, itinerary_data)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, user_id, city, start_date, end_date, total_budget, itinerary_data, version, created_at, updated_at`

	var it types.SavedItinerary
	err := r.db.QueryRow(ctx, query,
		req.UserID, req.City, req.Dates.Start, req.Dates.End, req.TotalBudget, req.Data,
	).Scan(
		&it.ID, &it.UserID, &it.City, &it.StartDate, &it.EndDate,
		&it.TotalBudget, &it.Data, &it.Version, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error saving itinerary: %w", err)
	}

	span.SetAttributes(attribute.String("db.itinerary.id", it.ID.String()))
	span.SetStatus(codes.Ok, "Itinerary saved")
	return &it, nil
}

func (r *PostgresRepository) GetItinerary(ctx context.Context, id uuid.UUID) (*types.SavedItinerary, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "GetItinerary", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "itineraries"),
		attribute.String("db.itinerary.id", id.String()),
	))
	defer span.End()

	query := `
        SELECT id, user_id, city, start_date, end_date, total_budget, itinerary_data, version, created_at, updated_at
        FROM itineraries
        WHERE id = $1`

	var it types.SavedItinerary
	err := r.db.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.UserID, &it.City, &it.StartDate, &it.EndDate,
		&it.TotalBudget, &it.Data, &it.Version, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("itinerary %s: %w", id, api.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to fetch itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching itinerary: %w", err)
	}

	span.SetStatus(codes.Ok, "Itinerary fetched")
	return &it, nil
}

func (r *PostgresRepository) ListItineraries(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]types.SavedItinerary, int, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "ListItineraries", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "itineraries"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM itineraries WHERE user_id = $1`, userID).Scan(&total); err != nil {
		r.logger.ErrorContext(ctx, "Failed to count itineraries", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB COUNT failed")
		return nil, 0, fmt.Errorf("database error counting itineraries: %w", err)
	}

	query := `
        SELECT id, user_id, city, start_date, end_date, total_budget, itinerary_data, version, created_at, updated_at
        FROM itineraries
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list itineraries", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, 0, fmt.Errorf("database error listing itineraries: %w", err)
	}
	defer rows.Close()

	var itineraries []types.SavedItinerary
	for rows.Next() {
		var it types.SavedItinerary
		if err := rows.Scan(
			&it.ID, &it.UserID, &it.City, &it.StartDate, &it.EndDate,
			&it.TotalBudget, &it.Data, &it.Version, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			return nil, 0, fmt.Errorf("database error scanning itinerary: %w", err)
		}
		itineraries = append(itineraries, it)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("database error reading itineraries: %w", err)
	}

	span.SetAttributes(attribute.Int("itineraries.count", len(itineraries)), attribute.Int("total_records", total))
	span.SetStatus(codes.Ok, "Itineraries listed")
	return itineraries, total, nil
}

// UpdateItinerary applies an optimistic-lock update: the row changes only if
// the caller presents the version it read. A version mismatch surfaces as
// api.ErrConflict, a missing row as api.ErrNotFound.
func (r *PostgresRepository) UpdateItinerary(ctx context.Context, id uuid.UUID, req types.UpdateItineraryRequest) (*types.SavedItinerary, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "UpdateItinerary", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "itineraries"),
		attribute.String("db.itinerary.id", id.String()),
		attribute.Int("db.itinerary.version", req.Version),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateItinerary"), slog.String("itineraryID", id.String()))

	query := `
        UPDATE itineraries
        SET itinerary_data = $3, version = version + 1, updated_at = now()
        WHERE id = $1 AND version = $2
        RETURNING id, user_id, city, start_date, end_date, total_budget, itinerary_data, version, created_at, updated_at`

	var it types.SavedItinerary
	err := r.db.QueryRow(ctx, query, id, req.Version, req.Data).Scan(
		&it.ID, &it.UserID, &it.City, &it.StartDate, &it.EndDate,
		&it.TotalBudget, &it.Data, &it.Version, &it.CreatedAt, &it.UpdatedAt,
	)
	if err == nil {
		span.SetStatus(codes.Ok, "Itinerary updated")
		return &it, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		l.ErrorContext(ctx, "Failed to update itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return nil, fmt.Errorf("database error updating itinerary: %w", err)
	}

	// No row matched: either the itinerary is gone or the version moved.
	var current int
	switch err := r.db.QueryRow(ctx, `SELECT version FROM itineraries WHERE id = $1`, id).Scan(&current); {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("itinerary %s: %w", id, api.ErrNotFound)
	case err != nil:
		span.RecordError(err)
		return nil, fmt.Errorf("database error checking itinerary version: %w", err)
	}

	l.WarnContext(ctx, "Itinerary version conflict", slog.Int("requested", req.Version), slog.Int("current", current))
	span.SetStatus(codes.Error, "Version conflict")
	return nil, fmt.Errorf("itinerary version is %d, not %d: %w", current, req.Version, api.ErrConflict)
}

func (r *PostgresRepository) CreateInvite(ctx context.Context, itineraryID uuid.UUID, email string) (*types.Invite, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "CreateInvite", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "itinerary_invites"),
		attribute.String("db.itinerary.id", itineraryID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateInvite"), slog.String("itineraryID", itineraryID.String()))

	query := `
        INSERT INTO itinerary_invites (itinerary_id, invitee_email)
        VALUES ($1, $2)
        RETURNING id, itinerary_id, invitee_email, status, created_at, responded_at`

	var invite types.Invite
	err := r.db.QueryRow(ctx, query, itineraryID, email).Scan(
		&invite.ID, &invite.ItineraryID, &invite.InviteeEmail,
		&invite.Status, &invite.CreatedAt, &invite.RespondedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // unique violation: one invite per itinerary and email
				l.WarnContext(ctx, "Duplicate invite", slog.Any("error", err))
				span.SetStatus(codes.Error, "Duplicate invite")
				return nil, fmt.Errorf("invite for %s already exists: %w", email, api.ErrConflict)
			case "23503": // foreign key violation: itinerary is gone
				return nil, fmt.Errorf("itinerary %s: %w", itineraryID, api.ErrNotFound)
			}
		}
		l.ErrorContext(ctx, "Failed to insert invite", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating invite: %w", err)
	}

	span.SetAttributes(attribute.String("db.invite.id", invite.ID.String()))
	span.SetStatus(codes.Ok, "Invite created")
	return &invite, nil
}

func (r *PostgresRepository) ListInvites(ctx context.Context, itineraryID uuid.UUID) ([]types.Invite, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "ListInvites", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "itinerary_invites"),
		attribute.String("db.itinerary.id", itineraryID.String()),
	))
	defer span.End()

	query := `
        SELECT id, itinerary_id, invitee_email, status, created_at, responded_at
        FROM itinerary_invites
        WHERE itinerary_id = $1
        ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, itineraryID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list invites", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing invites: %w", err)
	}
	defer rows.Close()

	var invites []types.Invite
	for rows.Next() {
		var invite types.Invite
		if err := rows.Scan(
			&invite.ID, &invite.ItineraryID, &invite.InviteeEmail,
			&invite.Status, &invite.CreatedAt, &invite.RespondedAt,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning invite: %w", err)
		}
		invites = append(invites, invite)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("database error reading invites: %w", err)
	}

	span.SetAttributes(attribute.Int("invites.count", len(invites)))
	span.SetStatus(codes.Ok, "Invites listed")
	return invites, nil
}

func (r *PostgresRepository) GetInvite(ctx context.Context, id uuid.UUID) (*types.Invite, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "GetInvite", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "itinerary_invites"),
		attribute.String("db.invite.id", id.String()),
	))
	defer span.End()

	query := `
        SELECT id, itinerary_id, invitee_email, status, created_at, responded_at
        FROM itinerary_invites
        WHERE id = $1`

	var invite types.Invite
	err := r.db.QueryRow(ctx, query, id).Scan(
		&invite.ID, &invite.ItineraryID, &invite.InviteeEmail,
		&invite.Status, &invite.CreatedAt, &invite.RespondedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invite %s: %w", id, api.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to fetch invite", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching invite: %w", err)
	}

	span.SetStatus(codes.Ok, "Invite fetched")
	return &invite, nil
}

// RespondInvite resolves a pending invite to accepted or rejected. Invites
// only ever transition out of pending; responding again is a conflict.
func (r *PostgresRepository) RespondInvite(ctx context.Context, id uuid.UUID, status types.InviteStatus) (*types.Invite, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "RespondInvite", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "itinerary_invites"),
		attribute.String("db.invite.id", id.String()),
		attribute.String("db.invite.status", string(status)),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "RespondInvite"), slog.String("inviteID", id.String()))

	query := `
        UPDATE itinerary_invites
        SET status = $2, responded_at = now()
        WHERE id = $1 AND status = 'pending'
        RETURNING id, itinerary_id, invitee_email, status, created_at, responded_at`

	var invite types.Invite
	err := r.db.QueryRow(ctx, query, id, status).Scan(
		&invite.ID, &invite.ItineraryID, &invite.InviteeEmail,
		&invite.Status, &invite.CreatedAt, &invite.RespondedAt,
	)
	if err == nil {
		span.SetStatus(codes.Ok, "Invite resolved")
		return &invite, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		l.ErrorContext(ctx, "Failed to update invite", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return nil, fmt.Errorf("database error responding to invite: %w", err)
	}

	// No pending row: either the invite is gone or it was already resolved.
	existing, err := r.GetInvite(ctx, id)
	if err != nil {
		return nil, err
	}
	l.WarnContext(ctx, "Invite already resolved", slog.String("status", string(existing.Status)))
	span.SetStatus(codes.Error, "Invite already resolved")
	return nil, fmt.Errorf("invite already %s: %w", existing.Status, api.ErrConflict)
}

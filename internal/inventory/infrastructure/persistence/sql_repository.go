// Package persistence implements inventory storage on the shared database
// abstraction. One SQL surface serves both PostgreSQL and SQLite; the
// connection rebinds placeholders for its dialect.
package persistence

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/inventory/domain"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/database"
)

// SQLRepository implements domain.Repository.
type SQLRepository struct {
	conn database.Connection
}

// NewSQLRepository creates a new inventory repository.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{conn: conn}
}

// SavePremises upserts a premises and its characteristic links.
func (r *SQLRepository) SavePremises(ctx context.Context, premises *domain.Premises) error {
	execer := database.ExecutorFromContext(ctx, r.conn)

	query := `
		INSERT INTO premises (id, name, ap_code, area_name, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			ap_code = excluded.ap_code,
			area_name = excluded.area_name,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			updated_at = excluded.updated_at
	`
	_, err := execer.Exec(ctx, query,
		premises.ID().String(),
		premises.Name(),
		premises.APCode(),
		premises.AreaName(),
		premises.Latitude(),
		premises.Longitude(),
		database.FormatTime(premises.CreatedAt()),
		database.FormatTime(premises.UpdatedAt()),
	)
	if err != nil {
		return err
	}

	if _, err := execer.Exec(ctx, `DELETE FROM premises_characteristics WHERE premises_id = $1`, premises.ID().String()); err != nil {
		return err
	}
	for _, ch := range premises.Characteristics() {
		_, err := execer.Exec(ctx,
			`INSERT INTO premises_characteristics (premises_id, characteristic_id) VALUES ($1, $2)`,
			premises.ID().String(), ch.String(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// SaveRoom upserts a room.
func (r *SQLRepository) SaveRoom(ctx context.Context, room *domain.Room) error {
	execer := database.ExecutorFromContext(ctx, r.conn)
	query := `
		INSERT INTO rooms (id, premises_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name
	`
	_, err := execer.Exec(ctx, query, room.ID().String(), room.PremisesID().String(), room.Name())
	return err
}

// SaveBed upserts a bed and its characteristic links.
func (r *SQLRepository) SaveBed(ctx context.Context, bed *domain.Bed) error {
	execer := database.ExecutorFromContext(ctx, r.conn)

	var endDate any
	if bed.EndDate() != nil {
		endDate = bed.EndDate().String()
	}
	query := `
		INSERT INTO beds (id, room_id, name, end_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, end_date = excluded.end_date
	`
	if _, err := execer.Exec(ctx, query, bed.ID().String(), bed.RoomID().String(), bed.Name(), endDate); err != nil {
		return err
	}

	if _, err := execer.Exec(ctx, `DELETE FROM bed_characteristics WHERE bed_id = $1`, bed.ID().String()); err != nil {
		return err
	}
	for _, ch := range bed.Characteristics() {
		_, err := execer.Exec(ctx,
			`INSERT INTO bed_characteristics (bed_id, characteristic_id) VALUES ($1, $2)`,
			bed.ID().String(), ch.String(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// FindPremises loads a premises by id.
func (r *SQLRepository) FindPremises(ctx context.Context, id uuid.UUID) (*domain.Premises, error) {
	execer := database.ExecutorFromContext(ctx, r.conn)

	query := `
		SELECT id, name, ap_code, area_name, latitude, longitude, created_at, updated_at
		FROM premises
		WHERE id = $1
	`
	premises, err := r.scanPremises(execer.QueryRow(ctx, query, id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, shared.NewNotFoundError("premises not found: " + id.String())
		}
		return nil, err
	}

	chars, err := r.premisesCharacteristics(ctx, execer, id)
	if err != nil {
		return nil, err
	}
	return rehydrateWithCharacteristics(premises, chars), nil
}

// AllPremises loads the full premises catalog.
func (r *SQLRepository) AllPremises(ctx context.Context) ([]*domain.Premises, error) {
	execer := database.ExecutorFromContext(ctx, r.conn)

	rows, err := execer.Query(ctx, `
		SELECT id, name, ap_code, area_name, latitude, longitude, created_at, updated_at
		FROM premises
		ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Premises
	for rows.Next() {
		p, err := r.scanPremises(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, p := range out {
		chars, err := r.premisesCharacteristics(ctx, execer, p.ID())
		if err != nil {
			return nil, err
		}
		out[i] = rehydrateWithCharacteristics(p, chars)
	}
	return out, nil
}

// BedsOf returns every bed in the premises.
func (r *SQLRepository) BedsOf(ctx context.Context, premisesID uuid.UUID) ([]*domain.Bed, error) {
	execer := database.ExecutorFromContext(ctx, r.conn)

	rows, err := execer.Query(ctx, `
		SELECT b.id, b.room_id, b.name, b.end_date
		FROM beds b
		JOIN rooms r ON r.id = b.room_id
		WHERE r.premises_id = $1
		ORDER BY b.name, b.id
	`, premisesID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var beds []*domain.Bed
	for rows.Next() {
		var (
			idStr, roomStr, name string
			endDate              sql.NullString
		)
		if err := rows.Scan(&idStr, &roomStr, &name, &endDate); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, err
		}
		roomID, err := uuid.Parse(roomStr)
		if err != nil {
			return nil, err
		}
		var end *shared.Date
		if endDate.Valid {
			d, err := shared.ParseDate(endDate.String)
			if err != nil {
				return nil, err
			}
			end = &d
		}
		beds = append(beds, domain.RehydrateBed(id, roomID, name, end, nil))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, bed := range beds {
		chars, err := r.bedOwnCharacteristics(ctx, execer, bed.ID())
		if err != nil {
			return nil, err
		}
		beds[i] = domain.RehydrateBed(bed.ID(), bed.RoomID(), bed.Name(), bed.EndDate(), chars)
	}
	return beds, nil
}

// CharacteristicsOf returns the union of the bed's own characteristics and
// its premises' characteristics.
func (r *SQLRepository) CharacteristicsOf(ctx context.Context, bedID uuid.UUID) ([]uuid.UUID, error) {
	execer := database.ExecutorFromContext(ctx, r.conn)

	rows, err := execer.Query(ctx, `
		SELECT bc.characteristic_id FROM bed_characteristics bc WHERE bc.bed_id = $1
		UNION
		SELECT pc.characteristic_id
		FROM premises_characteristics pc
		JOIN rooms rm ON rm.premises_id = pc.premises_id
		JOIN beds b ON b.room_id = rm.id
		WHERE b.id = $2
	`, bedID.String(), bedID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUUIDColumn(rows)
}

func (r *SQLRepository) scanPremises(row database.Row) (*domain.Premises, error) {
	var (
		idStr, name, apCode, areaName string
		lat, lon                      float64
		createdAt, updatedAt          string
	)
	if err := row.Scan(&idStr, &name, &apCode, &areaName, &lat, &lon, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	created, err := database.ParseTime(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := database.ParseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	entity := shared.RehydrateBaseEntity(id, created, updated)
	return domain.RehydratePremises(entity, name, apCode, areaName, lat, lon, nil), nil
}

func (r *SQLRepository) premisesCharacteristics(ctx context.Context, execer database.Executor, premisesID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := execer.Query(ctx,
		`SELECT characteristic_id FROM premises_characteristics WHERE premises_id = $1`,
		premisesID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUUIDColumn(rows)
}

func (r *SQLRepository) bedOwnCharacteristics(ctx context.Context, execer database.Executor, bedID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := execer.Query(ctx,
		`SELECT characteristic_id FROM bed_characteristics WHERE bed_id = $1`,
		bedID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUUIDColumn(rows)
}

func rehydrateWithCharacteristics(p *domain.Premises, chars []uuid.UUID) *domain.Premises {
	entity := shared.RehydrateBaseEntity(p.ID(), p.CreatedAt(), p.UpdatedAt())
	return domain.RehydratePremises(entity, p.Name(), p.APCode(), p.AreaName(), p.Latitude(), p.Longitude(), chars)
}

func scanUUIDColumn(rows database.Rows) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

package facility

import (
	"context"
	"database/sql"
)

// Repository queries facility records by an approximate coordinate bounding
// box and optional keyword filter. Exact distance ranking happens in the
// service layer.
type Repository interface {
	Within(ctx context.Context, minLat, maxLat, minLng, maxLng float64, keyword string) ([]Facility, error)
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) Within(ctx context.Context, minLat, maxLat, minLng, maxLng float64, keyword string) ([]Facility, error) {
	query := `
		SELECT id, name, category, address, COALESCE(phone, ''), latitude, longitude
		FROM facilities
		WHERE latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
	`
	args := []any{minLat, maxLat, minLng, maxLng}
	if keyword != "" {
		query += ` AND (name ILIKE $5 OR category ILIKE $5)`
		args = append(args, "%"+keyword+"%")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Facility
	for rows.Next() {
		var f Facility
		if err := rows.Scan(&f.ID, &f.Name, &f.Category, &f.Address, &f.Phone, &f.Lat, &f.Lng); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

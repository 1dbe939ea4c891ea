package directory

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

// Repository reads the doctor directory from Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListActiveDoctors returns every active, unflagged doctor ordered by id.
// The stable ordering matters: the matching engine breaks scoring ties by
// directory position.
func (r *Repository) ListActiveDoctors(ctx context.Context) ([]Doctor, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, city, state, country, consultation_fee, bio, profile_picture,
		       specializations, insurance_accepted, account_status, admin_flagged
		FROM doctors
		WHERE account_status = 'ACTIVE' AND admin_flagged = false
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.City, &d.State, &d.Country,
			&d.ConsultationFee, &d.Bio, &d.ProfilePicture,
			pq.Array(&d.Specializations), pq.Array(&d.InsuranceAccepted),
			&d.AccountStatus, &d.AdminFlagged); err != nil {
			return nil, err
		}
		if d.Specializations == nil {
			d.Specializations = []string{}
		}
		if d.InsuranceAccepted == nil {
			d.InsuranceAccepted = []string{}
		}
		out = append(out, d)
	}
	if out == nil {
		out = []Doctor{}
	}
	return out, rows.Err()
}

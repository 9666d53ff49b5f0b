package repositories

import (
	"context"
	"database/sql"

	intconfig "backoffice/internal/config"
	intdb "backoffice/internal/db"
	"backoffice/internal/domain/models"
)

const commissionsTable = "airline_commissions"

const commissionColumns = `
	c.id, c.agency_uid,
	COALESCE(c.airline_name,'') AS airline_name,
	c.airline_iata,
	COALESCE(c.commission_type,'PERCENTAGE') AS commission_type,
	COALESCE(c.value,0) AS value,
	COALESCE(c.class_type,'') AS class_type,
	COALESCE(c.origin,'') AS origin,
	COALESCE(c.destination,'') AS destination,
	COALESCE(c.status,'ACTIVE') AS status,
	COALESCE(DATE_FORMAT(c.updated_at, '%Y-%m-%d %H:%i:%s'),'') AS updated_at`

type CommissionRepository struct {
	DB *sql.DB
}

func (r CommissionRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r CommissionRepository) ListByAgency(ctx context.Context, agencyUID string) ([]models.AirlineCommission, error) {
	out := []models.AirlineCommission{}
	err := intdb.X(r.db()).SelectContext(ctx, &out,
		"SELECT "+commissionColumns+" FROM "+commissionsTable+" c WHERE c.agency_uid = ? ORDER BY c.airline_name ASC, c.updated_at ASC", agencyUID)
	if intdb.IsMissingTable(err) {
		return []models.AirlineCommission{}, nil
	}
	return out, err
}

// ActiveByAirline lists ACTIVE rules for an airline in update order.
func (r CommissionRepository) ActiveByAirline(ctx context.Context, iata string) ([]models.AirlineCommission, error) {
	out := []models.AirlineCommission{}
	err := intdb.X(r.db()).SelectContext(ctx, &out,
		"SELECT "+commissionColumns+" FROM "+commissionsTable+" c WHERE c.airline_iata = ? AND c.status = 'ACTIVE' ORDER BY c.updated_at ASC, c.id ASC", iata)
	if intdb.IsMissingTable(err) {
		return []models.AirlineCommission{}, nil
	}
	return out, err
}

// AgenciesForAirline joins ACTIVE rules with their agencies.
func (r CommissionRepository) AgenciesForAirline(ctx context.Context, iata string) ([]models.AirlineAgency, error) {
	iataSel := "''"
	if intdb.HasColumn(r.db(), "agencies", "iata_code") {
		iataSel = "COALESCE(a.iata_code,'')"
	}
	out := []models.AirlineAgency{}
	err := intdb.X(r.db()).SelectContext(ctx, &out, `
		SELECT a.uid AS agency_uid,
			COALESCE(a.agency_name,'') AS agency_name,
			`+iataSel+` AS iata_code,
			COALESCE(c.value,0) AS commission_rate,
			COALESCE(c.commission_type,'PERCENTAGE') AS commission_type
		FROM `+commissionsTable+` c
		JOIN agencies a ON a.uid = c.agency_uid
		WHERE c.airline_iata = ? AND c.status = 'ACTIVE'`, iata)
	if intdb.IsMissingTable(err) {
		return []models.AirlineAgency{}, nil
	}
	return out, err
}

func (r CommissionRepository) Get(ctx context.Context, agencyUID, id string) (models.AirlineCommission, error) {
	var c models.AirlineCommission
	err := intdb.X(r.db()).GetContext(ctx, &c,
		"SELECT "+commissionColumns+" FROM "+commissionsTable+" c WHERE c.id = ? AND c.agency_uid = ?", id, agencyUID)
	return c, err
}

func (r CommissionRepository) Insert(ctx context.Context, c models.AirlineCommission) error {
	_, err := intdb.X(r.db()).NamedExecContext(ctx, `
		INSERT INTO `+commissionsTable+`
			(id, agency_uid, airline_name, airline_iata, commission_type, value, class_type, origin, destination, status)
		VALUES
			(:id, :agency_uid, :airline_name, :airline_iata, :commission_type, :value,
			 NULLIF(:class_type,''), NULLIF(:origin,''), NULLIF(:destination,''), :status)`, c)
	return err
}

func (r CommissionRepository) Update(ctx context.Context, c models.AirlineCommission) (int64, error) {
	res, err := intdb.X(r.db()).NamedExecContext(ctx, `
		UPDATE `+commissionsTable+` SET
			airline_name = :airline_name,
			airline_iata = :airline_iata,
			commission_type = :commission_type,
			value = :value,
			class_type = NULLIF(:class_type,''),
			origin = NULLIF(:origin,''),
			destination = NULLIF(:destination,''),
			status = :status,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = :id AND agency_uid = :agency_uid`, c)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r CommissionRepository) Delete(ctx context.Context, agencyUID, id string) (int64, error) {
	res, err := r.db().ExecContext(ctx, "DELETE FROM "+commissionsTable+" WHERE id = ? AND agency_uid = ?", id, agencyUID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

package services

import (
	"context"
	"database/sql"
	"fmt"

	intdb "horizontravels/internal/db"
	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"
	"horizontravels/internal/repositories"
	"horizontravels/internal/utils"
)

// CatalogService manages the reference tables: locations, travel types,
// price categories and seat capacities.
type CatalogService struct {
	DB        *sql.DB
	RequestID string
}

func (s CatalogService) Home(ctx context.Context) (models.HomeData, error) {
	names, err := repositories.LocationRepository{DB: s.DB}.Names(ctx)
	if err != nil {
		return models.HomeData{}, err
	}
	types, err := repositories.TravelTypeRepository{DB: s.DB}.Names(ctx)
	if err != nil {
		return models.HomeData{}, err
	}
	return models.HomeData{DepartureLocations: names, ArrivalLocations: names, TravelTypes: types}, nil
}

// Locations

func (s CatalogService) ListLocations(ctx context.Context, p domain.Pagination) (domain.Page[models.Location], error) {
	items, total, err := repositories.LocationRepository{DB: s.DB}.List(ctx, p)
	if err != nil {
		return domain.Page[models.Location]{}, err
	}
	return domain.NewPage(items, p, total), nil
}

func (s CatalogService) GetLocation(ctx context.Context, id int64) (models.Location, error) {
	return repositories.LocationRepository{DB: s.DB}.GetByID(ctx, id)
}

func (s CatalogService) CreateLocation(ctx context.Context, in models.LocationInput) (models.Location, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	if err := validateInput(in); err != nil {
		return models.Location{}, err
	}
	var out models.Location
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.LocationRepository{DB: tx}
		id, err := repo.Create(ctx, in)
		if err != nil {
			return err
		}
		out, err = repo.GetByID(ctx, id)
		return err
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "catalog", "create_location", fmt.Sprintf("location_id=%d", out.ID))
	}
	return out, err
}

func (s CatalogService) UpdateLocation(ctx context.Context, id int64, p models.LocationPatch) (models.Location, error) {
	if p.Name != nil {
		n := utils.NormalizeSpace(*p.Name)
		if n == "" {
			return models.Location{}, domain.ValidationError{Field: "name", Msg: "is required"}
		}
		p.Name = &n
	}
	if err := validateInput(p); err != nil {
		return models.Location{}, err
	}
	var out models.Location
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.LocationRepository{DB: tx}
		if _, err := repo.GetByID(ctx, id); err != nil {
			return err
		}
		if err := repo.Update(ctx, id, p); err != nil {
			return err
		}
		var err error
		out, err = repo.GetByID(ctx, id)
		return err
	})
	return out, err
}

func (s CatalogService) DeleteLocation(ctx context.Context, id int64) error {
	return intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		return repositories.LocationRepository{DB: tx}.SoftDelete(ctx, id)
	})
}

// Travel types

func (s CatalogService) ListTravelTypes(ctx context.Context, p domain.Pagination) (domain.Page[models.TravelType], error) {
	items, total, err := repositories.TravelTypeRepository{DB: s.DB}.List(ctx, p)
	if err != nil {
		return domain.Page[models.TravelType]{}, err
	}
	return domain.NewPage(items, p, total), nil
}

func (s CatalogService) GetTravelType(ctx context.Context, id int64) (models.TravelType, error) {
	return repositories.TravelTypeRepository{DB: s.DB}.GetByID(ctx, id)
}

func (s CatalogService) CreateTravelType(ctx context.Context, in models.NameInput) (models.TravelType, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	if err := validateInput(in); err != nil {
		return models.TravelType{}, err
	}
	var out models.TravelType
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.TravelTypeRepository{DB: tx}
		id, err := repo.Create(ctx, in.Name)
		if err != nil {
			return err
		}
		out, err = repo.GetByID(ctx, id)
		return err
	})
	return out, err
}

func (s CatalogService) RenameTravelType(ctx context.Context, id int64, in models.NameInput) (models.TravelType, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	if err := validateInput(in); err != nil {
		return models.TravelType{}, err
	}
	var out models.TravelType
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.TravelTypeRepository{DB: tx}
		if _, err := repo.GetByID(ctx, id); err != nil {
			return err
		}
		if err := repo.Rename(ctx, id, in.Name); err != nil {
			return err
		}
		var err error
		out, err = repo.GetByID(ctx, id)
		return err
	})
	return out, err
}

func (s CatalogService) DeleteTravelType(ctx context.Context, id int64) error {
	return intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		return repositories.TravelTypeRepository{DB: tx}.SoftDelete(ctx, id)
	})
}

// Price categories

func (s CatalogService) ListPriceCategories(ctx context.Context, p domain.Pagination) (domain.Page[models.PriceCategory], error) {
	items, total, err := repositories.PriceCategoryRepository{DB: s.DB}.List(ctx, p)
	if err != nil {
		return domain.Page[models.PriceCategory]{}, err
	}
	return domain.NewPage(items, p, total), nil
}

func (s CatalogService) GetPriceCategory(ctx context.Context, id int64) (models.PriceCategory, error) {
	return repositories.PriceCategoryRepository{DB: s.DB}.GetByID(ctx, id)
}

func (s CatalogService) CreatePriceCategory(ctx context.Context, in models.NameInput) (models.PriceCategory, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	if err := validateInput(in); err != nil {
		return models.PriceCategory{}, err
	}
	var out models.PriceCategory
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.PriceCategoryRepository{DB: tx}
		id, err := repo.Create(ctx, in.Name)
		if err != nil {
			return err
		}
		out, err = repo.GetByID(ctx, id)
		return err
	})
	return out, err
}

func (s CatalogService) RenamePriceCategory(ctx context.Context, id int64, in models.NameInput) (models.PriceCategory, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	if err := validateInput(in); err != nil {
		return models.PriceCategory{}, err
	}
	var out models.PriceCategory
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.PriceCategoryRepository{DB: tx}
		if _, err := repo.GetByID(ctx, id); err != nil {
			return err
		}
		if err := repo.Rename(ctx, id, in.Name); err != nil {
			return err
		}
		var err error
		out, err = repo.GetByID(ctx, id)
		return err
	})
	return out, err
}

func (s CatalogService) DeletePriceCategory(ctx context.Context, id int64) error {
	return intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		return repositories.PriceCategoryRepository{DB: tx}.SoftDelete(ctx, id)
	})
}

// Seat capacity

func (s CatalogService) ListMaxSeats(ctx context.Context, p domain.Pagination) (domain.Page[models.MaxSeat], error) {
	items, total, err := repositories.MaxSeatRepository{DB: s.DB}.List(ctx, p)
	if err != nil {
		return domain.Page[models.MaxSeat]{}, err
	}
	return domain.NewPage(items, p, total), nil
}

func (s CatalogService) GetMaxSeat(ctx context.Context, id int64) (models.MaxSeat, error) {
	return repositories.MaxSeatRepository{DB: s.DB}.GetByID(ctx, id)
}

func (s CatalogService) CreateMaxSeat(ctx context.Context, in models.MaxSeatInput) (models.MaxSeat, error) {
	if err := validateInput(in); err != nil {
		return models.MaxSeat{}, err
	}
	var out models.MaxSeat
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := (repositories.TravelTypeRepository{DB: tx}).GetByID(ctx, in.TravelTypeID); err != nil {
			return err
		}
		repo := repositories.MaxSeatRepository{DB: tx}
		id, err := repo.Create(ctx, in)
		if err != nil {
			return err
		}
		out, err = repo.GetByID(ctx, id)
		return err
	})
	return out, err
}

func (s CatalogService) UpdateMaxSeat(ctx context.Context, id int64, p models.MaxSeatPatch) (models.MaxSeat, error) {
	if err := validateInput(p); err != nil {
		return models.MaxSeat{}, err
	}
	var out models.MaxSeat
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.MaxSeatRepository{DB: tx}
		if _, err := repo.GetByID(ctx, id); err != nil {
			return err
		}
		if err := repo.Update(ctx, id, p); err != nil {
			return err
		}
		var err error
		out, err = repo.GetByID(ctx, id)
		return err
	})
	return out, err
}

func (s CatalogService) DeleteMaxSeat(ctx context.Context, id int64) error {
	return intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		return repositories.MaxSeatRepository{DB: tx}.SoftDelete(ctx, id)
	})
}

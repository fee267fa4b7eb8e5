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

// BookingService owns the booking ledger: purchase at the discounted fare,
// cancellation with a time-based refund, and admin maintenance.
type BookingService struct {
	DB        *sql.DB
	Now       utils.Clock
	RequestID string
}

// Create books a travel detail at the current discounted price of the chosen
// category, or of its cheapest fare when no category is given.
func (s BookingService) Create(ctx context.Context, in models.CreateBookingInput) (models.Booking, error) {
	if err := validateInput(in); err != nil {
		return models.Booking{}, err
	}
	var out models.Booking
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		fares, err := repositories.FareRepository{DB: tx}.ForTravelDetail(ctx, in.TravelDetailID, in.PriceCategoryID)
		if err != nil {
			return err
		}
		if len(fares) == 0 {
			if _, err := (repositories.TravelDetailRepository{DB: tx}).GetByID(ctx, in.TravelDetailID); err != nil {
				return err
			}
			return domain.NoFareError{TravelDetailIDs: []int64{in.TravelDetailID}}
		}
		sortFares(fares)
		out, err = s.book(ctx, tx, in.UserID, fares[0])
		return err
	})
	return out, err
}

// CreateByRoute books the cheapest fare of a named route, optionally limited
// to one price category by name.
func (s BookingService) CreateByRoute(ctx context.Context, in models.RouteBookingInput) (models.Booking, error) {
	var out models.Booking
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		fares, err := routeFares(ctx, tx, in.RouteQuery)
		if err != nil {
			return err
		}
		if class := utils.NameKey(in.ClassType); class != "" {
			filtered := fares[:0:0]
			for _, f := range fares {
				if utils.NameKey(f.ClassType) == class {
					filtered = append(filtered, f)
				}
			}
			if len(filtered) == 0 {
				return domain.NoFareError{}
			}
			fares = filtered
		}
		out, err = s.book(ctx, tx, in.UserID, fares[0])
		return err
	})
	return out, err
}

func (s BookingService) book(ctx context.Context, tx *sql.Tx, userID *int64, fare models.FareRow) (models.Booking, error) {
	now := s.Now.Now()
	category := fare.PriceCategoryID
	repo := repositories.BookingRepository{DB: tx}
	id, err := repo.Create(ctx, models.Booking{
		Base:            models.Base{CreatedAt: now},
		UserID:          userID,
		TravelDetailID:  fare.TravelDetailID,
		PriceCategoryID: &category,
		Cost:            utils.DiscountedCost(fare.Cost, fare.ArrivalTime, now),
		Status:          models.BookingStatusSuccess,
	})
	if err != nil {
		return models.Booking{}, err
	}
	b, err := repo.GetByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if err := s.flagCapacity(ctx, tx, fare.TravelDetailID); err != nil {
		return models.Booking{}, err
	}
	bookingsCreated.WithLabelValues(fare.TravelType).Inc()
	utils.LogEvent(s.RequestID, "booking", "create", fmt.Sprintf("booking_id=%d travel_detail_id=%d cost=%s", b.ID, b.TravelDetailID, utils.FormatMoney(b.Cost)))
	return b, nil
}

// flagCapacity logs when a journey reaches its travel type's seat count.
// Capacity is reported, not enforced.
func (s BookingService) flagCapacity(ctx context.Context, tx *sql.Tx, travelDetailID int64) error {
	detail, err := repositories.TravelDetailRepository{DB: tx}.GetByID(ctx, travelDetailID)
	if err != nil {
		return err
	}
	seats, err := repositories.MaxSeatRepository{DB: tx}.SeatsForTravelType(ctx, detail.TravelTypeID)
	if err != nil || seats <= 0 {
		return err
	}
	active, err := repositories.BookingRepository{DB: tx}.CountActiveByTravelDetail(ctx, travelDetailID)
	if err != nil {
		return err
	}
	if active >= seats {
		utils.LogWarn(s.RequestID, "booking", "capacity", fmt.Sprintf("travel_detail_id=%d active=%d max_seats=%d", travelDetailID, active, seats))
	}
	return nil
}

// authorize lets admins reach any booking and users only their own.
func authorize(b models.Booking, rc domain.RequestContext) error {
	if rc.IsAdmin {
		return nil
	}
	if b.UserID == nil || *b.UserID != rc.UserID {
		return domain.ForbiddenError{Msg: "booking belongs to another user"}
	}
	return nil
}

// Cancel moves a successful booking to cancelled and records the refund.
// Cancelling twice is a conflict; the first refund stands.
func (s BookingService) Cancel(ctx context.Context, id int64, rc domain.RequestContext) (models.Booking, error) {
	if err := requireID("id", id); err != nil {
		return models.Booking{}, err
	}
	var out models.Booking
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.BookingRepository{DB: tx}
		b, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(b, rc); err != nil {
			return err
		}
		if b.Status == models.BookingStatusCancelled {
			return domain.ConflictError{Resource: "booking", Code: "already_cancelled", Msg: fmt.Sprintf("booking %d is already cancelled", id)}
		}
		refund := utils.RefundAmount(b.Cost, b.CreatedAt, s.Now.Now())
		ok, err := repo.Cancel(ctx, id, refund)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ConflictError{Resource: "booking", Code: "already_cancelled", Msg: fmt.Sprintf("booking %d is already cancelled", id)}
		}
		out, err = repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		bookingsCancelled.Inc()
		refundsIssued.Add(refund)
		utils.LogEvent(s.RequestID, "booking", "cancel", fmt.Sprintf("booking_id=%d refund=%s", id, utils.FormatMoney(refund)))
		return nil
	})
	return out, err
}

func (s BookingService) Get(ctx context.Context, id int64, rc domain.RequestContext) (models.Booking, error) {
	b, err := repositories.BookingRepository{DB: s.DB}.GetByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if err := authorize(b, rc); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

func (s BookingService) List(ctx context.Context, p domain.Pagination) (domain.Page[models.Booking], error) {
	items, total, err := repositories.BookingRepository{DB: s.DB}.List(ctx, p)
	if err != nil {
		return domain.Page[models.Booking]{}, err
	}
	return domain.NewPage(items, p, total), nil
}

// Patch is the admin correction path. Status may only move from success to
// cancelled; the refund is computed when not given explicitly.
func (s BookingService) Patch(ctx context.Context, id int64, p models.BookingPatch) (models.Booking, error) {
	if err := validateInput(p); err != nil {
		return models.Booking{}, err
	}
	if p.Empty() {
		return models.Booking{}, domain.ValidationError{Msg: "no fields to update"}
	}
	if p.Cost != nil {
		c := utils.RoundMoney(*p.Cost)
		p.Cost = &c
	}
	var out models.Booking
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.BookingRepository{DB: tx}
		cur, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.TravelDetailID != nil {
			if _, err := (repositories.TravelDetailRepository{DB: tx}).GetByID(ctx, *p.TravelDetailID); err != nil {
				return err
			}
		}
		if p.Status != nil && *p.Status != cur.Status {
			if cur.Status != models.BookingStatusSuccess {
				return domain.ConflictError{Resource: "booking", Code: "invalid_transition", Msg: fmt.Sprintf("cannot move booking from %s to %s", cur.Status, *p.Status)}
			}
			if p.RefundAmount == nil {
				cost := cur.Cost
				if p.Cost != nil {
					cost = *p.Cost
				}
				refund := utils.RefundAmount(cost, cur.CreatedAt, s.Now.Now())
				p.RefundAmount = &refund
			}
		}
		if err := repo.Update(ctx, id, p); err != nil {
			return err
		}
		out, err = repo.GetByID(ctx, id)
		return err
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "booking", "patch", fmt.Sprintf("booking_id=%d", id))
	}
	return out, err
}

func (s BookingService) Delete(ctx context.Context, id int64) error {
	return intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		return repositories.BookingRepository{DB: tx}.SoftDelete(ctx, id)
	})
}

// View loads the joined booking for receipts, subject to ownership.
func (s BookingService) View(ctx context.Context, id int64, rc domain.RequestContext) (models.BookingView, error) {
	v, err := repositories.BookingRepository{DB: s.DB}.GetView(ctx, id)
	if err != nil {
		return models.BookingView{}, err
	}
	if err := authorize(models.Booking{UserID: v.UserID}, rc); err != nil {
		return models.BookingView{}, err
	}
	return v, nil
}

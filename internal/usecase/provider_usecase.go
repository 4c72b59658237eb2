package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-hospital-directory/internal/converter"
	"go-hospital-directory/internal/delivery/dto"
	"go-hospital-directory/internal/delivery/http/middleware"
	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/internal/domain/repository"
	"go-hospital-directory/internal/service"
	"go-hospital-directory/pkg/geo"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrRatingExists = errors.New("you have already rated this provider")
)

type ProviderUsecase interface {
	ListProviders(ctx context.Context, req *dto.ListProvidersRequest) ([]dto.RankedProviderResponse, error)
	TopHospitals(ctx context.Context, latitude, longitude string) ([]dto.RankedProviderResponse, error)
	ListDoctors(ctx context.Context, req *dto.ListDoctorsRequest) ([]dto.RankedProviderResponse, error)
	GetProvider(ctx context.Context, id uuid.UUID) (*dto.ProviderDetailResponse, error)
	GetTimings(ctx context.Context, id uuid.UUID) (*dto.TimingsResponse, error)
	UpdateTimings(ctx context.Context, id uuid.UUID, timings entity.WeekTimings) (*dto.TimingsResponse, error)
	UpdateLocation(ctx context.Context, req *dto.UpdateLocationRequest) (*dto.LocationResponse, error)
	SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*dto.ProviderResponse, error)
	AddRating(ctx context.Context, id uuid.UUID, req *dto.RatingRequest) (*entity.RatingSummary, error)
}

type providerUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	providerRepo repository.ProviderRepository
	ratingRepo   repository.RatingRepository
	auditService service.AuditService
	cache        service.DirectoryCache
	publisher    service.EventPublisher
	queryTimeout time.Duration
	now          func() time.Time
}

func NewProviderUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	providerRepo repository.ProviderRepository,
	ratingRepo repository.RatingRepository,
	auditService service.AuditService,
	cache service.DirectoryCache,
	publisher service.EventPublisher,
	queryTimeout time.Duration,
) ProviderUsecase {
	return &providerUsecase{
		db:           db,
		log:          log,
		providerRepo: providerRepo,
		ratingRepo:   ratingRepo,
		auditService: auditService,
		cache:        cache,
		publisher:    publisher,
		queryTimeout: queryTimeout,
		now:          time.Now,
	}
}

// ListProviders ranks by live child count then distance. Without a
// requester coordinate the distance is unknown and sorts last.
func (u *providerUsecase) ListProviders(ctx context.Context, req *dto.ListProvidersRequest) ([]dto.RankedProviderResponse, error) {
	origin, err := geo.ParseOptional(req.Latitude, req.Longitude)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}

	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	rows, err := u.providerRepo.FindRanked(u.db.WithContext(ctx), entity.ProviderQuery{
		Mode:      entity.QueryModeBrowse,
		Origin:    origin,
		Emergency: req.Emergency,
		Role:      entity.ProviderRole(req.Role),
		Approved:  req.Approved,
		Search:    req.Search,
		Severity:  entity.Severity(req.Severity),
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
	if err != nil {
		u.log.Warnf("Failed to list providers: %+v", err)
		return nil, err
	}

	return converter.RankedProvidersToResponses(rows), nil
}

// TopHospitals serves the eight best root hospitals around the requester.
// Candidates are fetched and cached per rounded origin bucket; distances and
// the final order are always computed from the exact requester.
func (u *providerUsecase) TopHospitals(ctx context.Context, latitude, longitude string) ([]dto.RankedProviderResponse, error) {
	coord, err := geo.Parse(latitude, longitude)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}
	origin := entity.TopCacheOrigin(coord)

	candidates, generation, ok := u.cache.GetTopHospitals(ctx, origin)
	if !ok {
		queryCtx, cancel := withQueryTimeout(ctx, u.queryTimeout)
		defer cancel()

		candidates, err = u.providerRepo.FindRanked(u.db.WithContext(queryCtx), entity.ProviderQuery{
			Mode:   entity.QueryModeTop,
			Origin: &origin,
		})
		if err != nil {
			u.log.Warnf("Failed to find top hospitals: %+v", err)
			return nil, err
		}
		u.cache.SetTopHospitals(ctx, origin, generation, candidates)
	}

	rows := entity.RerankFrom(candidates, coord, entity.TopProvidersLimit)
	return converter.RankedProvidersToResponses(rows), nil
}

func (u *providerUsecase) ListDoctors(ctx context.Context, req *dto.ListDoctorsRequest) ([]dto.RankedProviderResponse, error) {
	origin, err := geo.ParseOptional(req.Latitude, req.Longitude)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}

	approved := true
	query := entity.ProviderQuery{
		Mode:     entity.QueryModeBrowse,
		Origin:   origin,
		Role:     entity.ProviderRoleDoctor,
		Approved: &approved,
		ParentID: req.Hospital,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}
	if req.Instant {
		from := truncateDay(u.now())
		to := from.AddDate(0, 0, entity.InstantWindowDays)
		query.Mode = entity.QueryModeInstant
		query.FreeSlotFrom = &from
		query.FreeSlotTo = &to
	}

	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	rows, err := u.providerRepo.FindRanked(u.db.WithContext(ctx), query)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	return converter.RankedProvidersToResponses(rows), nil
}

// GetProvider returns the provider detail. A doctor whose free slot has
// lapsed is moved to tomorrow before the row is returned.
func (u *providerUsecase) GetProvider(ctx context.Context, id uuid.UUID) (*dto.ProviderDetailResponse, error) {
	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()
	db := u.db.WithContext(ctx)

	provider, err := u.providerRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", id, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}

	today := truncateDay(u.now())
	if provider.IsDoctor() && provider.FreeSlotLapsed(today) {
		tomorrow := today.AddDate(0, 0, 1)
		advanced, err := u.providerRepo.AdvanceFreeSlot(db, id, today, tomorrow)
		if err != nil {
			u.log.Warnf("Failed to advance free slot for doctor %s: %+v", id, err)
			return nil, err
		}
		// zero rows: a concurrent read already advanced it to the same day
		if advanced > 0 {
			u.log.Infof("Advanced free slot of doctor %s from %s to %s",
				id, provider.FreeSlotDate.Format(time.DateOnly), tomorrow.Format(time.DateOnly))
		}
		provider.FreeSlotDate = &tomorrow
	}

	liveDoctors, err := u.providerRepo.CountChildren(db, id)
	if err != nil {
		u.log.Warnf("Failed to count doctors of provider %s: %+v", id, err)
		return nil, err
	}

	rating, err := u.ratingRepo.SummaryByProvider(db, id)
	if err != nil {
		u.log.Warnf("Failed to summarise ratings of provider %s: %+v", id, err)
		return nil, err
	}

	return converter.ProviderToDetailResponse(provider, liveDoctors, rating), nil
}

func (u *providerUsecase) GetTimings(ctx context.Context, id uuid.UUID) (*dto.TimingsResponse, error) {
	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	provider, err := u.providerRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", id, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}
	return converter.TimingsToResponse(provider), nil
}

// UpdateTimings replaces the whole week. Days missing from the map become unset.
func (u *providerUsecase) UpdateTimings(ctx context.Context, id uuid.UUID, timings entity.WeekTimings) (*dto.TimingsResponse, error) {
	if err := timings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimings, err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	provider, err := u.providerRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", id, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}

	if _, err := u.providerRepo.UpdateTimings(tx, id, timings); err != nil {
		u.log.Warnf("Failed to update timings of provider %s: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, middleware.ActorFromContext(ctx), entity.AuditActionProviderTimings,
		"provider", id.String(), provider.Timings, timings); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	provider.Timings = timings
	return converter.TimingsToResponse(provider), nil
}

// UpdateLocation writes the decimal pair and the point in one statement,
// inside the same transaction as the audit entry.
func (u *providerUsecase) UpdateLocation(ctx context.Context, req *dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	coord, err := geo.FromPointers(req.Latitude, req.Longitude)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}
	coord = coord.Stored()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	provider, err := u.providerRepo.FindByID(tx, req.ID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", req.ID, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}
	previous := geo.Coordinate{Latitude: provider.Latitude, Longitude: provider.Longitude}

	affected, err := u.providerRepo.SetLocation(tx, req.ID, coord)
	if err != nil {
		u.log.Warnf("Failed to set location of provider %s: %+v", req.ID, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrProviderNotFound
	}

	if err := u.auditService.LogUpdate(ctx, tx, middleware.ActorFromContext(ctx), entity.AuditActionProviderLocation,
		"provider", req.ID.String(), previous, coord); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	provider.Latitude = coord.Latitude
	provider.Longitude = coord.Longitude

	if provider.IsHospital() {
		invalidateTopHospitals(ctx, u.cache, u.log)
	}
	publishEvents(ctx, u.publisher, u.log, entity.NewProviderEvent(entity.EventProviderRelocated, provider))

	return converter.LocationToResponse(provider, coord), nil
}

func (u *providerUsecase) SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*dto.ProviderResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	provider, err := u.providerRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", id, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}

	if _, err := u.providerRepo.UpdateApproval(tx, id, approved); err != nil {
		u.log.Warnf("Failed to update approval of provider %s: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, middleware.ActorFromContext(ctx), entity.AuditActionProviderApproval,
		"provider", id.String(), provider.Approved, approved); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	provider.Approved = approved
	invalidateTopHospitals(ctx, u.cache, u.log)
	publishEvents(ctx, u.publisher, u.log, entity.NewProviderEvent(entity.EventProviderApproval, provider))

	return converter.ProviderToResponse(provider), nil
}

// AddRating records one rating per patient per provider and returns the new aggregate
func (u *providerUsecase) AddRating(ctx context.Context, id uuid.UUID, req *dto.RatingRequest) (*entity.RatingSummary, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	db := u.db.WithContext(ctx)
	provider, err := u.providerRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", id, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}

	rating := &entity.Rating{
		ProviderID: id,
		PatientID:  patientID,
		Score:      req.Score,
		Comment:    req.Comment,
	}
	if err := u.ratingRepo.Create(db, rating); err != nil {
		if isDuplicateKeyError(err, "ratings_provider_patient") {
			return nil, ErrRatingExists
		}
		if isForeignKeyError(err, "provider") {
			return nil, ErrProviderNotFound
		}
		u.log.Warnf("Failed to create rating for provider %s: %+v", id, err)
		return nil, err
	}

	summary, err := u.ratingRepo.SummaryByProvider(db, id)
	if err != nil {
		u.log.Warnf("Failed to summarise ratings of provider %s: %+v", id, err)
		return nil, err
	}
	return summary, nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const phonesTable = "agent_phones"

var phoneStruct = database.NewStruct(new(models.AgentPhone))

// PhoneRepository handles database operations for provisioned phone numbers
type PhoneRepository struct {
	*Repository
}

// NewPhoneRepository creates a new phone repository
func NewPhoneRepository(db database.DB, logger ectologger.Logger) *PhoneRepository {
	return &PhoneRepository{
		Repository: NewRepository(db, logger),
	}
}

// GetLatestByNumber retrieves the most recently created row for a phone
// number. Older duplicates may exist and are ignored.
func (r *PhoneRepository) GetLatestByNumber(ctx context.Context, phoneNumber string) (*models.AgentPhone, error) {
	ctx, span := tracing.StartSpan(ctx, "PhoneRepository.GetLatestByNumber")
	defer span.End()

	sb := phoneStruct.SelectFrom(phonesTable)
	sb.Where(sb.Equal("phone_number", phoneNumber))
	sb.OrderBy("created_at").Desc()
	sb.Limit(1)

	query, args := sb.Build()
	var phone models.AgentPhone
	err := r.DB().GetContext(ctx, &phone, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "phone %s does not exist", phoneNumber)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"phone_number": phoneNumber,
		}).Error("failed to get phone by number")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get phone by number")
	}

	return &phone, nil
}

// Create creates a new phone row
func (r *PhoneRepository) Create(ctx context.Context, phone *models.AgentPhone) error {
	ctx, span := tracing.StartSpan(ctx, "PhoneRepository.Create")
	defer span.End()

	if phone.ID == uuid.Nil {
		phone.ID = uuid.New()
	}
	if phone.Status == "" {
		phone.Status = "active"
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(phonesTable).
		Cols("id", "phone_number", "provider", "agent_id", "agent_name", "label", "capabilities", "routing", "status", "created_at", "updated_at").
		Values(phone.ID, phone.PhoneNumber, phone.Provider, phone.AgentID, phone.AgentName, phone.Label,
			phone.Capabilities, phone.Routing, phone.Status, sqlbuilder.Raw("NOW()"), sqlbuilder.Raw("NOW()")).
		Returning("created_at", "updated_at")

	query, args := ib.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).Scan(&phone.CreatedAt, &phone.UpdatedAt)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"phone_number": phone.PhoneNumber,
		}).Error("failed to create phone")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create phone")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"phone_id":     phone.ID,
		"phone_number": phone.PhoneNumber,
	}).Debugf("Created %s", phonesTable)
	return nil
}

// Update updates an existing phone row in place
func (r *PhoneRepository) Update(ctx context.Context, phone *models.AgentPhone) error {
	ctx, span := tracing.StartSpan(ctx, "PhoneRepository.Update")
	defer span.End()

	ub := database.NewUpdateBuilder()
	ub.Update(phonesTable).
		Set(
			ub.Assign("provider", phone.Provider),
			ub.Assign("agent_id", phone.AgentID),
			ub.Assign("agent_name", phone.AgentName),
			ub.Assign("label", phone.Label),
			ub.Assign("capabilities", phone.Capabilities),
			ub.Assign("routing", phone.Routing),
			ub.Assign("status", phone.Status),
			ub.Assign("updated_at", sqlbuilder.Raw("NOW()")),
		).
		Where(ub.Equal("id", phone.ID))
	ub.SQL("RETURNING updated_at")

	query, args := ub.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).Scan(&phone.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "phone %s does not exist", phone.ID)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"phone_id": phone.ID,
		}).Error("failed to update phone")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update phone")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"phone_id": phone.ID,
	}).Debugf("Updated %s", phonesTable)
	return nil
}

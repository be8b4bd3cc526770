package cms

import (
	"context"
	"fmt"
	"strings"

	"github.com/getwebfast/site-backend/errs"
	"github.com/getwebfast/site-backend/models"
)

type ServiceInput struct {
	ID              string       `json:"id"`
	Title           *string      `json:"title"`
	Price           *string      `json:"price"`
	Description     *string      `json:"description"`
	Features        *[]string    `json:"features"`
	Time            *string      `json:"time"`
	BestFor         *string      `json:"bestFor"`
	IsPremium       *bool        `json:"isPremium"`
	DiscountPercent *int         `json:"discountPercent"`
	OriginalPrice   *string      `json:"originalPrice"`
	Tags            *[]string    `json:"tags"`
	CouponCode      *string      `json:"couponCode"`
	Icon            *models.Icon `json:"icon"`
}

func validateService(in ServiceInput) error {
	if in.Icon != nil && *in.Icon != "" && !in.Icon.Valid() {
		return errs.NewInvalidFieldError("icon", fmt.Sprintf("unknown icon %q", *in.Icon))
	}
	if in.DiscountPercent != nil && (*in.DiscountPercent < 0 || *in.DiscountPercent > 100) {
		return errs.NewInvalidFieldError("discountPercent", "must be between 0 and 100")
	}
	return nil
}

func (r *Repository) ListServices(ctx context.Context) ([]*models.Service, error) {
	services, err := r.db.ServiceRepo().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

func (r *Repository) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	serviceID, err := lookupID("service", id)
	if err != nil {
		return nil, err
	}
	service, err := r.db.ServiceRepo().FindByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("get service %s: %w", id, err)
	}
	if service == nil {
		return nil, errs.NewNotFound("service")
	}
	return service, nil
}

func (r *Repository) SaveService(ctx context.Context, in ServiceInput) (*models.Service, error) {
	if err := validateService(in); err != nil {
		return nil, err
	}

	if isNew(in.ID) {
		if err := requireText("title", in.Title); err != nil {
			return nil, err
		}
		service := &models.Service{
			Title:           strings.TrimSpace(*in.Title),
			Price:           strings.TrimSpace(deref(in.Price)),
			Description:     deref(in.Description),
			Features:        toJSONSlice(deref(in.Features)),
			Time:            strings.TrimSpace(deref(in.Time)),
			BestFor:         strings.TrimSpace(deref(in.BestFor)),
			IsPremium:       deref(in.IsPremium),
			DiscountPercent: deref(in.DiscountPercent),
			OriginalPrice:   strings.TrimSpace(deref(in.OriginalPrice)),
			Tags:            toJSONSlice(deref(in.Tags)),
			CouponCode:      strings.TrimSpace(deref(in.CouponCode)),
			Icon:            deref(in.Icon),
		}
		if err := r.db.ServiceRepo().Add(ctx, service); err != nil {
			return nil, writeError("create", "service", err)
		}
		r.logger.Info().Str("id", service.ID.String()).Msg("Created service")
		return r.GetServiceByID(ctx, service.ID.String())
	}

	id, err := updateID(in.ID)
	if err != nil {
		return nil, err
	}
	f := fields{}
	if in.Title != nil {
		if err := requireText("title", in.Title); err != nil {
			return nil, err
		}
		f["title"] = strings.TrimSpace(*in.Title)
	}
	f.trimmed("price", in.Price)
	f.str("description", in.Description)
	f.list("features", in.Features)
	f.trimmed("delivery_time", in.Time)
	f.trimmed("best_for", in.BestFor)
	if in.IsPremium != nil {
		f["is_premium"] = *in.IsPremium
	}
	if in.DiscountPercent != nil {
		f["discount_percent"] = *in.DiscountPercent
	}
	f.trimmed("original_price", in.OriginalPrice)
	f.list("tags", in.Tags)
	f.trimmed("coupon_code", in.CouponCode)
	if in.Icon != nil {
		icon := *in.Icon
		if icon == "" {
			icon = models.DefaultServiceIcon
		}
		f["icon"] = icon
	}

	if err := r.db.ServiceRepo().UpdateFields(ctx, id, f); err != nil {
		return nil, writeError("update", "service", err)
	}
	return r.GetServiceByID(ctx, id.String())
}

func (r *Repository) DeleteService(ctx context.Context, id string) error {
	serviceID, err := lookupID("service", id)
	if err != nil {
		return err
	}
	if err := r.db.ServiceRepo().Delete(ctx, serviceID); err != nil {
		return writeError("delete", "service", err)
	}
	return nil
}

package cms

import (
	"context"
	"fmt"
	"strings"

	"github.com/getwebfast/site-backend/errs"
	"github.com/getwebfast/site-backend/models"
)

// DefaultBannerSpeed is the scroll duration, in seconds, of a new banner.
const DefaultBannerSpeed = 20

type BannerInput struct {
	ID         string                  `json:"id"`
	Text       *string                 `json:"text"`
	Direction  *models.BannerDirection `json:"direction"`
	Speed      *int                    `json:"speed"`
	IsActive   *bool                   `json:"is_active"`
	OrderIndex *int                    `json:"order_index"`
}

func validateBanner(in BannerInput) error {
	if in.Direction != nil && !in.Direction.Valid() {
		return errs.NewInvalidFieldError("direction", "must be left or right")
	}
	if in.Speed != nil && *in.Speed <= 0 {
		return errs.NewInvalidFieldError("speed", "must be positive")
	}
	return nil
}

// ListBanners returns the active banner lines in display order.
func (r *Repository) ListBanners(ctx context.Context) ([]*models.Banner, error) {
	banners, err := r.db.BannerRepo().FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	return banners, nil
}

// ListAllBanners includes inactive lines, for the admin panel.
func (r *Repository) ListAllBanners(ctx context.Context) ([]*models.Banner, error) {
	banners, err := r.db.BannerRepo().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all banners: %w", err)
	}
	return banners, nil
}

func (r *Repository) GetBannerByID(ctx context.Context, id string) (*models.Banner, error) {
	bannerID, err := lookupID("banner", id)
	if err != nil {
		return nil, err
	}
	banner, err := r.db.BannerRepo().FindByID(ctx, bannerID)
	if err != nil {
		return nil, fmt.Errorf("get banner %s: %w", id, err)
	}
	if banner == nil {
		return nil, errs.NewNotFound("banner")
	}
	return banner, nil
}

// SaveBanner inserts or patches a banner line. New lines are active and
// scroll left at DefaultBannerSpeed unless told otherwise.
func (r *Repository) SaveBanner(ctx context.Context, in BannerInput) (*models.Banner, error) {
	if err := validateBanner(in); err != nil {
		return nil, err
	}

	if isNew(in.ID) {
		if err := requireText("text", in.Text); err != nil {
			return nil, err
		}
		banner := &models.Banner{
			Text:       strings.TrimSpace(*in.Text),
			Direction:  models.BannerLeft,
			Speed:      DefaultBannerSpeed,
			IsActive:   true,
			OrderIndex: deref(in.OrderIndex),
		}
		if in.Direction != nil {
			banner.Direction = *in.Direction
		}
		if in.Speed != nil {
			banner.Speed = *in.Speed
		}
		if in.IsActive != nil {
			banner.IsActive = *in.IsActive
		}
		if err := r.db.BannerRepo().Add(ctx, banner); err != nil {
			return nil, writeError("create", "banner", err)
		}
		return r.GetBannerByID(ctx, banner.ID.String())
	}

	id, err := updateID(in.ID)
	if err != nil {
		return nil, err
	}
	f := fields{}
	if in.Text != nil {
		if err := requireText("text", in.Text); err != nil {
			return nil, err
		}
		f["text"] = strings.TrimSpace(*in.Text)
	}
	if in.Direction != nil {
		f["direction"] = *in.Direction
	}
	if in.Speed != nil {
		f["speed"] = *in.Speed
	}
	if in.IsActive != nil {
		f["is_active"] = *in.IsActive
	}
	if in.OrderIndex != nil {
		f["order_index"] = *in.OrderIndex
	}

	if err := r.db.BannerRepo().UpdateFields(ctx, id, f); err != nil {
		return nil, writeError("update", "banner", err)
	}
	return r.GetBannerByID(ctx, id.String())
}

func (r *Repository) DeleteBanner(ctx context.Context, id string) error {
	bannerID, err := lookupID("banner", id)
	if err != nil {
		return err
	}
	if err := r.db.BannerRepo().Delete(ctx, bannerID); err != nil {
		return writeError("delete", "banner", err)
	}
	return nil
}

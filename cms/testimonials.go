package cms

import (
	"context"
	"fmt"
	"strings"

	"github.com/getwebfast/site-backend/errs"
	"github.com/getwebfast/site-backend/models"
)

type TestimonialInput struct {
	ID     string  `json:"id"`
	Name   *string `json:"name"`
	Role   *string `json:"role"`
	Text   *string `json:"text"`
	Image  *string `json:"image"`
	Rating *int    `json:"rating"`
}

func (r *Repository) ListTestimonials(ctx context.Context) ([]*models.Testimonial, error) {
	testimonials, err := r.db.TestimonialRepo().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	return testimonials, nil
}

func (r *Repository) GetTestimonialByID(ctx context.Context, id string) (*models.Testimonial, error) {
	testimonialID, err := lookupID("testimonial", id)
	if err != nil {
		return nil, err
	}
	testimonial, err := r.db.TestimonialRepo().FindByID(ctx, testimonialID)
	if err != nil {
		return nil, fmt.Errorf("get testimonial %s: %w", id, err)
	}
	if testimonial == nil {
		return nil, errs.NewNotFound("testimonial")
	}
	return testimonial, nil
}

func (r *Repository) SaveTestimonial(ctx context.Context, in TestimonialInput) (*models.Testimonial, error) {
	if in.Rating != nil && !models.ValidRating(*in.Rating) {
		return nil, errs.NewInvalidFieldError("rating", fmt.Sprintf("must be between %d and %d", models.MinRating, models.MaxRating))
	}

	if isNew(in.ID) {
		if err := requireText("name", in.Name); err != nil {
			return nil, err
		}
		if err := requireText("text", in.Text); err != nil {
			return nil, err
		}
		testimonial := &models.Testimonial{
			Name:   strings.TrimSpace(*in.Name),
			Role:   strings.TrimSpace(deref(in.Role)),
			Text:   strings.TrimSpace(*in.Text),
			Image:  strings.TrimSpace(deref(in.Image)),
			Rating: deref(in.Rating),
		}
		if err := r.db.TestimonialRepo().Add(ctx, testimonial); err != nil {
			return nil, writeError("create", "testimonial", err)
		}
		return r.GetTestimonialByID(ctx, testimonial.ID.String())
	}

	id, err := updateID(in.ID)
	if err != nil {
		return nil, err
	}
	f := fields{}
	if in.Name != nil {
		if err := requireText("name", in.Name); err != nil {
			return nil, err
		}
		f["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Text != nil {
		if err := requireText("text", in.Text); err != nil {
			return nil, err
		}
		f["text"] = strings.TrimSpace(*in.Text)
	}
	f.trimmed("role", in.Role)
	f.trimmed("image", in.Image)
	if in.Rating != nil {
		f["rating"] = *in.Rating
	}

	if err := r.db.TestimonialRepo().UpdateFields(ctx, id, f); err != nil {
		return nil, writeError("update", "testimonial", err)
	}
	return r.GetTestimonialByID(ctx, id.String())
}

func (r *Repository) DeleteTestimonial(ctx context.Context, id string) error {
	testimonial, err := r.GetTestimonialByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.TestimonialRepo().Delete(ctx, testimonial.ID); err != nil {
		return writeError("delete", "testimonial", err)
	}
	r.removeImages(ctx, "testimonial", testimonial.ID, testimonial.Image)
	return nil
}

package admin

import (
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	catsvc "autovia-backend/internal/application/catalog"
	"autovia-backend/internal/domain"
	"autovia-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers serves the session-gated admin mutation surface. Payloads are
// multipart forms so photo files can accompany the fields.
type Handlers struct {
	Service *catsvc.Service
}

var requiredFields = []string{"title", "price", "year", "mileage", "city"}

// inputFromForm reads listing fields from the (multipart) form. Numeric
// fields are coerced to integers; malformed input is a ValidationError.
func inputFromForm(c *fiber.Ctx) (catsvc.ListingInput, error) {
	var in catsvc.ListingInput
	for _, f := range requiredFields {
		if strings.TrimSpace(c.FormValue(f)) == "" {
			return in, &domain.ValidationError{Field: f, Message: "Missing required field: " + f}
		}
	}

	price, err := strconv.ParseInt(strings.TrimSpace(c.FormValue("price")), 10, 64)
	if err != nil {
		return in, &domain.ValidationError{Field: "price", Message: "price must be an integer"}
	}
	year, err := strconv.Atoi(strings.TrimSpace(c.FormValue("year")))
	if err != nil {
		return in, &domain.ValidationError{Field: "year", Message: "year must be an integer"}
	}
	mileage, err := strconv.ParseInt(strings.TrimSpace(c.FormValue("mileage")), 10, 64)
	if err != nil {
		return in, &domain.ValidationError{Field: "mileage", Message: "mileage must be an integer"}
	}

	in = catsvc.ListingInput{
		Title:           c.FormValue("title"),
		Price:           price,
		Year:            year,
		Mileage:         mileage,
		City:            c.FormValue("city"),
		Description:     c.FormValue("description"),
		VIN:             c.FormValue("vin"),
		RepuveStatus:    c.FormValue("repuve_status"),
		InsuranceStatus: c.FormValue("insurance_status"),
		TitleType:       c.FormValue("title_type"),
		NotesHistory:    c.FormValue("notes_history"),
	}
	if v := strings.TrimSpace(c.FormValue("owners")); v != "" {
		owners, err := strconv.Atoi(v)
		if err != nil {
			return in, &domain.ValidationError{Field: "owners", Message: "owners must be an integer"}
		}
		in.Owners = &owners
	}
	if v := strings.TrimSpace(c.FormValue("is_sold")); v != "" {
		sold, err := strconv.ParseBool(v)
		if err != nil {
			return in, &domain.ValidationError{Field: "is_sold", Message: "is_sold must be a boolean"}
		}
		in.IsSold = sold
	}
	return in, nil
}

// uploadsFromForm opens the "photos" multipart files in payload order.
// Callers must invoke the returned closer.
func uploadsFromForm(c *fiber.Ctx) ([]catsvc.PhotoUpload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, func() {}, nil
	}
	headers := form.File["photos"]
	var opened []multipart.File
	uploads := make([]catsvc.PhotoUpload, 0, len(headers))
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		opened = append(opened, f)
		uploads = append(uploads, catsvc.PhotoUpload{Name: fh.Filename, Content: f})
	}
	return uploads, closeAll, nil
}

func uploadMeta(failed []string) interface{} {
	if len(failed) == 0 {
		return nil
	}
	return fiber.Map{"failed_uploads": failed}
}

// POST /api/v1/admin/listings — multipart create, 201 with slug and id
func (h *Handlers) CreateListing(c *fiber.Ctx) error {
	in, err := inputFromForm(c)
	if err != nil {
		return err
	}
	uploads, closeFiles, err := uploadsFromForm(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	defer closeFiles()

	result, err := h.Service.Create(c.Context(), in, uploads)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Listing created successfully", result.Listing, uploadMeta(result.FailedUploads))
}

// PUT /api/v1/admin/listings/:id — multipart update; appends photos, never replaces
func (h *Handlers) UpdateListing(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	in, err := inputFromForm(c)
	if err != nil {
		return err
	}
	uploads, closeFiles, err := uploadsFromForm(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	defer closeFiles()

	result, err := h.Service.Update(c.Context(), id, in, uploads)
	if err != nil {
		return err
	}
	return response.Success(c, "Listing updated successfully", result.Listing, uploadMeta(result.FailedUploads))
}

// DELETE /api/v1/admin/listings/:id — cascades photos, best-effort file cleanup
func (h *Handlers) DeleteListing(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Service.Delete(c.Context(), id); err != nil {
		return err
	}
	return response.Success(c, "Listing deleted successfully", nil, nil)
}

// DELETE /api/v1/admin/photos/:photo_id
func (h *Handlers) DetachPhoto(c *fiber.Ctx) error {
	id, err := idParam(c, "photo_id")
	if err != nil {
		return err
	}
	if err := h.Service.DetachPhoto(c.Context(), id); err != nil {
		return err
	}
	return response.Success(c, "Photo removed successfully", nil, nil)
}

// PATCH /api/v1/admin/photos/:photo_id/cover
func (h *Handlers) SetCoverPhoto(c *fiber.Ctx) error {
	id, err := idParam(c, "photo_id")
	if err != nil {
		return err
	}
	if err := h.Service.SetCoverPhoto(c.Context(), id); err != nil {
		return err
	}
	return response.Success(c, "Cover photo set successfully", nil, nil)
}

// GET /api/v1/admin/listings/:id/events — audit trail, newest first
func (h *Handlers) ListEvents(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	events, err := h.Service.Events(c.Context(), id)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listing events fetched successfully", events, nil)
}

func idParam(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0, &domain.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return uint(v), nil
}

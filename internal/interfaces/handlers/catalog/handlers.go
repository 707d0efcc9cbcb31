package catalog

import (
	"strconv"

	catsvc "autovia-backend/internal/application/catalog"
	"autovia-backend/internal/domain"
	"autovia-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers serves the public browsing surface.
type Handlers struct {
	Service       *catsvc.Service
	WhatsAppPhone string
}

// listingView decorates a listing with its cover photo and contact link for
// list/detail rendering.
type listingView struct {
	domain.Listing
	Cover      *domain.Photo `json:"cover"`
	ContactURL string        `json:"contact_url,omitempty"`
}

func (h *Handlers) view(l domain.Listing) listingView {
	return listingView{
		Listing:    l,
		Cover:      l.CoverPhoto(),
		ContactURL: catsvc.ContactLink(&l, h.WhatsAppPhone),
	}
}

func (h *Handlers) views(listings []domain.Listing) []listingView {
	out := make([]listingView, len(listings))
	for i, l := range listings {
		out[i] = h.view(l)
	}
	return out
}

// filterFromQuery builds a Filter from query params. Malformed or
// out-of-enum values are dropped, never errors.
func filterFromQuery(c *fiber.Ctx) catsvc.Filter {
	f := catsvc.Filter{
		Term:            c.Query("q"),
		City:            c.Query("city"),
		RepuveStatus:    c.Query("repuve_status"),
		InsuranceStatus: c.Query("insurance_status"),
	}
	if v, err := strconv.ParseInt(c.Query("min_price"), 10, 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseInt(c.Query("max_price"), 10, 64); err == nil {
		f.MaxPrice = &v
	}
	if v, err := strconv.Atoi(c.Query("year")); err == nil {
		f.Year = &v
	}
	if v, err := strconv.ParseBool(c.Query("sold")); err == nil {
		f.Sold = &v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		f.Limit = v
	}
	return f
}

// GET /api/v1/catalog/listings — filterable inventory, newest first
func (h *Handlers) List(c *fiber.Ctx) error {
	listings, err := h.Service.Search(c.Context(), filterFromQuery(c))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listings fetched successfully", h.views(listings), nil)
}

// GET /api/v1/catalog/home — the 6 most recent unsold listings
func (h *Handlers) Home(c *fiber.Ctx) error {
	sold := false
	listings, err := h.Service.Search(c.Context(), catsvc.Filter{Sold: &sold, Limit: 6})
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Recent listings fetched successfully", h.views(listings), nil)
}

// GET /api/v1/catalog/listings/:slug — detail page payload
func (h *Handlers) GetBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return response.Error(c, "slug is required", 400, nil)
	}
	listing, err := h.Service.GetBySlug(c.Context(), slug)
	if err != nil {
		return err
	}
	return response.Success(c, "Listing fetched successfully", h.view(*listing), nil)
}

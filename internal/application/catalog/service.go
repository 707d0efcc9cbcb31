package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"autovia-backend/internal/domain"
	"autovia-backend/internal/pkg/slugify"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxUploadsPerRequest caps photo files accepted per create/update call.
// Files beyond the cap are silently ignored.
const MaxUploadsPerRequest = 10

// FileStore is the file persistence collaborator (local disk in production).
type FileStore interface {
	Save(src io.Reader, name string) (string, error)
	Delete(name string) error
}

// Service orchestrates the listing lifecycle: create, update, delete,
// photo attach/detach, and all catalog reads.
type Service struct {
	DB    *gorm.DB
	Files FileStore
	// Now supplies the slug disambiguator and upload name prefix. Nil means time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ListingInput carries the mutable fields of a listing. Slug and id are
// storage-assigned and immutable.
type ListingInput struct {
	Title           string
	Price           int64
	Year            int
	Mileage         int64
	City            string
	Description     string
	VIN             string
	Owners          *int
	RepuveStatus    string
	InsuranceStatus string
	TitleType       string
	NotesHistory    string
	IsSold          bool
}

// PhotoUpload is one uploaded file. Content is read exactly once, in request
// order.
type PhotoUpload struct {
	Name    string
	Content io.Reader
}

// MutationResult is a create/update outcome. FailedUploads lists original
// filenames whose persistence failed; the listing write itself succeeded.
type MutationResult struct {
	Listing       *domain.Listing
	FailedUploads []string
}

func validate(in ListingInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return &domain.ValidationError{Field: "title", Message: "title is required"}
	}
	if in.Price < 0 {
		return &domain.ValidationError{Field: "price", Message: "price must be non-negative"}
	}
	if in.Year <= 0 {
		return &domain.ValidationError{Field: "year", Message: "year must be positive"}
	}
	if in.Mileage < 0 {
		return &domain.ValidationError{Field: "mileage", Message: "mileage must be non-negative"}
	}
	if !domain.IsCity(in.City) {
		return &domain.ValidationError{Field: "city", Message: "city must be one of: " + strings.Join(domain.Cities, ", ")}
	}
	if in.Owners != nil && *in.Owners < 0 {
		return &domain.ValidationError{Field: "owners", Message: "owners must be non-negative"}
	}
	if in.RepuveStatus != "" && !domain.IsRepuveStatus(in.RepuveStatus) {
		return &domain.ValidationError{Field: "repuve_status", Message: "invalid repuve_status"}
	}
	if in.InsuranceStatus != "" && !domain.IsInsuranceStatus(in.InsuranceStatus) {
		return &domain.ValidationError{Field: "insurance_status", Message: "invalid insurance_status"}
	}
	if in.TitleType != "" && !domain.IsTitleType(in.TitleType) {
		return &domain.ValidationError{Field: "title_type", Message: "invalid title_type"}
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// sanitizeFilename strips unsafe characters from an uploaded name before it
// is handed to the file store.
func sanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(filepath.Base(name), "")
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

func newEvent(tx *gorm.DB, listingID uint, eventType string, data map[string]interface{}) error {
	b, _ := json.Marshal(data)
	return tx.Create(&domain.ListingEvent{
		ListingID: listingID,
		EventType: eventType,
		EventData: datatypes.JSON(b),
	}).Error
}

// Create validates the payload, generates a slug, inserts the listing, then
// persists accompanying files and records their photo rows. Files are only
// persisted after the listing row exists, so a photo can never reference a
// missing car_id. A single file failure is partial success, not an abort.
func (s *Service) Create(ctx context.Context, in ListingInput, files []PhotoUpload) (*MutationResult, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	now := s.now()
	listing := &domain.Listing{
		Title:           strings.TrimSpace(in.Title),
		Price:           in.Price,
		Year:            in.Year,
		Mileage:         in.Mileage,
		City:            in.City,
		Description:     in.Description,
		VIN:             in.VIN,
		Owners:          in.Owners,
		RepuveStatus:    defaultIfEmpty(in.RepuveStatus, domain.RepuveUnverified),
		InsuranceStatus: defaultIfEmpty(in.InsuranceStatus, domain.InsuranceNormal),
		TitleType:       defaultIfEmpty(in.TitleType, domain.TitleOriginal),
		NotesHistory:    in.NotesHistory,
		Slug:            slugify.Make(in.Title, now.Unix()),
		IsSold:          in.IsSold,
	}

	err := s.insertListing(ctx, listing)
	if err != nil && isUniqueViolation(err) {
		// One local retry with a fresh disambiguator; surfaced as a conflict
		// if it recurs.
		listing.Slug = slugify.Make(in.Title, now.UnixNano())
		err = s.insertListing(ctx, listing)
		if err != nil && isUniqueViolation(err) {
			return nil, &domain.ConflictError{Message: "slug already in use: " + listing.Slug}
		}
	}
	if err != nil {
		return nil, err
	}

	failed := s.attachFiles(ctx, listing, files, now)
	return &MutationResult{Listing: listing, FailedUploads: failed}, nil
}

func (s *Service) insertListing(ctx context.Context, listing *domain.Listing) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(listing).Error; err != nil {
			return err
		}
		return newEvent(tx, listing.ID, domain.EventCreated, map[string]interface{}{
			"slug":  listing.Slug,
			"title": listing.Title,
			"price": listing.Price,
		})
	})
}

// Update overwrites all mutable fields of a listing and appends any newly
// supplied files as additional photos. Existing photos are never replaced.
func (s *Service) Update(ctx context.Context, id uint, in ListingInput, files []PhotoUpload) (*MutationResult, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Resource: "listing"}
		}
		return nil, err
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	soldBefore := listing.IsSold
	listing.Title = strings.TrimSpace(in.Title)
	listing.Price = in.Price
	listing.Year = in.Year
	listing.Mileage = in.Mileage
	listing.City = in.City
	listing.Description = in.Description
	listing.VIN = in.VIN
	listing.Owners = in.Owners
	listing.RepuveStatus = defaultIfEmpty(in.RepuveStatus, domain.RepuveUnverified)
	listing.InsuranceStatus = defaultIfEmpty(in.InsuranceStatus, domain.InsuranceNormal)
	listing.TitleType = defaultIfEmpty(in.TitleType, domain.TitleOriginal)
	listing.NotesHistory = in.NotesHistory
	listing.IsSold = in.IsSold

	eventType := domain.EventUpdated
	if in.IsSold != soldBefore {
		if in.IsSold {
			eventType = domain.EventSold
		} else {
			eventType = domain.EventUnsold
		}
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&listing).Error; err != nil {
			return err
		}
		return newEvent(tx, listing.ID, eventType, map[string]interface{}{
			"price":   listing.Price,
			"is_sold": listing.IsSold,
		})
	})
	if err != nil {
		return nil, err
	}

	failed := s.attachFiles(ctx, &listing, files, s.now())
	return &MutationResult{Listing: &listing, FailedUploads: failed}, nil
}

// attachFiles persists uploads sequentially in payload order and records a
// photo row per stored file. Failures are logged and collected; photos
// already persisted stay.
func (s *Service) attachFiles(ctx context.Context, listing *domain.Listing, files []PhotoUpload, now time.Time) []string {
	if len(files) > MaxUploadsPerRequest {
		files = files[:MaxUploadsPerRequest]
	}
	var offset int64
	s.DB.WithContext(ctx).Model(&domain.Photo{}).Where("car_id = ?", listing.ID).Count(&offset)

	var failed []string
	for i, f := range files {
		name := fmt.Sprintf("%d-%d-%s", now.UnixMilli(), int(offset)+i, sanitizeFilename(f.Name))
		stored, err := s.Files.Save(f.Content, name)
		if err != nil {
			ioErr := &domain.StorageIOError{Filename: f.Name, Err: err}
			log.Error().Err(ioErr).Uint("car_id", listing.ID).Msg("Photo upload failed")
			failed = append(failed, f.Name)
			continue
		}
		photo := domain.Photo{CarID: listing.ID, Filename: stored, SortOrder: int(offset) + i}
		if err := s.DB.WithContext(ctx).Create(&photo).Error; err != nil {
			log.Error().Err(err).Uint("car_id", listing.ID).Str("filename", stored).Msg("Photo row insert failed")
			failed = append(failed, f.Name)
			continue
		}
		listing.Photos = append(listing.Photos, photo)
	}
	return failed
}

// Delete removes the listing row and its photo rows in one transaction, then
// best-effort deletes the backing files. A file-removal failure never rolls
// back the row deletion.
func (s *Service) Delete(ctx context.Context, id uint) error {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Preload("Photos").First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.NotFoundError{Resource: "listing"}
		}
		return err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("car_id = ?", listing.ID).Delete(&domain.Photo{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Listing{}, listing.ID).Error; err != nil {
			return err
		}
		return newEvent(tx, listing.ID, domain.EventDeleted, map[string]interface{}{
			"slug":  listing.Slug,
			"title": listing.Title,
		})
	})
	if err != nil {
		return err
	}

	for _, p := range listing.Photos {
		if err := s.Files.Delete(p.Filename); err != nil {
			log.Warn().Err(err).Str("filename", p.Filename).Msg("Photo file not removed")
		}
	}
	return nil
}

// DetachPhoto deletes a photo row and best-effort deletes its backing file.
func (s *Service) DetachPhoto(ctx context.Context, photoID uint) error {
	var photo domain.Photo
	if err := s.DB.WithContext(ctx).First(&photo, photoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.NotFoundError{Resource: "photo"}
		}
		return err
	}
	if err := s.DB.WithContext(ctx).Delete(&domain.Photo{}, photo.ID).Error; err != nil {
		return err
	}
	if err := s.Files.Delete(photo.Filename); err != nil {
		log.Warn().Err(err).Str("filename", photo.Filename).Msg("Photo file not removed")
	}
	return nil
}

// SetCoverPhoto flags one photo as the cover image, clearing the flag on its
// siblings in the same transaction.
func (s *Service) SetCoverPhoto(ctx context.Context, photoID uint) error {
	var photo domain.Photo
	if err := s.DB.WithContext(ctx).First(&photo, photoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.NotFoundError{Resource: "photo"}
		}
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Photo{}).Where("car_id = ?", photo.CarID).Update("is_cover", false).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Photo{}).Where("id = ?", photo.ID).Update("is_cover", true).Error
	})
}

func photosInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

// GetBySlug returns a listing with its photos in display order.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Listing, error) {
	var listing domain.Listing
	err := s.DB.WithContext(ctx).Preload("Photos", photosInOrder).Where("slug = ?", slug).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Resource: "listing"}
		}
		return nil, err
	}
	return &listing, nil
}

// GetByID returns a listing with its photos in display order.
func (s *Service) GetByID(ctx context.Context, id uint) (*domain.Listing, error) {
	var listing domain.Listing
	err := s.DB.WithContext(ctx).Preload("Photos", photosInOrder).First(&listing, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Resource: "listing"}
		}
		return nil, err
	}
	return &listing, nil
}

// Search returns all listings matching the filter, newest first. No
// pagination: display limits are the caller's concern (or the Limit
// criterion for the home page).
func (s *Service) Search(ctx context.Context, f Filter) ([]domain.Listing, error) {
	var listings []domain.Listing
	q := f.Apply(s.DB.WithContext(ctx).Preload("Photos", photosInOrder))
	if err := q.Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// PhotosForListing returns a listing's photos in display order.
func (s *Service) PhotosForListing(ctx context.Context, listingID uint) ([]domain.Photo, error) {
	var photos []domain.Photo
	err := photosInOrder(s.DB.WithContext(ctx).Where("car_id = ?", listingID)).Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// Events returns the audit trail for a listing, newest first. Works for
// deleted listings too.
func (s *Service) Events(ctx context.Context, listingID uint) ([]domain.ListingEvent, error) {
	var events []domain.ListingEvent
	err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).
		Order("created_at DESC, id DESC").Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func defaultIfEmpty(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

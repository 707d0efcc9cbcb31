package domain

// Photo is an image artifact attached to a Listing. Filename is the stored
// name under the managed upload directory, not an absolute path.
type Photo struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	CarID     uint   `gorm:"column:car_id;not null;index" json:"car_id"`
	Filename  string `gorm:"not null" json:"filename"`
	IsCover   bool   `gorm:"column:is_cover;not null;default:false" json:"is_cover"`
	SortOrder int    `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
}

func (Photo) TableName() string {
	return "photos"
}

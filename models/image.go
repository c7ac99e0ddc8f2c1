package models

// ImageRef points at an image held by the blob store. PublicID is the key used
// to delete it again.
type ImageRef struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"public_id" json:"publicId"`
}

func (r ImageRef) IsZero() bool {
	return r.URL == "" && r.PublicID == ""
}
